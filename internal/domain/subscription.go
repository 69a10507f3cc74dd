package domain

// SubscriptionPref is a standing notification interest. Empty Categories or Locations
// act as wildcards.
type SubscriptionPref struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	Role                    Role     `json:"role"`
	Categories              []string `json:"categories"`
	Locations               []string `json:"locations"`
	Enabled                 bool     `json:"enabled"`
	ViaBrowserNotifications bool     `json:"viaBrowserNotifications"`
}

// SubscriptionDraft is the caller-supplied part of a new subscription.
type SubscriptionDraft struct {
	Name                    string   `json:"name"`
	Role                    Role     `json:"role"`
	Categories              []string `json:"categories"`
	Locations               []string `json:"locations"`
	Enabled                 bool     `json:"enabled"`
	ViaBrowserNotifications bool     `json:"viaBrowserNotifications"`
}

// NewSubscription assigns an id to a draft.
func NewSubscription(d SubscriptionDraft) SubscriptionPref {
	cats, locs := d.Categories, d.Locations
	if cats == nil {
		cats = []string{}
	}
	if locs == nil {
		locs = []string{}
	}
	return SubscriptionPref{
		ID:                      NewID("sub"),
		Name:                    d.Name,
		Role:                    d.Role,
		Categories:              cats,
		Locations:               locs,
		Enabled:                 d.Enabled,
		ViaBrowserNotifications: d.ViaBrowserNotifications,
	}
}

// Matches reports whether s is interested in l.
func (s SubscriptionPref) Matches(l Listing) bool {
	if !s.Enabled {
		return false
	}
	return (len(s.Categories) == 0 || contains(s.Categories, l.Category)) &&
		(len(s.Locations) == 0 || contains(s.Locations, l.Location))
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
