package domain

// CollectionKey names one of the four persisted top-level datasets.
type CollectionKey string

const (
	CollectionListings      CollectionKey = "listings"
	CollectionEvents        CollectionKey = "events"
	CollectionSubscriptions CollectionKey = "subscriptions"
	CollectionSettings      CollectionKey = "settings"
)

// Collections lists every collection in reload order.
var Collections = []CollectionKey{
	CollectionListings,
	CollectionEvents,
	CollectionSubscriptions,
	CollectionSettings,
}

// Valid reports whether k is one of the four known collections.
func (k CollectionKey) Valid() bool {
	switch k {
	case CollectionListings, CollectionEvents, CollectionSubscriptions, CollectionSettings:
		return true
	}
	return false
}

func (k CollectionKey) String() string {
	return string(k)
}
