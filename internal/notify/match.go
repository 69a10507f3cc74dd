package notify

import (
	"context"
	"fmt"
	"strconv"

	"ssf-backend/internal/domain"
)

// NewListingTitle is the title of the notification announcing a matched listing.
const NewListingTitle = "Surplus food available"

// Matching returns the subscriptions interested in l.
func Matching(subs []domain.SubscriptionPref, l domain.Listing) []domain.SubscriptionPref {
	out := []domain.SubscriptionPref{}
	for _, s := range subs {
		if s.Matches(l) {
			out = append(out, s)
		}
	}
	return out
}

// Summary renders the human-readable notification for l.
func Summary(l domain.Listing) (title, body string) {
	qty := strconv.FormatFloat(l.Quantity, 'f', -1, 64)
	return NewListingTitle, fmt.Sprintf("%s • %s %s at %s (%s)", l.Title, qty, l.Unit, l.Location, l.Category)
}

// Matcher announces new listings to subscribers.
type Matcher struct {
	Notifier Notifier
}

// Announce emits a single notification when at least one subscription matches l and
// reports whether it did.
func (m *Matcher) Announce(ctx context.Context, subs []domain.SubscriptionPref, l domain.Listing) bool {
	if m == nil || m.Notifier == nil {
		return false
	}
	if len(Matching(subs, l)) == 0 {
		return false
	}
	title, body := Summary(l)
	m.Notifier.Notify(ctx, title, body)
	return true
}
