package booking

import (
	"context"

	"github.com/clubcourt/reserve/internal/store"
)

// SubscriptionDirectory is the contract the engine needs from the
// subscription subsystem.
type SubscriptionDirectory interface {
	HasActiveSubscription(ctx context.Context, memberID int64, category Category) (bool, error)
}

// storeSubscriptions answers eligibility from the subscriptions table.
type storeSubscriptions struct {
	store *store.Store
}

func (d storeSubscriptions) HasActiveSubscription(ctx context.Context, memberID int64, category Category) (bool, error) {
	return d.store.HasActiveSubscription(ctx, memberID, string(category))
}

// IsEligible reports whether the member holds an active subscription in the
// requested category. No side effects.
func (s *Service) IsEligible(ctx context.Context, memberID int64, category Category) (bool, error) {
	return s.subs.HasActiveSubscription(ctx, memberID, category)
}
