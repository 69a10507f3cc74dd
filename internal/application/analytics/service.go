package analytics

import (
	"time"

	"ssf-backend/internal/analytics"
	"ssf-backend/internal/replica"
)

type Service struct {
	Replica  *replica.Replica
	Location *time.Location
}

// Report aggregates the collected listings with the current impact factors.
func (s *Service) Report() analytics.Result {
	return analytics.Compute(s.Replica.Listings(), s.Replica.Settings().Impact, s.Location)
}
