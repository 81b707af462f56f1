package domain

import (
	bookingdomain "github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	reviewsdomain "github.com/durgapur-services/marketplace-backend/internal/reviews/domain"
)

// Stats are the partner dashboard figures derived from orders and reviews.
type Stats struct {
	Revenue     float64 `json:"revenue"`
	ActiveJobs  int     `json:"active_jobs"`
	TotalOrders int     `json:"total_orders"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Views       int64   `json:"views"`
}

// ComputeStats derives Stats. pendingViews are counted views not yet
// flushed into the provider row.
func ComputeStats(p *catalogdomain.Provider, orders []bookingdomain.Order, reviews []reviewsdomain.Review, pendingViews int64) Stats {
	s := Stats{
		TotalOrders: len(orders),
		Rating:      p.EffectiveRating(),
		ReviewCount: len(reviews),
		Views:       p.Views + pendingViews,
	}
	for _, o := range orders {
		if o.Status.CountsAsRevenue() {
			s.Revenue += o.Amount
		}
		if o.Status == bookingdomain.StatusAccepted {
			s.ActiveJobs++
		}
	}
	return s
}
