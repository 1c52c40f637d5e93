package reporting

import (
	"github.com/finboard/backend/internal/domain/reporting"
)

// UpsertRevenueRequest records a month's revenue figure
type UpsertRevenueRequest struct {
	Month   string `json:"month" binding:"required,oneof=Jan Feb Mar Apr May Jun Jul Aug Sep Oct Nov Dec"`
	Revenue int64  `json:"revenue" binding:"min=0"`
}

// RevenueResponse represents a monthly revenue record in API responses
type RevenueResponse struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

// ToRevenueResponse converts a domain Revenue to RevenueResponse
func ToRevenueResponse(r *reporting.Revenue) RevenueResponse {
	return RevenueResponse{Month: r.Month, Revenue: r.Revenue}
}

// ToRevenueResponses converts a slice of domain Revenues
func ToRevenueResponses(revenues []reporting.Revenue) []RevenueResponse {
	responses := make([]RevenueResponse, len(revenues))
	for i := range revenues {
		responses[i] = ToRevenueResponse(&revenues[i])
	}
	return responses
}
