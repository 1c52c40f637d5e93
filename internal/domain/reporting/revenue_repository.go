package reporting

import (
	"context"
)

// RevenueRepository defines persistence operations for monthly revenue records
type RevenueRepository interface {
	FindAll(ctx context.Context) ([]Revenue, error)
	FindByMonth(ctx context.Context, month string) (*Revenue, error)
	Save(ctx context.Context, revenue *Revenue) error
}
