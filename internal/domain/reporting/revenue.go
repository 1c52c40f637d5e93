package reporting

import (
	"github.com/finboard/backend/internal/domain/shared"
)

// monthOrder fixes chart ordering; mongo has no notion of calendar month names.
var monthOrder = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// Revenue is a read-mostly chart record: aggregate revenue per calendar month.
type Revenue struct {
	shared.BaseEntity `bson:",inline"`
	Month             string `bson:"month" json:"month"`
	Revenue           int64  `bson:"revenue" json:"revenue"`
}

// CollectionName returns the mongo collection for revenues
func (Revenue) CollectionName() string {
	return "revenues"
}

// NewRevenue creates a revenue record for the given month
func NewRevenue(month string, revenue int64) (*Revenue, error) {
	if _, ok := monthOrder[month]; !ok {
		return nil, shared.NewDomainError("INVALID_MONTH", "Month must be a three-letter English abbreviation")
	}
	if revenue < 0 {
		return nil, shared.NewDomainError("INVALID_REVENUE", "Revenue cannot be negative")
	}
	return &Revenue{
		BaseEntity: shared.NewBaseEntity(),
		Month:      month,
		Revenue:    revenue,
	}, nil
}

// MonthIndex returns the 1-based calendar position of the record's month
func (r *Revenue) MonthIndex() int {
	return monthOrder[r.Month]
}

// SortByMonth orders revenue records Jan..Dec in place
func SortByMonth(records []Revenue) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && records[j-1].MonthIndex() > records[j].MonthIndex(); j-- {
			records[j-1], records[j] = records[j], records[j-1]
		}
	}
}
