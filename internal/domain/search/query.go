package search

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Query is the structured predicate the search executor produces and the
// document store translates into its native query language. The zero value
// matches every live (non-tombstoned) document. All variants exclude
// tombstones.
type Query struct {
	// ID, when set, matches documents whose InvoiceID or CustomerID equals
	// it (disjunction). Takes precedence over Text/Amount.
	ID *primitive.ObjectID
	// Text matches as a literal, case-insensitive substring of status,
	// customer name, or customer email (disjunction). Metacharacters carry
	// no regex meaning.
	Text string
	// Amount, when set, adds an exact-equality predicate on amount to the
	// text disjunction.
	Amount *decimal.Decimal
}

// IsBlank reports whether the query matches all live documents
func (q Query) IsBlank() bool {
	return q.ID == nil && q.Text == "" && q.Amount == nil
}

// PageRequest is a 1-based page window; a zero Size means unpaged.
type PageRequest struct {
	Page int
	Size int
}

// Unpaged reports whether the whole result set was requested
func (p PageRequest) Unpaged() bool {
	return p.Size <= 0
}

// Skip returns the number of documents to skip for the window
func (p PageRequest) Skip() int64 {
	if p.Unpaged() || p.Page <= 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Size)
}
