package search

import (
	"context"
	"strings"

	"github.com/finboard/backend/internal/domain/search"
	"github.com/finboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Executor answers free-text searches over the projection with a single
// heuristic query planner instead of a search-engine dependency.
type Executor struct {
	docs search.DocumentRepository
}

// NewExecutor creates an Executor over the document store
func NewExecutor(docs search.DocumentRepository) *Executor {
	return &Executor{docs: docs}
}

// Search translates a free-text term plus a page request into a bounded,
// paginated set of live documents. Precedence:
//
//  1. blank term: all live documents
//  2. valid 24-hex identifier: documents whose invoice or customer id
//     equals it, so one search box resolves either entity by id
//  3. otherwise: case-insensitive literal substring over status, customer
//     name and customer email; when the term also parses as a decimal, an
//     exact amount equality joins the disjunction
//
// The identifier check runs before the numeric one, so a term that is both
// resolves as an id. The total is computed from an unpaged run of the same
// predicate. An empty page is a valid outcome, not an error.
func (e *Executor) Search(ctx context.Context, term string, page search.PageRequest) (shared.Paginated[search.Document], error) {
	query := plan(term)

	docs, total, err := e.docs.FindPage(ctx, query, page)
	if err != nil {
		return shared.Paginated[search.Document]{}, err
	}
	if docs == nil {
		docs = []search.Document{}
	}
	return shared.NewPaginated(docs, total, page.Page, page.Size), nil
}

// plan builds the structured predicate for a search term
func plan(term string) search.Query {
	term = strings.TrimSpace(term)
	if term == "" {
		return search.Query{}
	}

	if id, err := primitive.ObjectIDFromHex(term); err == nil {
		return search.Query{ID: &id}
	}

	query := search.Query{Text: term}
	if amount, err := decimal.NewFromString(term); err == nil {
		query.Amount = &amount
	}
	return query
}
