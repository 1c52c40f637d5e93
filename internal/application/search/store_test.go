package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/finboard/backend/internal/domain/billing"
	"github.com/finboard/backend/internal/domain/partner"
	"github.com/finboard/backend/internal/domain/search"
	"github.com/finboard/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memDocStore is an in-memory search.DocumentRepository mirroring the
// store-side query semantics: tombstone exclusion, id disjunction, literal
// case-insensitive substring matching and amount equality.
type memDocStore struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]search.Document

	failSave      error
	failDeleteAll error
}

func newMemDocStore() *memDocStore {
	return &memDocStore{docs: make(map[primitive.ObjectID]search.Document)}
}

func (s *memDocStore) FindActiveByInvoiceID(_ context.Context, invoiceID primitive.ObjectID) (*search.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.InvoiceID == invoiceID && d.DeletedAt == nil {
			doc := d
			return &doc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *memDocStore) FindByInvoiceID(_ context.Context, invoiceID primitive.ObjectID) (*search.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.InvoiceID == invoiceID {
			doc := d
			return &doc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *memDocStore) FindPage(_ context.Context, query search.Query, page search.PageRequest) ([]search.Document, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]search.Document, 0)
	for _, d := range s.docs {
		if d.DeletedAt != nil {
			continue
		}
		if matches(query, d) {
			matched = append(matched, d)
		}
	}

	// Newest date first, matching the store's sort
	for i := 1; i < len(matched); i++ {
		for j := i; j > 0 && matched[j-1].Date.Before(matched[j].Date); j-- {
			matched[j-1], matched[j] = matched[j], matched[j-1]
		}
	}

	total := int64(len(matched))
	if page.Unpaged() {
		return matched, total, nil
	}

	skip := page.Skip()
	if skip >= int64(len(matched)) {
		return []search.Document{}, total, nil
	}
	end := skip + int64(page.Size)
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[skip:end], total, nil
}

func matches(q search.Query, d search.Document) bool {
	if q.ID != nil {
		return d.InvoiceID == *q.ID || d.CustomerID == *q.ID
	}
	if q.Text == "" {
		return true
	}
	term := strings.ToLower(q.Text)
	if strings.Contains(strings.ToLower(d.Status), term) ||
		strings.Contains(strings.ToLower(d.CustomerName), term) ||
		strings.Contains(strings.ToLower(d.CustomerEmail), term) {
		return true
	}
	if q.Amount != nil && d.Amount.Equal(*q.Amount) {
		return true
	}
	return false
}

func (s *memDocStore) Save(_ context.Context, doc *search.Document) error {
	if s.failSave != nil {
		return s.failSave
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return nil
}

func (s *memDocStore) UpdateCustomerFields(_ context.Context, customerID primitive.ObjectID, fields search.CustomerFields, syncedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.docs {
		if d.CustomerID == customerID {
			d.CustomerName = fields.Name
			d.CustomerEmail = fields.Email
			d.CustomerImageURL = fields.ImageURL
			d.LastSyncedAt = syncedAt
			s.docs[id] = d
		}
	}
	return nil
}

func (s *memDocStore) MarkDeleted(_ context.Context, invoiceID primitive.ObjectID, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.docs {
		if d.InvoiceID == invoiceID && d.DeletedAt == nil {
			t := deletedAt
			d.DeletedAt = &t
			d.LastSyncedAt = deletedAt
			s.docs[id] = d
			return nil
		}
	}
	return nil
}

func (s *memDocStore) DeleteAll(_ context.Context) error {
	if s.failDeleteAll != nil {
		return s.failDeleteAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[primitive.ObjectID]search.Document)
	return nil
}

// all returns every stored document, tombstones included
func (s *memDocStore) all() []search.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]search.Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}

// live returns non-tombstoned documents
func (s *memDocStore) live() []search.Document {
	out := make([]search.Document, 0)
	for _, d := range s.all() {
		if d.DeletedAt == nil {
			out = append(out, d)
		}
	}
	return out
}

var _ search.DocumentRepository = (*memDocStore)(nil)

// memCustomerStore is a minimal in-memory partner.CustomerRepository
type memCustomerStore struct {
	mu        sync.Mutex
	customers map[primitive.ObjectID]partner.Customer
}

func newMemCustomerStore() *memCustomerStore {
	return &memCustomerStore{customers: make(map[primitive.ObjectID]partner.Customer)}
}

func (s *memCustomerStore) put(c *partner.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = *c
}

func (s *memCustomerStore) FindByID(_ context.Context, id primitive.ObjectID) (*partner.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok || c.DeletedAt != nil {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (s *memCustomerStore) FindByEmail(_ context.Context, email string) (*partner.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.Email == email && c.DeletedAt == nil {
			cc := c
			return &cc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *memCustomerStore) FindAll(_ context.Context, _ shared.Filter) ([]partner.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]partner.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memCustomerStore) Count(_ context.Context, _ shared.Filter) (int64, error) {
	all, _ := s.FindAll(context.Background(), shared.Filter{})
	return int64(len(all)), nil
}

func (s *memCustomerStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *memCustomerStore) Save(_ context.Context, customer *partner.Customer) error {
	s.put(customer)
	return nil
}

func (s *memCustomerStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return shared.ErrNotFound
	}
	now := time.Now()
	c.DeletedAt = &now
	s.customers[id] = c
	return nil
}

var _ partner.CustomerRepository = (*memCustomerStore)(nil)

// memInvoiceStore is a minimal in-memory billing.InvoiceRepository
type memInvoiceStore struct {
	mu       sync.Mutex
	invoices map[primitive.ObjectID]billing.Invoice
}

func newMemInvoiceStore() *memInvoiceStore {
	return &memInvoiceStore{invoices: make(map[primitive.ObjectID]billing.Invoice)}
}

func (s *memInvoiceStore) put(i *billing.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[i.ID] = *i
}

func (s *memInvoiceStore) FindByID(_ context.Context, id primitive.ObjectID) (*billing.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok || inv.DeletedAt != nil {
		return nil, shared.ErrNotFound
	}
	return &inv, nil
}

func (s *memInvoiceStore) FindAll(_ context.Context, _ shared.Filter) ([]billing.Invoice, error) {
	return s.FindAllActive(context.Background())
}

func (s *memInvoiceStore) FindAllActive(_ context.Context) ([]billing.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]billing.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		if inv.DeletedAt == nil {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *memInvoiceStore) FindByCustomer(_ context.Context, customerID primitive.ObjectID, _ shared.Filter) ([]billing.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]billing.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.CustomerID == customerID && inv.DeletedAt == nil {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *memInvoiceStore) Count(_ context.Context, _ shared.Filter) (int64, error) {
	all, _ := s.FindAllActive(context.Background())
	return int64(len(all)), nil
}

func (s *memInvoiceStore) CountByStatus(_ context.Context, status billing.InvoiceStatus) (int64, error) {
	var n int64
	all, _ := s.FindAllActive(context.Background())
	for _, inv := range all {
		if inv.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *memInvoiceStore) SumByStatus(_ context.Context) (*billing.StatusTotals, error) {
	totals := &billing.StatusTotals{}
	all, _ := s.FindAllActive(context.Background())
	for _, inv := range all {
		switch inv.Status {
		case billing.InvoiceStatusPaid:
			totals.Paid = totals.Paid.Add(inv.Amount)
		case billing.InvoiceStatusPending:
			totals.Pending = totals.Pending.Add(inv.Amount)
		}
	}
	return totals, nil
}

func (s *memInvoiceStore) Save(_ context.Context, invoice *billing.Invoice) error {
	s.put(invoice)
	return nil
}

func (s *memInvoiceStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return shared.ErrNotFound
	}
	now := time.Now()
	inv.DeletedAt = &now
	s.invoices[id] = inv
	return nil
}

var _ billing.InvoiceRepository = (*memInvoiceStore)(nil)
