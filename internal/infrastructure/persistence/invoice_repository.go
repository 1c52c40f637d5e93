package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/finboard/backend/internal/domain/billing"
	"github.com/finboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInvoiceRepository implements billing.InvoiceRepository
type MongoInvoiceRepository struct {
	coll *mongo.Collection
}

// NewMongoInvoiceRepository creates an invoice repository over the database
func NewMongoInvoiceRepository(db *Database) *MongoInvoiceRepository {
	return &MongoInvoiceRepository{coll: db.Collection(billing.Invoice{}.CollectionName())}
}

func (r *MongoInvoiceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*billing.Invoice, error) {
	filter := notDeleted()
	filter["_id"] = id

	var invoice billing.Invoice
	err := r.coll.FindOne(ctx, filter).Decode(&invoice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *MongoInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	query := r.buildQuery(filter)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if !filter.Unpaged() {
		opts.SetSkip(filter.Skip()).SetLimit(int64(filter.PageSize))
	}
	return r.findMany(ctx, query, opts)
}

// FindAllActive returns every non-deleted invoice without pagination.
// The rebuild coordinator iterates this snapshot to repopulate the index.
func (r *MongoInvoiceRepository) FindAllActive(ctx context.Context) ([]billing.Invoice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.findMany(ctx, notDeleted(), opts)
}

func (r *MongoInvoiceRepository) FindByCustomer(ctx context.Context, customerID primitive.ObjectID, filter shared.Filter) ([]billing.Invoice, error) {
	query := r.buildQuery(filter)
	query["customer_id"] = customerID

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if !filter.Unpaged() {
		opts.SetSkip(filter.Skip()).SetLimit(int64(filter.PageSize))
	}
	return r.findMany(ctx, query, opts)
}

func (r *MongoInvoiceRepository) findMany(ctx context.Context, query bson.M, opts *options.FindOptions) ([]billing.Invoice, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	invoices := make([]billing.Invoice, 0)
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *MongoInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.coll.CountDocuments(ctx, r.buildQuery(filter))
}

func (r *MongoInvoiceRepository) CountByStatus(ctx context.Context, status billing.InvoiceStatus) (int64, error) {
	query := notDeleted()
	query["status"] = status
	return r.coll.CountDocuments(ctx, query)
}

// SumByStatus aggregates amounts of live invoices grouped by status
func (r *MongoInvoiceRepository) SumByStatus(ctx context.Context) (*billing.StatusTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: notDeleted()}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string          `bson:"_id"`
		Total  decimal.Decimal `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	totals := &billing.StatusTotals{Paid: decimal.Zero, Pending: decimal.Zero}
	for _, row := range rows {
		switch billing.InvoiceStatus(row.Status) {
		case billing.InvoiceStatusPaid:
			totals.Paid = row.Total
		case billing.InvoiceStatusPending:
			totals.Pending = row.Total
		}
	}
	return totals, nil
}

func (r *MongoInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": invoice.ID}, invoice, opts)
	return err
}

func (r *MongoInvoiceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := notDeleted()
	filter["_id"] = id

	now := time.Now()
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"deleted_at": now, "updated_at": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *MongoInvoiceRepository) buildQuery(filter shared.Filter) bson.M {
	query := notDeleted()
	if status, ok := filter.Filters["status"]; ok {
		query["status"] = status
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query["customer_id"] = customerID
	}
	return query
}

var _ billing.InvoiceRepository = (*MongoInvoiceRepository)(nil)
