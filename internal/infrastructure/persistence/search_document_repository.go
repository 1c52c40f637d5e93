package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/finboard/backend/internal/domain/search"
	"github.com/finboard/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDocumentRepository implements search.DocumentRepository over the
// invoice_search collection.
type MongoDocumentRepository struct {
	coll *mongo.Collection
}

// NewMongoDocumentRepository creates a search document repository
func NewMongoDocumentRepository(db *Database) *MongoDocumentRepository {
	return &MongoDocumentRepository{coll: db.Collection(search.Document{}.CollectionName())}
}

func (r *MongoDocumentRepository) FindActiveByInvoiceID(ctx context.Context, invoiceID primitive.ObjectID) (*search.Document, error) {
	filter := notDeleted()
	filter["invoice_id"] = invoiceID
	return r.findOne(ctx, filter)
}

func (r *MongoDocumentRepository) FindByInvoiceID(ctx context.Context, invoiceID primitive.ObjectID) (*search.Document, error) {
	return r.findOne(ctx, bson.M{"invoice_id": invoiceID})
}

func (r *MongoDocumentRepository) findOne(ctx context.Context, filter bson.M) (*search.Document, error) {
	var doc search.Document
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindPage executes the query for the requested window and counts the full
// result set with the identical predicate, so the reported total always
// agrees with what an unpaged run would return.
func (r *MongoDocumentRepository) FindPage(ctx context.Context, query search.Query, page search.PageRequest) ([]search.Document, int64, error) {
	filter := buildSearchFilter(query)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	if !page.Unpaged() {
		opts.SetSkip(page.Skip()).SetLimit(int64(page.Size))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	docs := make([]search.Document, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// buildSearchFilter translates the structured query into a mongo filter.
// Every variant excludes tombstones. Text terms are quoted so regex
// metacharacters in user input match literally.
func buildSearchFilter(query search.Query) bson.M {
	filter := notDeleted()

	switch {
	case query.ID != nil:
		filter["$or"] = bson.A{
			bson.M{"invoice_id": *query.ID},
			bson.M{"customer_id": *query.ID},
		}
	case query.Text != "":
		or := bson.A{
			bson.M{"status": containsInsensitive(query.Text)},
			bson.M{"customer_name": containsInsensitive(query.Text)},
			bson.M{"customer_email": containsInsensitive(query.Text)},
		}
		if query.Amount != nil {
			or = append(or, bson.M{"amount": *query.Amount})
		}
		filter["$or"] = or
	}
	return filter
}

func (r *MongoDocumentRepository) Save(ctx context.Context, doc *search.Document) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

// UpdateCustomerFields fans a customer write out to every document carrying
// the customer, tombstoned documents included. Invoice-owned fields are not
// touched.
func (r *MongoDocumentRepository) UpdateCustomerFields(ctx context.Context, customerID primitive.ObjectID, fields search.CustomerFields, syncedAt time.Time) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"customer_id": customerID},
		bson.M{"$set": bson.M{
			"customer_name":      fields.Name,
			"customer_email":     fields.Email,
			"customer_image_url": fields.ImageURL,
			"last_synced_at":     syncedAt,
		}},
	)
	return err
}

// MarkDeleted tombstones the live document for the invoice. A missing or
// already tombstoned document is a silent no-op.
func (r *MongoDocumentRepository) MarkDeleted(ctx context.Context, invoiceID primitive.ObjectID, deletedAt time.Time) error {
	filter := notDeleted()
	filter["invoice_id"] = invoiceID

	_, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"deleted_at":     deletedAt,
			"last_synced_at": deletedAt,
		},
	})
	return err
}

// DeleteAll physically removes every document, tombstones included
func (r *MongoDocumentRepository) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}

var _ search.DocumentRepository = (*MongoDocumentRepository)(nil)
