package persistence

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/finboard/backend/internal/domain/partner"
	"github.com/finboard/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCustomerRepository implements partner.CustomerRepository
type MongoCustomerRepository struct {
	coll *mongo.Collection
}

// NewMongoCustomerRepository creates a customer repository over the database
func NewMongoCustomerRepository(db *Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{coll: db.Collection(partner.Customer{}.CollectionName())}
}

// notDeleted excludes soft-deleted records
func notDeleted() bson.M {
	return bson.M{"deleted_at": bson.M{"$exists": false}}
}

// containsInsensitive builds a literal, case-insensitive substring match
func containsInsensitive(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

func (r *MongoCustomerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*partner.Customer, error) {
	filter := notDeleted()
	filter["_id"] = id

	var customer partner.Customer
	err := r.coll.FindOne(ctx, filter).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *MongoCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	filter := notDeleted()
	filter["email"] = email

	var customer partner.Customer
	err := r.coll.FindOne(ctx, filter).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *MongoCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	query := r.buildQuery(filter)

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if !filter.Unpaged() {
		opts.SetSkip(filter.Skip()).SetLimit(int64(filter.PageSize))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := make([]partner.Customer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *MongoCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.coll.CountDocuments(ctx, r.buildQuery(filter))
}

func (r *MongoCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	filter := notDeleted()
	filter["email"] = email
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": customer.ID}, customer, opts)
	return err
}

func (r *MongoCustomerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *MongoCustomerRepository) buildQuery(filter shared.Filter) bson.M {
	query := notDeleted()
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"name": containsInsensitive(filter.Search)},
			bson.M{"email": containsInsensitive(filter.Search)},
		}
	}
	return query
}

var _ partner.CustomerRepository = (*MongoCustomerRepository)(nil)
