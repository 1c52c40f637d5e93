package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/finboard/backend/internal/domain/identity"
	"github.com/finboard/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements identity.UserRepository
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a user repository over the database
func NewMongoUserRepository(db *Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(identity.User{}.CollectionName())}
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*identity.User, error) {
	filter := notDeleted()
	filter["_id"] = id

	var user identity.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	filter := notDeleted()
	filter["email"] = email

	var user identity.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
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

	users := make([]identity.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.coll.CountDocuments(ctx, r.buildQuery(filter))
}

func (r *MongoUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	filter := notDeleted()
	filter["email"] = email
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoUserRepository) Save(ctx context.Context, user *identity.User) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, opts)
	return err
}

func (r *MongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *MongoUserRepository) buildQuery(filter shared.Filter) bson.M {
	query := notDeleted()
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"name": containsInsensitive(filter.Search)},
			bson.M{"email": containsInsensitive(filter.Search)},
		}
	}
	return query
}

var _ identity.UserRepository = (*MongoUserRepository)(nil)
