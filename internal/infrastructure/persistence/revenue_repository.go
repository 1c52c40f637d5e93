package persistence

import (
	"context"
	"errors"

	"github.com/finboard/backend/internal/domain/reporting"
	"github.com/finboard/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRevenueRepository implements reporting.RevenueRepository
type MongoRevenueRepository struct {
	coll *mongo.Collection
}

// NewMongoRevenueRepository creates a revenue repository over the database
func NewMongoRevenueRepository(db *Database) *MongoRevenueRepository {
	return &MongoRevenueRepository{coll: db.Collection(reporting.Revenue{}.CollectionName())}
}

func (r *MongoRevenueRepository) FindAll(ctx context.Context) ([]reporting.Revenue, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	revenues := make([]reporting.Revenue, 0)
	if err := cursor.All(ctx, &revenues); err != nil {
		return nil, err
	}
	// Month names have no natural store ordering
	reporting.SortByMonth(revenues)
	return revenues, nil
}

func (r *MongoRevenueRepository) FindByMonth(ctx context.Context, month string) (*reporting.Revenue, error) {
	var revenue reporting.Revenue
	err := r.coll.FindOne(ctx, bson.M{"month": month}).Decode(&revenue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &revenue, nil
}

func (r *MongoRevenueRepository) Save(ctx context.Context, revenue *reporting.Revenue) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"month": revenue.Month}, revenue, opts)
	return err
}

var _ reporting.RevenueRepository = (*MongoRevenueRepository)(nil)
