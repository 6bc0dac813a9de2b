package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

const (
	unitsCollection       = "unit_sets"
	adjustmentsCollection = "stock_adjustments"
)

// UnitStore persists user-managed unit sets.
type UnitStore interface {
	LoadUnits(ctx context.Context, owner string) ([]string, error)
	SaveUnits(ctx context.Context, owner string, units []string) error
}

// Journal records confirmed stock adjustments.
type Journal interface {
	AppendAdjustments(ctx context.Context, entries []models.AdjustmentEntry) error
	ListAdjustments(ctx context.Context, inventoryID string, limit int64) ([]models.AdjustmentEntry, error)
}

// MongoDBRepository implements UnitStore and Journal for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// LoadUnits returns the stored unit set of owner, or nil when none was saved yet.
func (r *MongoDBRepository) LoadUnits(ctx context.Context, owner string) ([]string, error) {
	var doc models.UnitSetDocument
	err := r.collection(unitsCollection).FindOne(ctx, bson.M{"owner": owner}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load units for %s: %w", owner, err)
	}
	return doc.Units, nil
}

// SaveUnits replaces the stored unit set of owner.
func (r *MongoDBRepository) SaveUnits(ctx context.Context, owner string, units []string) error {
	if units == nil {
		units = []string{}
	}
	doc := models.UnitSetDocument{Owner: owner, Units: units, UpdatedAt: time.Now().UTC()}

	_, err := r.collection(unitsCollection).ReplaceOne(ctx, bson.M{"owner": owner}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save units for %s: %w", owner, err)
	}
	return nil
}

// AppendAdjustments inserts journal entries in one round trip.
func (r *MongoDBRepository) AppendAdjustments(ctx context.Context, entries []models.AdjustmentEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, entry)
	}

	if _, err := r.collection(adjustmentsCollection).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert stock adjustments: %w", err)
	}
	return nil
}

// ListAdjustments returns the latest entries for one record, newest first.
func (r *MongoDBRepository) ListAdjustments(ctx context.Context, inventoryID string, limit int64) ([]models.AdjustmentEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection(adjustmentsCollection).Find(ctx, bson.M{"inventory_id": inventoryID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock adjustments: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.AdjustmentEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode stock adjustments: %w", err)
	}
	return entries, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
