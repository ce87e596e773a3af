package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 10 * time.Second

// MongoStorage implements Storage on top of the "items" collection.
// Atomicity of AdjustUnitStock comes from a single filtered $inc update,
// so two concurrent sales of the last piece cannot both succeed.
type MongoStorage struct {
	col *mongo.Collection
}

// NewMongoStorage creates a MongoStorage over db's "items" collection.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{col: db.Collection("items")}
}

// EnsureIndexes creates the unique barcode index.
func (m *MongoStorage) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	_, err := m.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "barcode", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *MongoStorage) Set(item *Item) error {
	if item.ID == "" {
		return ErrEmptyID
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": item.ID}, item, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoStorage) Read(id string) (*Item, error) {
	return m.findOne(bson.M{"_id": id})
}

func (m *MongoStorage) ReadByBarcode(code string) (*Item, error) {
	return m.findOne(bson.M{"barcode": code})
}

func (m *MongoStorage) findOne(filter bson.M) (*Item, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	var it Item
	if err := m.col.FindOne(ctx, filter).Decode(&it); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// AdjustUnitStock applies delta with one FindOneAndUpdate whose filter
// requires the unit to exist with enough stock. A miss is then classified by
// re-reading the item: missing item, missing unit, or insufficient stock.
func (m *MongoStorage) AdjustUnitStock(itemID, unitLabel string, delta int) (*Item, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	filter := bson.M{
		"_id": itemID,
		"units": bson.M{"$elemMatch": bson.M{
			"unit":  unitLabel,
			"stock": bson.M{"$gte": -delta},
		}},
	}
	update := bson.M{"$inc": bson.M{"units.$.stock": delta}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var it Item
	err := m.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&it)
	if err == nil {
		return &it, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("adjusting stock: %w", err)
	}

	cur, err := m.Read(itemID)
	if err != nil {
		return nil, err
	}
	if _, ok := cur.UnitByLabel(unitLabel); !ok {
		return nil, ErrUnknownUnit
	}
	return nil, ErrInsufficientStock
}

func (m *MongoStorage) GetAll() ([]*Item, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var items []*Item
	for cur.Next(ctx) {
		var it Item
		if err := cur.Decode(&it); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, cur.Err()
}
