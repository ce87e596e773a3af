package operator

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 10 * time.Second

// MongoStorage implements Storage on top of the "operators" collection.
type MongoStorage struct {
	col *mongo.Collection
}

// NewMongoStorage creates a MongoStorage over db's "operators" collection.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{col: db.Collection("operators")}
}

// EnsureIndexes creates the unique username index.
func (m *MongoStorage) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	_, err := m.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *MongoStorage) Set(op *Operator) error {
	if op.ID == "" {
		return ErrEmptyID
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": op.ID}, op, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoStorage) Read(id string) (*Operator, error) {
	return m.findOne(bson.M{"_id": id})
}

func (m *MongoStorage) ReadByUsername(username string) (*Operator, error) {
	return m.findOne(bson.M{"username": username})
}

func (m *MongoStorage) findOne(filter bson.M) (*Operator, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	var op Operator
	if err := m.col.FindOne(ctx, filter).Decode(&op); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

func (m *MongoStorage) GetAll() ([]*Operator, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var ops []*Operator
	for cur.Next(ctx) {
		var op Operator
		if err := cur.Decode(&op); err != nil {
			return nil, err
		}
		ops = append(ops, &op)
	}
	return ops, cur.Err()
}
