package checkout

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 10 * time.Second

// MongoStorage implements the transaction ledger over the "transactions"
// collection. Only inserts and reads: committed transactions are never
// updated or deleted.
type MongoStorage struct {
	col *mongo.Collection
}

// NewMongoStorage creates a MongoStorage over db's "transactions" collection.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{col: db.Collection("transactions")}
}

// EnsureIndexes creates the createdAt index used by audit listings.
func (m *MongoStorage) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	_, err := m.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

func (m *MongoStorage) Append(t *Transaction) error {
	if t.ID == "" {
		return ErrEmptyID
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	_, err := m.col.InsertOne(ctx, t)
	return err
}

func (m *MongoStorage) Read(id string) (*Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	var t Transaction
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (m *MongoStorage) GetAll() ([]*Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var txs []*Transaction
	for cur.Next(ctx) {
		var t Transaction
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		txs = append(txs, &t)
	}
	return txs, cur.Err()
}
