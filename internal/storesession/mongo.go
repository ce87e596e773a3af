package storesession

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 10 * time.Second

// lockID is the fixed key of the single "store is open" lock document.
// Opening inserts it; a duplicate-key error means another session is active.
// This keeps the at-most-one-open invariant in the database instead of in a
// read-then-write every caller must remember.
const lockID = "active"

// MongoStorage implements Storage over the "storeSessions" collection plus a
// one-document "storeSessionLock" collection.
type MongoStorage struct {
	sessions *mongo.Collection
	lock     *mongo.Collection
}

// NewMongoStorage creates a MongoStorage over db.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{
		sessions: db.Collection("storeSessions"),
		lock:     db.Collection("storeSessionLock"),
	}
}

func (m *MongoStorage) Open(s *StoreSession) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	_, err := m.lock.InsertOne(ctx, bson.M{"_id": lockID, "sessionId": s.ID})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyOpen
		}
		return err
	}

	if _, err := m.sessions.InsertOne(ctx, s); err != nil {
		// release the lock so a failed insert does not wedge the store shut
		m.lock.DeleteOne(ctx, bson.M{"_id": lockID})
		return err
	}
	return nil
}

func (m *MongoStorage) Close(id string, closedAt time.Time, cashEnd *int) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	set := bson.M{"closedAt": closedAt}
	if cashEnd != nil {
		set["cashEnd"] = *cashEnd
	}
	res, err := m.sessions.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	_, err = m.lock.DeleteOne(ctx, bson.M{"_id": lockID, "sessionId": id})
	return err
}

func (m *MongoStorage) Active() (*StoreSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	var lock struct {
		SessionID string `bson:"sessionId"`
	}
	if err := m.lock.FindOne(ctx, bson.M{"_id": lockID}).Decode(&lock); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotOpen
		}
		return nil, err
	}

	var s StoreSession
	if err := m.sessions.FindOne(ctx, bson.M{"_id": lock.SessionID}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotOpen
		}
		return nil, err
	}
	return &s, nil
}

func (m *MongoStorage) GetAll() ([]*StoreSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	cur, err := m.sessions.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "openedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var sessions []*StoreSession
	for cur.Next(ctx) {
		var s StoreSession
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		sessions = append(sessions, &s)
	}
	return sessions, cur.Err()
}
