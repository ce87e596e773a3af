package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Settings holds the process configuration, read from the environment.
// An empty MongoURI selects the in-memory storage backends.
type Settings struct {
	Addr          string
	MongoURI      string
	DBName        string
	SeedAdminUser string
	SeedAdminPass string
}

// Load reads a .env file if present, then the environment, applying
// local-development defaults.
func Load() Settings {
	// missing .env is fine, env vars may come from the host
	_ = godotenv.Load()

	return Settings{
		Addr:          getenv("ADDR", ":8081"),
		MongoURI:      os.Getenv("MONGO_URI"),
		DBName:        getenv("DB_NAME", "pos"),
		SeedAdminUser: os.Getenv("SEED_ADMIN_USER"),
		SeedAdminPass: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client.Database(dbName), nil
}
