// Package mongo connects to the MongoDB user store.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// DefaultDatabase is used when MONGO_DB is unset.
const DefaultDatabase = "paisable"

const connectTimeout = 10 * time.Second

// Config holds the MongoDB connection settings.
type Config struct {
	URI      string
	Database string
}

// LoadConfig reads the MongoDB settings from the environment.
func LoadConfig() Config {
	cfg := Config{
		URI:      os.Getenv("MONGO_URI"),
		Database: os.Getenv("MONGO_DB"),
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	return cfg
}

// Enabled reports whether a Mongo URI was configured.
func (c Config) Enabled() bool {
	return c.URI != ""
}

// NewMongoClient connects to MongoDB and verifies the connection with a ping.
func NewMongoClient(ctx context.Context, cfg Config) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		slog.Error("MongoDB connection failed", "error", err)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("MongoDB connection successful", "database", cfg.Database)
	return client, nil
}

// PingFunc returns a readiness check for client.
func PingFunc(client *mongo.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}
