package persistence

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/eventhub-dev/eventhub/internal/config"
)

// Mongo wraps the MongoDB client and the EventHub database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
	logger *zap.Logger
}

// NewMongo builds a client for the configured URI. The driver connects in
// the background; Ping reports reachability.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	return &Mongo{Client: client, DB: client.Database(cfg.Database), logger: logger}, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.Client != nil {
		_ = m.Client.Disconnect(ctx)
	}
}

// Ping verifies MongoDB connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return errors.New("mongodb client not configured")
	}
	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}
	m.logger.Info("connected to mongodb")
	return nil
}
