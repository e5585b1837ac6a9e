// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/devinnolab/proplanner/internal/app/store/audit"
	projectstore "github.com/devinnolab/proplanner/internal/app/store/projects"
	"github.com/devinnolab/proplanner/internal/app/store/requirements"
	userstore "github.com/devinnolab/proplanner/internal/app/store/users"
	"github.com/devinnolab/proplanner/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection for the app.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, timeouts.Ping())
	defer cancelPing()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	type indexed interface {
		EnsureIndexes(ctx context.Context) error
	}
	stores := map[string]indexed{
		"users":              userstore.New(db),
		"clientRequirements": requirements.New(db),
		"projects":           projectstore.New(db),
		"audit_events":       audit.New(db),
	}
	for name, s := range stores {
		if err := s.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", name, err)
		}
	}

	logger.Info("database indexes ensured")
	return nil
}
