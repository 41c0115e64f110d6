package repository

import (
	"context"
	"fmt"
	"time"

	"b2b-catalog/config"
	"b2b-catalog/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes and returns a GORM database instance.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.StateRecord{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate database: %w", err)
	}
	return db, nil
}

// InitMongo connects to MongoDB and verifies the connection.
func InitMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// OpenStateStore builds the state store selected by storage.driver. The returned
// close function releases the underlying connection.
func OpenStateStore(ctx context.Context, cfg *config.Config) (IStateStore, func() error, error) {
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := InitDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		return NewGormStateStore(db), sqlDB.Close, nil
	case "mongodb":
		client, err := InitMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		return NewMongoStateStore(coll), func() error { return client.Disconnect(context.Background()) }, nil
	default:
		return NewMemoryStateStore(), func() error { return nil }, nil
	}
}
