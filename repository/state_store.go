package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"b2b-catalog/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Keys of the persisted records.
const (
	KeyCatalog   = "catalog"
	KeyOrders    = "orders"
	KeyUsers     = "users"
	KeyCheckouts = "checkouts"
)

// IStateStore is the persistence port: whole records are read at startup and
// rewritten after every mutation, each serialized as JSON.
type IStateStore interface {
	// Load decodes the record stored under key into dst. It reports false when
	// the key has never been saved.
	Load(ctx context.Context, key string, dst interface{}) (bool, error)
	Save(ctx context.Context, key string, value interface{}) error
}

// MemoryStateStore keeps records in process memory. Used by tests and the
// default development profile.
type MemoryStateStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStateStore creates an empty in-memory store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{records: make(map[string][]byte)}
}

func (s *MemoryStateStore) Load(_ context.Context, key string, dst interface{}) (bool, error) {
	s.mu.RLock()
	raw, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode record %q: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStateStore) Save(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", key, err)
	}
	s.mu.Lock()
	s.records[key] = raw
	s.mu.Unlock()
	return nil
}

// GormStateStore persists records in the state_records table.
type GormStateStore struct {
	DB *gorm.DB
}

// NewGormStateStore creates a GORM-backed store. The table must already be migrated (see InitDB).
func NewGormStateStore(db *gorm.DB) *GormStateStore {
	return &GormStateStore{DB: db}
}

func (s *GormStateStore) Load(ctx context.Context, key string, dst interface{}) (bool, error) {
	var rec models.StateRecord
	err := s.DB.WithContext(ctx).Where("record_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load record %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(rec.Value), dst); err != nil {
		return false, fmt.Errorf("failed to decode record %q: %w", key, err)
	}
	return true, nil
}

func (s *GormStateStore) Save(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", key, err)
	}
	rec := models.StateRecord{Key: key, Value: string(raw)}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"record_value", "updated_at"}),
		}).Create(&rec).Error
	})
}

// mongoRecord is the document layout of MongoStateStore.
type mongoRecord struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// MongoStateStore persists records as documents keyed by _id.
type MongoStateStore struct {
	coll *mongo.Collection
}

// NewMongoStateStore creates a store over an existing collection.
func NewMongoStateStore(coll *mongo.Collection) *MongoStateStore {
	return &MongoStateStore{coll: coll}
}

func (s *MongoStateStore) Load(ctx context.Context, key string, dst interface{}) (bool, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load record %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(doc.Value), dst); err != nil {
		return false, fmt.Errorf("failed to decode record %q: %w", key, err)
	}
	return true, nil
}

func (s *MongoStateStore) Save(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", key, err)
	}
	_, err = s.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoRecord{Key: key, Value: string(raw)},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save record %q: %w", key, err)
	}
	return nil
}
