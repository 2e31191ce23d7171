package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"scanbridge-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobStore is the get/set JSON store the pipeline persists through. The
// core never sees gorm; it hands over a value, we marshal and upsert it
// under a fixed key.
type BlobStore struct {
	db *gorm.DB
}

func NewBlobStore(db *gorm.DB) *BlobStore {
	return &BlobStore{db: db}
}

// Get unmarshals the blob stored under key into dst. Missing keys are not
// an error; dst is left untouched and ok=false is returned.
func (s *BlobStore) Get(key string, dst any) (bool, error) {
	var blob models.StoredBlob
	if err := s.db.Where("key = ?", key).First(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("blob load %q: %w", key, err)
	}
	if err := json.Unmarshal(blob.Value, dst); err != nil {
		return false, fmt.Errorf("blob decode %q: %w", key, err)
	}
	return true, nil
}

// Put marshals value and upserts it under key.
func (s *BlobStore) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("blob encode %q: %w", key, err)
	}
	blob := models.StoredBlob{Key: key, Value: datatypes.JSON(raw)}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("blob save %q: %w", key, err)
	}
	return nil
}

// HistoryStore persists the scan ledger snapshot under models.BlobKeyHistory.
type HistoryStore struct {
	blobs *BlobStore
}

func NewHistoryStore(blobs *BlobStore) *HistoryStore {
	return &HistoryStore{blobs: blobs}
}

func (s *HistoryStore) Load() ([]models.ScanRecord, error) {
	var records []models.ScanRecord
	if _, err := s.blobs.Get(models.BlobKeyHistory, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *HistoryStore) Save(records []models.ScanRecord) error {
	if records == nil {
		records = []models.ScanRecord{}
	}
	return s.blobs.Put(models.BlobKeyHistory, records)
}

// ConfigStore persists the webhook config under models.BlobKeyConfig.
// Loads are normalized so old or hand-edited blobs can't smuggle an invalid
// method or a negative pause into the pipeline.
type ConfigStore struct {
	blobs *BlobStore
}

func NewConfigStore(blobs *BlobStore) *ConfigStore {
	return &ConfigStore{blobs: blobs}
}

func (s *ConfigStore) Load() (models.WebhookConfig, error) {
	cfg := models.DefaultWebhookConfig()
	if _, err := s.blobs.Get(models.BlobKeyConfig, &cfg); err != nil {
		return models.DefaultWebhookConfig(), err
	}
	return cfg.Normalized(), nil
}

func (s *ConfigStore) Save(cfg models.WebhookConfig) error {
	return s.blobs.Put(models.BlobKeyConfig, cfg.Normalized())
}
