package models

import (
	"time"

	"gorm.io/datatypes"
)

// Blob store keys. They match the storage keys the mobile app used, so a
// dump of one store is loadable by the other.
const (
	BlobKeyHistory = "scan.history"
	BlobKeyConfig  = "webhook.config"
)

// StoredBlob is one row of the key/value blob store the pipeline persists
// through. Values are opaque JSON documents (the scan history array and the
// webhook config object).
type StoredBlob struct {
	Key       string         `json:"key" gorm:"primaryKey;size:64"`
	Value     datatypes.JSON `json:"value" gorm:"type:jsonb"`
	UpdatedAt time.Time      `json:"updated_at"`
}
