package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ScanStatusSucceeded   = "succeeded"
	ScanStatusNoManifest  = "no_manifest"
	ScanStatusParseFailed = "parse_failed"
	ScanStatusFetchFailed = "fetch_failed"
)

// RepoScan records the terminal outcome of one processed scan message.
// Summary holds the reconcile counts as JSON for succeeded scans.
type RepoScan struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ScanID    uuid.UUID      `json:"scan_id" gorm:"type:uuid;not null;index"`
	ProjectID uint           `json:"project_id" gorm:"not null;index"`
	Status    string         `json:"status" gorm:"size:50;not null;index"`
	Detail    string         `json:"detail" gorm:"size:1000"`
	Summary   datatypes.JSON `json:"summary,omitempty"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
}
