package model

import "time"

// AssignmentMapping links one external platform assignment to the
// internal task it has been resolved into, along with the external
// platform's last modified time as of the last successful sync.
// At most one mapping exists per (source_account_id, external_id).
type AssignmentMapping struct {
	ID              string `gorm:"primary_key:true" json:"id"`
	SourceAccountID string `gorm:"not null;unique_index:uidx_source_account_external" json:"source_account_id"`
	ExternalID      string `gorm:"not null;unique_index:uidx_source_account_external" json:"external_id"`
	InternalTaskID  string `gorm:"not null" json:"internal_task_id"`
	// Milliseconds since epoch, as reported by the external platform.
	LastExternalModificationTimestamp int64     `gorm:"not null" json:"last_external_modification_timestamp"`
	CreatedAt                         time.Time `json:"created_at"`
	UpdatedAt                         time.Time `json:"updated_at"`
}
