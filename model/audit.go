package model

import "time"

const (
	AuditActionCreated = "Created"
	AuditActionUpdated = "Updated"
	AuditActionDeleted = "Deleted"

	// AuditFieldIssue marks whole-record actions (create, delete).
	AuditFieldIssue = "Issue"
)

// AuditEntry is an immutable record of one field-level or whole-record
// change to an issue. Rows are only inserted, never updated or deleted;
// they outlive the issue they describe.
type AuditEntry struct {
	ID        uint      `gorm:"primarykey"`
	Timestamp time.Time `gorm:"index;not null"`
	Username  string    `gorm:"size:32;not null"` // actor, snapshot at write time
	IssueID   *uint     `gorm:"index"`
	Action    string    `gorm:"size:16;not null"`
	FieldName *string   `gorm:"size:64"`
	OldValue  *string   `gorm:"type:text"`
	NewValue  *string   `gorm:"type:text"`
}

func (AuditEntry) TableName() string {
	return "audit_log"
}
