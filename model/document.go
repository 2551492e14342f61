package model

import "time"

// Document is attachment metadata for an issue. Filename is the
// system-generated name of the stored bytes on disk; OriginalFilename is the
// name the uploader supplied. Rows are removed together with their issue.
type Document struct {
	ID               uint   `gorm:"primarykey"`
	IssueID          uint   `gorm:"index;not null"`
	Filename         string `gorm:"size:64;not null"`
	OriginalFilename string `gorm:"size:256;not null"`
	FileSize         int64  `gorm:"not null"`
	UploadedBy       string `gorm:"size:32;not null"`
	UploadedAt       time.Time
}
