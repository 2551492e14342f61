package model

import "time"

const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

var (
	Categories = []string{"Hardware", "Software", "Network", "Security", "Other"}
	Priorities = []string{"Low", "Medium", "High", "Critical"}
	Statuses   = []string{StatusNotStarted, StatusInProgress, StatusResolved, StatusClosed}
)

// Issue is the central mutable record. Company, Department and Application
// are free-text references cross-checked against the lookup tables but not
// foreign-key enforced. CreatedBy is set once at creation and never changed.
type Issue struct {
	ID          uint    `gorm:"primarykey"`
	Title       string  `gorm:"size:256;not null"`
	Description string  `gorm:"type:text;not null"`
	Company     *string `gorm:"size:128"`
	Department  *string `gorm:"size:128"`
	Application *string `gorm:"size:128"`
	Category    string  `gorm:"size:32;not null"`
	Priority    string  `gorm:"size:16;not null"`
	Status      string  `gorm:"size:16;not null"`
	AssignedTo  *string `gorm:"size:128"`
	CreatedBy   string  `gorm:"size:32;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func IsValidCategory(category string) bool { return contains(Categories, category) }
func IsValidPriority(priority string) bool { return contains(Priorities, priority) }
func IsValidStatus(status string) bool     { return contains(Statuses, status) }
