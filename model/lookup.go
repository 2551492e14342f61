package model

import "time"

// Company, Department and Application are named lookup entities feeding
// selection lists. Issues and users reference them by name only.

type Company struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;size:128;not null"`
	CreatedAt time.Time
}

type Department struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;size:128;not null"`
	CreatedAt time.Time
}

type Application struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;size:128;not null"`
	CreatedAt time.Time
}
