package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleHOD    = "hod"
	RoleViewer = "viewer"
)

var Roles = []string{RoleAdmin, RoleHOD, RoleViewer}

// User stores an account. Password holds the bcrypt hash, never plaintext.
// Company and Department are required for hod and viewer roles and scope
// which issues the account may see.
type User struct {
	ID         uint    `gorm:"primarykey"`
	Username   string  `gorm:"uniqueIndex;size:32;not null"`
	Password   string  `gorm:"size:64;not null"`
	Role       string  `gorm:"size:16;not null"`
	Company    *string `gorm:"size:128"`
	Department *string `gorm:"size:128"`
	CreatedAt  time.Time
}

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
