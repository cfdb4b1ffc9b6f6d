package models

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusCompleted  Status = "Completed"
	StatusInProgress Status = "InProgress"
	StatusOverdue    Status = "Overdue"
)

// ParseStatus maps a raw filter value to a known status, case-insensitively.
// The second result is false for values that are not a status.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range []Status{StatusPending, StatusCompleted, StatusInProgress, StatusOverdue} {
		if strings.EqualFold(string(s), raw) {
			return s, true
		}
	}
	return "", false
}

type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null" validate:"required,max=100"`
	Description string `gorm:"size:500" validate:"max=500"`

	AssignedDate   time.Time
	SubmissionDate time.Time
	Status         Status `gorm:"type:varchar(20);not null;default:Pending"`

	AssignedPersonID uint `gorm:"not null;index"`
	AssignedPerson   *User

	CategoryName string    `gorm:"size:100;not null;index"`
	Category     *Category `gorm:"foreignKey:CategoryName;references:Name"`

	// bumped on every update; stale writers lose
	Version uint `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
