package domain

import (
	"time"

	"gorm.io/gorm"
)

// Lead types classify the physical site of the requested installation.
const (
	TypeResidential = "Residential"
	TypeCommercial  = "Commercial"
	TypeIndustrial  = "Industrial"
)

// Lead represents a single lead-capture form submission.
// Rows are append-only: nothing in the application updates or deletes them.
type Lead struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	Email   string    `json:"email"`
	Phone   string    `gorm:"not null" json:"phone"`
	City    string    `json:"city"`
	Type    string    `gorm:"default:'Residential'" json:"type"`
	Message string    `gorm:"type:text" json:"message"`
	Date    time.Time `gorm:"column:date" json:"date"`
}

// TableName specifies the table name for Lead
func (Lead) TableName() string {
	return "inquiries"
}

// BeforeCreate hook
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.Date.IsZero() {
		l.Date = time.Now().UTC()
	}
	if l.Type == "" {
		l.Type = TypeResidential
	}
	return nil
}

// NormalizeType maps the submitted type onto the known set, defaulting
// to Residential for anything absent or unrecognized. Invalid values are
// never a rejection reason.
func NormalizeType(t string) string {
	switch t {
	case TypeResidential, TypeCommercial, TypeIndustrial:
		return t
	default:
		return TypeResidential
	}
}

// TypeEmoji returns the notification tag for a lead type.
func TypeEmoji(t string) string {
	switch t {
	case TypeCommercial:
		return "🏢"
	case TypeIndustrial:
		return "🏭"
	default:
		return "🏠"
	}
}

// LeadStats holds aggregate lead counts by type.
type LeadStats struct {
	Total       int64 `json:"total"`
	Residential int64 `json:"residential"`
	Commercial  int64 `json:"commercial"`
	Industrial  int64 `json:"industrial"`
}
