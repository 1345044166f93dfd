package models

import "time"

// Category is the staffing category a participant belongs to.
// The program recognizes exactly two.
type Category string

const (
	CategoryClinical    Category = "Clinical"
	CategoryNonClinical Category = "Non-Clinical"
)

func (c Category) Valid() bool {
	return c == CategoryClinical || c == CategoryNonClinical
}

type Participant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	NationalID  string    `gorm:"size:20;index" json:"national_id,omitempty"`
	JobPosition string    `gorm:"size:255" json:"job_position,omitempty"`
	Category    Category  `gorm:"size:20" json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
