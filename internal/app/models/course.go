package models

import "time"

// Course is a catalog entry. Category, degree and duration are derived from the name
// when the course is created and stored as-is afterwards.
type Course struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Slug          string    `json:"slug" db:"slug"`
	Category      string    `json:"category" db:"category"`
	Degree        string    `json:"degree" db:"degree"`
	DurationYears float64   `json:"durationYears" db:"duration_years"`
	Description   *string   `json:"description,omitempty" db:"description"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
