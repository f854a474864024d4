package models

import "time"

// Ref is the id and name of a parent record embedded in list results
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// State defines the state model based on the 'states' table
type State struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// City defines the city model based on the 'cities' table
type City struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Slug          string    `json:"slug" db:"slug"`
	StateID       int64     `json:"stateId" db:"state_id"`
	ImageURL      *string   `json:"imageUrl,omitempty" db:"image_url"`
	ImagePublicID *string   `json:"imagePublicId,omitempty" db:"image_public_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	State         *Ref      `json:"state,omitempty"` // Relation, no db tag
}

// University defines the university model based on the 'universities' table
type University struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Slug          string    `json:"slug" db:"slug"`
	CityID        int64     `json:"cityId" db:"city_id"`
	ImageURL      *string   `json:"imageUrl,omitempty" db:"image_url"`
	ImagePublicID *string   `json:"imagePublicId,omitempty" db:"image_public_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	City          *Ref      `json:"city,omitempty"`  // Relation, no db tag
	State         *Ref      `json:"state,omitempty"` // Relation, no db tag
}
