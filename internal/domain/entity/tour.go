package entity

import "time"

// Tour is a bookable tour package. StartLat/StartLng feed the
// companion map view on the front end.
type Tour struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	DurationDays   int       `json:"duration_days"`
	MaxGroupSize   int       `json:"max_group_size"`
	Difficulty     string    `json:"difficulty"`
	Price          float64   `json:"price"`
	Summary        string    `json:"summary"`
	Description    string    `json:"description"`
	RatingsAverage float64   `json:"ratings_average"`
	RatingsCount   int       `json:"ratings_count"`
	ImageCoverURL  string    `json:"image_cover_url"`
	StartLat       float64   `json:"start_lat"`
	StartLng       float64   `json:"start_lng"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
