package model

import (
	"math"
	"time"
)

// Property is a listing owned by a user.  Rating is derived state: it is
// the mean of all non-null comment ratings for the property, maintained by
// the comment write path and never written directly by a client.  It is
// stored as an explicit 0 (not NULL) when no rated comments exist.
type Property struct {
	ID           uint64    // properties.id
	OwnerID      uint64    // properties.owner_id
	Title        string    // properties.title
	Address      string    // properties.address
	City         string    // properties.city
	Province     string    // properties.province
	PostalCode   string    // properties.postal_code
	Price        int64     // properties.price (per night)
	PropertyType string    // properties.property_type
	NumBedrooms  int       // properties.num_bedrooms
	Sqft         int       // properties.sqft
	Amenities    string    // properties.amenities (comma separated)
	Rating       float64   // properties.rating, derived, one decimal
	CreatedAt    time.Time // properties.created_at
	UpdatedAt    time.Time // properties.updated_at
}

// MeanRating returns the arithmetic mean of ratings rounded to one decimal
// place, or 0 when ratings is empty.  This is the reference definition of
// the aggregate; the SQL recompute in the comment repository must agree
// with it.
func MeanRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}
