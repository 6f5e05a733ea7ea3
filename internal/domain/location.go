package domain

import "time"

type Location struct {
	City      string
	Latitude  float64
	Longitude float64
}

// LocationRecord is a lift pinned to the city where it was performed.
type LocationRecord struct {
	ID         LocationRecordID
	Owner      SubjectID
	LifterName string
	Location   Location
	Exercise   string
	Lift
	CreatedAt time.Time
}

// Bounds is a latitude/longitude box. MinLng greater than MaxLng means the box
// crosses the antimeridian.
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func (b Bounds) Contains(l Location) bool {
	if l.Latitude < b.MinLat || l.Latitude > b.MaxLat {
		return false
	}
	if b.MinLng <= b.MaxLng {
		return l.Longitude >= b.MinLng && l.Longitude <= b.MaxLng
	}
	return l.Longitude >= b.MinLng || l.Longitude <= b.MaxLng
}
