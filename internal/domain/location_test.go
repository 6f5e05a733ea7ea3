package domain

import "testing"

func TestBounds_Contains(t *testing.T) {
	t.Parallel()

	b := Bounds{MinLat: 37, MaxLat: 38, MinLng: -123, MaxLng: -121}
	if !b.Contains(Location{City: "Oakland", Latitude: 37.8, Longitude: -122.27}) {
		t.Fatalf("expected Oakland inside bounds")
	}
	if b.Contains(Location{City: "Denver", Latitude: 39.7, Longitude: -104.99}) {
		t.Fatalf("expected Denver outside bounds")
	}
}

func TestBounds_ContainsAcrossAntimeridian(t *testing.T) {
	t.Parallel()

	pacific := Bounds{MinLat: -50, MaxLat: 50, MinLng: 170, MaxLng: -170}
	for _, l := range []Location{
		{City: "Suva", Latitude: -18.14, Longitude: 178.44},
		{City: "Apia", Latitude: -13.83, Longitude: -171.76},
		{City: "edge", Latitude: 0, Longitude: 180},
	} {
		if !pacific.Contains(l) {
			t.Fatalf("expected %s inside %+v", l.City, pacific)
		}
	}
	if pacific.Contains(Location{City: "Honolulu", Latitude: 21.31, Longitude: -157.86}) {
		t.Fatalf("expected Honolulu outside %+v", pacific)
	}
	if pacific.Contains(Location{City: "Tokyo", Latitude: 35.68, Longitude: 139.69}) {
		t.Fatalf("expected Tokyo outside %+v", pacific)
	}
}
