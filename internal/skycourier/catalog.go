package skycourier

import t "skycourier/internal/types"

// Catalog returns the selectable delivery stops. Coordinates are
// fixed; routes reference stops by id.
func Catalog() []t.Stop {
	return []t.Stop{
		{ID: "nyc", Name: "New York, NY, USA", ShortName: "New York", Latitude: 40.7128, Longitude: -74.0060},
		{ID: "london", Name: "London, UK", ShortName: "London", Latitude: 51.5074, Longitude: -0.1278},
		{ID: "tokyo", Name: "Tokyo, Japan", ShortName: "Tokyo", Latitude: 35.6762, Longitude: 139.6503},
		{ID: "dubai", Name: "Dubai, UAE", ShortName: "Dubai", Latitude: 25.2048, Longitude: 55.2708},
		{ID: "sydney", Name: "Sydney, Australia", ShortName: "Sydney", Latitude: -33.8688, Longitude: 151.2093},
		{ID: "saopaulo", Name: "São Paulo, Brazil", ShortName: "São Paulo", Latitude: -23.5505, Longitude: -46.6333},
		{ID: "paris", Name: "Paris, France", ShortName: "Paris", Latitude: 48.8566, Longitude: 2.3522},
		{ID: "moscow", Name: "Moscow, Russia", ShortName: "Moscow", Latitude: 55.7558, Longitude: 37.6173},
		{ID: "beijing", Name: "Beijing, China", ShortName: "Beijing", Latitude: 39.9042, Longitude: 116.4074},
		{ID: "mumbai", Name: "Mumbai, India", ShortName: "Mumbai", Latitude: 19.0760, Longitude: 72.8777},
		{ID: "cairo", Name: "Cairo, Egypt", ShortName: "Cairo", Latitude: 30.0444, Longitude: 31.2357},
		{ID: "capetown", Name: "Cape Town, South Africa", ShortName: "Cape Town", Latitude: -33.9249, Longitude: 18.4241},
	}
}
