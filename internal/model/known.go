package model

// KnownCity is an entry of the built-in city list
type KnownCity struct {
	Label       string
	Name        string
	Country     string
	CountryCode string
	Lat         float64
	Lon         float64
}

// KnownCities is the built-in city list, in display order
var KnownCities = []KnownCity{
	{Label: "Delhi, India", Name: "Delhi", Country: "India", CountryCode: "IN", Lat: 28.6519, Lon: 77.2315},
	{Label: "Mumbai, India", Name: "Mumbai", Country: "India", CountryCode: "IN", Lat: 19.0728, Lon: 72.8826},
	{Label: "Kolkata, India", Name: "Kolkata", Country: "India", CountryCode: "IN", Lat: 22.5626, Lon: 88.363},
	{Label: "Bengaluru, India", Name: "Bengaluru", Country: "India", CountryCode: "IN", Lat: 12.9719, Lon: 77.5937},
	{Label: "Chennai, India", Name: "Chennai", Country: "India", CountryCode: "IN", Lat: 13.0878, Lon: 80.2785},
	{Label: "London, UK", Name: "London", Country: "UK", CountryCode: "GB", Lat: 51.5085, Lon: -0.1257},
	{Label: "New York, USA", Name: "New York", Country: "USA", CountryCode: "US", Lat: 40.7143, Lon: -74.006},
	{Label: "Sydney, AU", Name: "Sydney", Country: "AU", CountryCode: "AU", Lat: -33.8679, Lon: 151.2073},
}
