package model

// Category is a coarse condition bucket used for theming
type Category string

const (
	CategoryCloudy Category = "cloudy"
	CategoryRainy  Category = "rainy"
	CategoryOther  Category = "other"
)

// WeatherRecord is the normalized, display-ready snapshot of current conditions.
// A record is either fully populated or absent; it is never updated field by field.
type WeatherRecord struct {
	Place      string   `json:"place"`
	TempC      int      `json:"temp_c"`
	FeelsLikeC int      `json:"feels_like_c"`
	Condition  string   `json:"condition"`
	Icon       string   `json:"icon"`
	Wind       float64  `json:"wind"`
	WindLabel  string   `json:"wind_label"`
	Humidity   int      `json:"humidity"`
	LocalTime  string   `json:"local_time"`
	LocalDate  string   `json:"local_date"`
	Category   Category `json:"category"`
}
