package owm

// Current is the subset of the current-weather response the fetcher reads.
// Main is a pointer so a missing block can be told apart from zero values.
type Current struct {
	Name     string      `json:"name"`
	Main     *MainBlock  `json:"main"`
	Weather  []Condition `json:"weather"`
	Wind     *WindBlock  `json:"wind"`
	Dt       int64       `json:"dt"`
	Timezone int64       `json:"timezone"`
}

type MainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type WindBlock struct {
	Speed float64 `json:"speed"`
}

// Place is one direct-geocoding result
type Place struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
