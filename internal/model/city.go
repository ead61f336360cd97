package model

// City represents a city in the catalog
type City struct {
	ID          int     `db:"id"`
	CountryCode string  `db:"country_code"`
	NameDefault string  `db:"name_default"`
	Population  int     `db:"population"`
	Lat         float64 `db:"lat"`
	Lon         float64 `db:"lon"`
}

// Country represents a country in the catalog
type Country struct {
	Code        string `db:"code"`
	NameDefault string `db:"name_default"`
}

// CatalogEntry is a city joined with its country name, as returned by catalog searches
type CatalogEntry struct {
	ID          int     `db:"id"`
	Name        string  `db:"name"`
	Country     string  `db:"country"`
	CountryCode string  `db:"country_code"`
	Lat         float64 `db:"lat"`
	Lon         float64 `db:"lon"`
}

// Label renders the entry the way suggestions are displayed
func (e CatalogEntry) Label() string {
	if e.Country == "" {
		return e.Name
	}
	return e.Name + ", " + e.Country
}
