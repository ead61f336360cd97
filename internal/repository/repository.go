package repository

import (
	"context"
	"strings"

	"github.com/alexivanou/geocity-weather/internal/config"
	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/jmoiron/sqlx"
)

// CityRepository defines catalog operations for cities
type CityRepository interface {
	// SearchCities returns entries whose "name, country" label contains query,
	// case-insensitively, in catalog order.
	SearchCities(ctx context.Context, query string, limit int) ([]model.CatalogEntry, error)
	CountCities(ctx context.Context) (int, error)
	BulkInsertCities(ctx context.Context, cities []model.City) error
}

// CountryRepository defines catalog operations for countries
type CountryRepository interface {
	BulkInsertCountries(ctx context.Context, countries []model.Country) error
}

// Container holds all repositories
type Container struct {
	City    CityRepository
	Country CountryRepository
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	if dbType == config.DBTypePostgreSQL {
		return &Container{
			City:    &pgCityRepository{db: db},
			Country: &pgCountryRepository{db: db},
		}
	}

	return &Container{
		City:    &sqliteCityRepository{db: db},
		Country: &sqliteCountryRepository{db: db},
	}
}

// IsDatabaseEmpty reports whether the catalog holds no cities (used by main)
func IsDatabaseEmpty(ctx context.Context, db *sqlx.DB) (bool, error) {
	var count int
	err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM cities")
	if err != nil {
		// Missing table counts as empty
		return true, nil
	}
	return count == 0, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a free-text query into a literal containment pattern
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

func chunks[T any](items []T, size int, fn func(batch []T) error) error {
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		if err := fn(items[i:end]); err != nil {
			return err
		}
	}
	return nil
}
