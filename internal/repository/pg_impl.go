package repository

import (
	"context"

	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/jmoiron/sqlx"
)

// --- PostgreSQL Implementation ---

type pgCityRepository struct {
	db *sqlx.DB
}

func (r *pgCityRepository) SearchCities(ctx context.Context, query string, limit int) ([]model.CatalogEntry, error) {
	q := `
		SELECT
			c.id,
			c.name_default AS name,
			cnt.name_default AS country,
			c.country_code,
			c.lat,
			c.lon
		FROM cities c
		JOIN countries cnt ON c.country_code = cnt.code
		WHERE LOWER(c.name_default || ', ' || cnt.name_default) LIKE $1 ESCAPE '\'
		ORDER BY c.id
		LIMIT $2
	`
	var results []model.CatalogEntry
	if err := r.db.SelectContext(ctx, &results, q, likePattern(query), limit); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pgCityRepository) CountCities(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM cities"); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *pgCityRepository) BulkInsertCities(ctx context.Context, cities []model.City) error {
	return chunks(cities, 1000, func(batch []model.City) error {
		_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO cities (id, country_code, name_default, population, lat, lon)
		VALUES (:id, :country_code, :name_default, :population, :lat, :lon)
		ON CONFLICT (id) DO UPDATE SET
			country_code = EXCLUDED.country_code,
			name_default = EXCLUDED.name_default,
			population = EXCLUDED.population,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon`,
			batch)
		return err
	})
}

type pgCountryRepository struct {
	db *sqlx.DB
}

func (r *pgCountryRepository) BulkInsertCountries(ctx context.Context, countries []model.Country) error {
	return chunks(countries, 1000, func(batch []model.Country) error {
		_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO countries (code, name_default)
		VALUES (:code, :name_default)
		ON CONFLICT (code) DO UPDATE SET name_default = EXCLUDED.name_default`,
			batch)
		return err
	})
}
