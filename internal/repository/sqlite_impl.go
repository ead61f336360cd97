package repository

import (
	"context"

	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/jmoiron/sqlx"
)

type sqliteCityRepository struct {
	db *sqlx.DB
}

func (r *sqliteCityRepository) SearchCities(ctx context.Context, query string, limit int) ([]model.CatalogEntry, error) {
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
		WHERE unicode_lower(c.name_default || ', ' || cnt.name_default) LIKE ? ESCAPE '\'
		ORDER BY c.id
		LIMIT ?
	`
	var results []model.CatalogEntry
	if err := r.db.SelectContext(ctx, &results, q, likePattern(query), limit); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sqliteCityRepository) CountCities(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM cities"); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sqliteCityRepository) BulkInsertCities(ctx context.Context, cities []model.City) error {
	// 100 rows * 6 params stays well within SQLite's variable limit
	return chunks(cities, 100, func(batch []model.City) error {
		_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO cities (id, country_code, name_default, population, lat, lon)
		VALUES (:id, :country_code, :name_default, :population, :lat, :lon)`,
			batch)
		return err
	})
}

type sqliteCountryRepository struct {
	db *sqlx.DB
}

func (r *sqliteCountryRepository) BulkInsertCountries(ctx context.Context, countries []model.Country) error {
	return chunks(countries, 250, func(batch []model.Country) error {
		_, err := r.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO countries (code, name_default)
		VALUES (:code, :name_default)`,
			batch)
		return err
	})
}
