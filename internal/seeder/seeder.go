package seeder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/repository"
	"go.uber.org/zap"
)

// Origin names where seeded rows came from
type Origin string

const (
	OriginGeoNames Origin = "geonames"
	OriginKnown    Origin = "known"
)

// Result summarizes an import
type Result struct {
	Origin    Origin
	Countries int
	Cities    int
	Skipped   int
}

// KnownCatalog turns the built-in city list into catalog rows. Country names
// are kept as written in the list so catalog labels match the static source.
func KnownCatalog() ([]model.Country, []model.City) {
	var countries []model.Country
	seen := make(map[string]bool)
	cities := make([]model.City, 0, len(model.KnownCities))

	for i, k := range model.KnownCities {
		if !seen[k.CountryCode] {
			seen[k.CountryCode] = true
			countries = append(countries, model.Country{Code: k.CountryCode, NameDefault: k.Country})
		}
		cities = append(cities, model.City{
			ID:          i + 1,
			CountryCode: k.CountryCode,
			NameDefault: k.Name,
			Lat:         k.Lat,
			Lon:         k.Lon,
		})
	}
	return countries, cities
}

// Load reads the GeoNames dump, falling back to the built-in list when the
// dump files are absent
func Load(p *Parser) ([]model.Country, []model.City, Origin, error) {
	countries, err := p.ParseCountries()
	if errors.Is(err, fs.ErrNotExist) {
		countries, cities := KnownCatalog()
		return countries, cities, OriginKnown, nil
	}
	if err != nil {
		return nil, nil, "", err
	}

	cities, err := p.ParseCities()
	if err != nil {
		return nil, nil, "", err
	}
	return countries, cities, OriginGeoNames, nil
}

// Run loads the catalog and inserts it in batches. Cities whose country is
// not in the country list are skipped.
func Run(ctx context.Context, repos *repository.Container, p *Parser, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	countries, cities, origin, err := Load(p)
	if err != nil {
		return Result{}, err
	}
	logger.Info("Parsed catalog",
		zap.String("origin", string(origin)),
		zap.Int("countries", len(countries)),
		zap.Int("cities", len(cities)),
	)

	if err := repos.Country.BulkInsertCountries(ctx, countries); err != nil {
		return Result{}, fmt.Errorf("failed to insert countries: %w", err)
	}

	known := CreateCountryCodeMap(countries)
	valid := cities[:0]
	for _, c := range cities {
		if known[c.CountryCode] {
			valid = append(valid, c)
		}
	}
	skipped := len(cities) - len(valid)

	for start := 0; start < len(valid); start += p.BatchSize() {
		end := min(start+p.BatchSize(), len(valid))
		if err := repos.City.BulkInsertCities(ctx, valid[start:end]); err != nil {
			return Result{}, fmt.Errorf("failed to insert cities: %w", err)
		}
		logger.Debug("Inserted city batch", zap.Int("done", end), zap.Int("total", len(valid)))
	}

	return Result{
		Origin:    origin,
		Countries: len(countries),
		Cities:    len(valid),
		Skipped:   skipped,
	}, nil
}
