package seeder

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexivanou/geocity-weather/internal/config"
	"github.com/alexivanou/geocity-weather/internal/model"
)

const (
	countryInfoFile = "countryInfo.txt"
	citiesFile      = "cities1000.txt"
	citiesZipFile   = "cities1000.zip"
)

// Parser parses GeoNames data files
type Parser struct {
	dataDir       string
	batchSize     int
	minPopulation int
}

// NewParser creates a new parser instance with config
func NewParser(dataDir string, seederCfg config.SeederConfig) *Parser {
	batchSize := seederCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10000
	}
	return &Parser{
		dataDir:       dataDir,
		batchSize:     batchSize,
		minPopulation: seederCfg.MinPopulation,
	}
}

// BatchSize is the number of rows handed to the repository per insert call
func (p *Parser) BatchSize() int { return p.batchSize }

// ParseCountries parses countryInfo.txt
func (p *Parser) ParseCountries() ([]model.Country, error) {
	file, err := os.Open(filepath.Join(p.dataDir, countryInfoFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", countryInfoFile, err)
	}
	defer file.Close()

	return parseCountries(file)
}

func parseCountries(reader io.Reader) ([]model.Country, error) {
	var countries []model.Country
	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}

		// ISO code in column 0, country name in column 4
		parts := strings.Split(line, "\t")
		if len(parts) < 5 {
			continue
		}

		code, name := parts[0], parts[4]
		if code != "" && name != "" {
			countries = append(countries, model.Country{Code: code, NameDefault: name})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", countryInfoFile, err)
	}
	return countries, nil
}

// ParseCities parses cities1000.txt, or the zip it ships in, and filters by
// population
func (p *Parser) ParseCities() ([]model.City, error) {
	zipPath := filepath.Join(p.dataDir, citiesZipFile)
	if _, err := os.Stat(zipPath); err == nil {
		return p.parseCitiesFromZip(zipPath)
	}

	file, err := os.Open(filepath.Join(p.dataDir, citiesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", citiesFile, err)
	}
	defer file.Close()

	return p.parseCitiesFromReader(file)
}

func (p *Parser) parseCitiesFromZip(zipPath string) ([]model.City, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file in zip: %w", err)
		}
		defer rc.Close()
		return p.parseCitiesFromReader(rc)
	}

	return nil, fmt.Errorf("no txt file found in %s", zipPath)
}

func (p *Parser) parseCitiesFromReader(reader io.Reader) ([]model.City, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cities []model.City
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\t")
		if len(parts) < 15 {
			continue
		}

		id, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}

		population, err := strconv.Atoi(parts[14])
		if err != nil || population < p.minPopulation {
			continue
		}

		lat, err := strconv.ParseFloat(parts[4], 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(parts[5], 64)
		if err != nil {
			continue
		}

		cities = append(cities, model.City{
			ID:          id,
			CountryCode: parts[8],
			NameDefault: parts[1],
			Population:  population,
			Lat:         lat,
			Lon:         lon,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cities: %w", err)
	}
	return cities, nil
}

// CreateCountryCodeMap creates a map of country codes
func CreateCountryCodeMap(countries []model.Country) map[string]bool {
	m := make(map[string]bool, len(countries))
	for _, country := range countries {
		m[country.Code] = true
	}
	return m
}
