// Package shelter reads and writes the relief-camp dataset.
package shelter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
)

// Column names of the shelter CSV.
const (
	ColName     = "camp_name"
	ColLat      = "latitude"
	ColLon      = "longitude"
	ColCapacity = "capacity"
)

var header = []string{ColName, ColLat, ColLon, ColCapacity}

// Load reads shelters from a CSV file. An empty dataset is an error.
func Load(path string) ([]domain.Shelter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shelters: %w", err)
	}
	defer f.Close()

	shelters, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return shelters, nil
}

// Parse reads shelters from CSV. Columns are matched by header name, so their
// order does not matter and extra columns are ignored.
func Parse(r io.Reader) ([]domain.Shelter, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrEmptyShelterSet
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx := map[string]int{}
	for i, h := range head {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range header {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var shelters []domain.Shelter
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		s, err := parseRow(row, colIdx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		shelters = append(shelters, s)
	}

	if len(shelters) == 0 {
		return nil, domain.ErrEmptyShelterSet
	}
	return shelters, nil
}

func parseRow(row []string, colIdx map[string]int) (domain.Shelter, error) {
	name := get(row, colIdx, ColName)
	if name == "" {
		return domain.Shelter{}, errors.New("empty camp_name")
	}

	lat, err := strconv.ParseFloat(get(row, colIdx, ColLat), 64)
	if err != nil {
		return domain.Shelter{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(get(row, colIdx, ColLon), 64)
	if err != nil {
		return domain.Shelter{}, fmt.Errorf("longitude: %w", err)
	}
	loc := domain.Coordinate{Lat: lat, Lon: lon}
	if !loc.Valid() {
		return domain.Shelter{}, fmt.Errorf("coordinate out of range: %s", loc)
	}

	capacity := 0
	if raw := get(row, colIdx, ColCapacity); raw != "" {
		capacity, err = strconv.Atoi(raw)
		if err != nil {
			return domain.Shelter{}, fmt.Errorf("capacity: %w", err)
		}
		if capacity < 0 {
			return domain.Shelter{}, fmt.Errorf("negative capacity %d", capacity)
		}
	}

	return domain.Shelter{Name: name, Location: loc, Capacity: capacity}, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Write emits shelters in the same CSV layout Parse reads.
func Write(w io.Writer, shelters []domain.Shelter) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range shelters {
		rec := []string{
			s.Name,
			strconv.FormatFloat(s.Location.Lat, 'f', 6, 64),
			strconv.FormatFloat(s.Location.Lon, 'f', 6, 64),
			strconv.Itoa(s.Capacity),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
