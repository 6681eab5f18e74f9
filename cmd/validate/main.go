// Command validate checks the shelter dataset and the historical cyclone
// artifacts for internal consistency: field ranges, duplicate keys, event to
// weather joins, and that synthetic weather is reproducible at every shelter.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -shelters data/relief_camps.csv \
//	  -events data/regions/odisha/cyclone_events.csv \
//	  -weather data/regions/odisha/era5_weather.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/cyclone-saferoute/internal/adapter/synthetic"
	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	"github.com/couchcryptid/cyclone-saferoute/internal/history"
	"github.com/couchcryptid/cyclone-saferoute/internal/observability"
	"github.com/couchcryptid/cyclone-saferoute/internal/shelter"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	sheltersPath := flag.String("shelters", "data/relief_camps.csv", "shelter CSV")
	eventsPath := flag.String("events", "", "cyclone event CSV (optional)")
	weatherPath := flag.String("weather", "", "event weather CSV (requires -events)")
	flag.Parse()

	if *weatherPath != "" && *eventsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*sheltersPath, *eventsPath, *weatherPath); code != 0 {
		os.Exit(code)
	}
}

func run(sheltersPath, eventsPath, weatherPath string) int {
	// Fixed clock so both synthetic passes see the same month.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.May, 20, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== SafeRoute Dataset Validation ===")
	fmt.Println()

	shelters, err := shelter.Load(sheltersPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load shelters: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateShelters(shelters),
		validateSyntheticWeather(shelters),
	}

	var events []history.CycloneEvent
	if eventsPath != "" {
		events, err = loadFile(eventsPath, history.ReadEvents)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load events: %v\n", err)
			return 1
		}
		phases = append(phases, validateEvents(events))
	}

	var weather []history.EventWeather
	if weatherPath != "" {
		weather, err = loadFile(weatherPath, history.ReadWeather)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load weather: %v\n", err)
			return 1
		}
		phases = append(phases, validateWeather(weather, events))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d shelters, %d events, %d weather rows\n", len(shelters), len(events), len(weather))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}

// ── Phase 1: Shelters ──

func validateShelters(shelters []domain.Shelter) *phase {
	p := &phase{name: "Phase 1: Shelter Dataset"}

	seen := map[string]int{}
	for i, s := range shelters {
		row := i + 2
		if s.Name == "" {
			p.errorf("row %d: empty camp name", row)
		}
		if prev, ok := seen[s.Name]; ok {
			p.errorf("row %d: duplicate camp name %q (first at row %d)", row, s.Name, prev)
		} else {
			seen[s.Name] = row
		}
		if !s.Location.Valid() {
			p.errorf("row %d: %q has invalid coordinates %s", row, s.Name, s.Location)
		}
		if s.Capacity < 0 {
			p.errorf("row %d: %q has negative capacity %d", row, s.Name, s.Capacity)
		}
	}
	return p
}

// ── Phase 2: Synthetic weather ──
// The synthetic provider must be deterministic for a fixed location and month.

func validateSyntheticWeather(shelters []domain.Shelter) *phase {
	p := &phase{name: "Phase 2: Synthetic Weather Reproducibility"}

	provider := synthetic.NewProvider(observability.NewMetrics())
	ctx := context.Background()
	for _, s := range shelters {
		first, err := provider.Fetch(ctx, s.Location)
		if err != nil {
			p.errorf("%s: fetch: %v", s.Name, err)
			continue
		}
		second, _ := provider.Fetch(ctx, s.Location)
		if first != second {
			p.errorf("%s: readings differ between calls: %+v vs %+v", s.Name, first, second)
		}
		stress := domain.StormStress(first)
		if math.IsNaN(stress) || stress < 0 {
			p.errorf("%s: invalid storm stress %v", s.Name, stress)
		}
	}
	return p
}

// ── Phase 3: Events ──

func validateEvents(events []history.CycloneEvent) *phase {
	p := &phase{name: "Phase 3: Cyclone Events"}

	if len(events) == 0 {
		p.errorf("event table is empty")
		return p
	}

	ids := map[string]bool{}
	for i, e := range events {
		if ids[e.EventID] {
			p.errorf("event %s: duplicate id", e.EventID)
		}
		ids[e.EventID] = true

		if !domain.OdishaBounds.Contains(e.Lat, e.Lon) {
			p.errorf("event %s: mean position %.2f,%.2f outside the Odisha box", e.EventID, e.Lat, e.Lon)
		}
		if !(e.MaxWindKmh > 0) {
			p.errorf("event %s: non-positive max wind %v", e.EventID, e.MaxWindKmh)
		}
		if i > 0 && e.Timestamp.Before(events[i-1].Timestamp) {
			p.errorf("event %s: out of time order", e.EventID)
		}
	}
	return p
}

// ── Phase 4: Event weather ──
// Checks each row against the ranges the synthesizer draws from.

func validateWeather(weather []history.EventWeather, events []history.CycloneEvent) *phase {
	p := &phase{name: "Phase 4: Event Weather Join"}

	if len(weather) != len(events) {
		p.errorf("row count: %d events, %d weather rows", len(events), len(weather))
	}

	byID := make(map[string]history.CycloneEvent, len(events))
	for _, e := range events {
		byID[e.EventID] = e
	}

	const eps = 1e-6
	for _, w := range weather {
		e, ok := byID[w.EventID]
		if !ok {
			p.errorf("weather %s: no matching event", w.EventID)
			continue
		}
		if !w.Timestamp.Equal(e.Timestamp) {
			p.errorf("weather %s: timestamp %s, event has %s", w.EventID, w.Timestamp, e.Timestamp)
		}
		if ratio := w.MaxWindKmh / e.MaxWindKmh; ratio < 0.85-eps || ratio > 0.95+eps {
			p.errorf("weather %s: surface wind is %.3f of best track", w.EventID, ratio)
		}
		if ratio := w.MaxGustKmh / w.MaxWindKmh; ratio < 1.2-eps || ratio > 1.5+eps {
			p.errorf("weather %s: gust factor %.3f", w.EventID, ratio)
		}
		if w.TotalRainfallMm < 50-eps || w.TotalRainfallMm > 700+eps {
			p.errorf("weather %s: rainfall %.1f mm out of range", w.EventID, w.TotalRainfallMm)
		}
	}

	if stats, err := history.Summarize(history.StressOf(weather)); err == nil {
		fmt.Printf("Historical stress: n=%d mean=%.0f median=%.0f p95=%.0f max=%.0f\n",
			stats.Count, stats.Mean, stats.Median, stats.P95, stats.Max)
	}
	return p
}
