// Command era5 attaches synthetic reanalysis weather to the cyclone event
// table and prints storm-stress statistics for the result.
//
// Usage:
//
//	go run ./cmd/era5 \
//	  -input data/regions/odisha/cyclone_events.csv \
//	  -output data/regions/odisha/era5_weather.csv
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/couchcryptid/cyclone-saferoute/internal/history"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	input := flag.String("input", "data/regions/odisha/cyclone_events.csv", "cyclone event CSV")
	output := flag.String("output", "data/regions/odisha/era5_weather.csv", "output path for the weather CSV")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	in, err := os.Open(*input)
	if err != nil {
		return fmt.Errorf("open %s: %w", *input, err)
	}
	defer in.Close()

	events, err := history.ReadEvents(in)
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}

	weather := history.SynthesizeWeather(events, rand.New(rand.NewPCG(*seed, 0)))

	out, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create %s: %w", *output, err)
	}
	defer out.Close()

	if err := history.WriteWeather(out, weather); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	fmt.Printf("Wrote weather for %d events to %s\n", len(weather), *output)

	stats, err := history.Summarize(history.StressOf(weather))
	if err != nil {
		return err
	}
	// NaN (single-event std) has no JSON form.
	if stats.Count < 2 {
		stats.Std = 0
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
