// Command sheltersync refreshes the relief-camp dataset from OpenStreetMap
// shelters inside a bounding box.
//
// Usage:
//
//	go run ./cmd/sheltersync -output data/relief_camps.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/couchcryptid/cyclone-saferoute/internal/adapter/overpass"
	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	"github.com/couchcryptid/cyclone-saferoute/internal/shelter"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	endpoint := flag.String("endpoint", overpass.DefaultEndpoint, "Overpass API interpreter URL")
	output := flag.String("output", "data/relief_camps.csv", "output path for the shelter CSV")
	timeout := flag.Duration("timeout", 60*time.Second, "query timeout")
	minLat := flag.Float64("min-lat", domain.OdishaBounds.MinLat, "bounding box south edge")
	maxLat := flag.Float64("max-lat", domain.OdishaBounds.MaxLat, "bounding box north edge")
	minLon := flag.Float64("min-lon", domain.OdishaBounds.MinLon, "bounding box west edge")
	maxLon := flag.Float64("max-lon", domain.OdishaBounds.MaxLon, "bounding box east edge")
	flag.Parse()

	box := domain.BoundingBox{MinLat: *minLat, MaxLat: *maxLat, MinLon: *minLon, MaxLon: *maxLon}
	if box.Empty() {
		flag.Usage()
		return fmt.Errorf("empty bounding box")
	}

	logger := sharedobs.NewLogger("info", "text")
	client := overpass.NewClient(*endpoint, *timeout, logger)

	shelters, err := client.Shelters(box)
	if err != nil {
		return err
	}
	if len(shelters) == 0 {
		return fmt.Errorf("no shelters found in %+v", box)
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create %s: %w", *output, err)
	}
	defer f.Close()

	if err := shelter.Write(f, shelters); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	fmt.Printf("Wrote %d shelters to %s\n", len(shelters), *output)
	return nil
}
