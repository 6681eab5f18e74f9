// Command ibtracs downloads the IBTrACS North Indian best-track archive and
// reduces it to one row per cyclone that crossed a bounding box.
//
// Usage:
//
//	go run ./cmd/ibtracs -output data/regions/odisha/cyclone_events.csv
//	go run ./cmd/ibtracs -input ibtracs.NI.list.v04r01.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	"github.com/couchcryptid/cyclone-saferoute/internal/history"
)

const defaultURL = "https://www.ncei.noaa.gov/data/international-best-track-archive-for-climate-stewardship-ibtracs/v04r01/access/csv/ibtracs.NI.list.v04r01.csv"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	src := flag.String("url", defaultURL, "IBTrACS CSV download URL")
	input := flag.String("input", "", "read a local IBTrACS CSV instead of downloading")
	output := flag.String("output", "data/regions/odisha/cyclone_events.csv", "output path for the event CSV")
	basin := flag.String("basin", history.BasinNorthIndian, "IBTrACS basin code")
	timeout := flag.Duration("timeout", 120*time.Second, "download timeout")
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

	var r io.ReadCloser
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			return fmt.Errorf("open %s: %w", *input, err)
		}
		r = f
	} else {
		body, err := download(*src, *timeout)
		if err != nil {
			return err
		}
		r = body
	}
	defer r.Close()

	events, err := history.ParseIBTrACS(r, *basin, box)
	if err != nil {
		return fmt.Errorf("parse ibtracs: %w", err)
	}
	if len(events) == 0 {
		return fmt.Errorf("no %s storms inside %+v", *basin, box)
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create %s: %w", *output, err)
	}
	defer f.Close()

	if err := history.WriteEvents(f, events); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}

	fmt.Printf("Wrote %d cyclone events to %s\n", len(events), *output)
	fmt.Printf("Range: %s .. %s\n",
		events[0].Timestamp.Format(time.DateOnly),
		events[len(events)-1].Timestamp.Format(time.DateOnly))
	return nil
}

// download streams the archive; the caller closes the body. The timeout
// covers the whole transfer, so it stays attached until the body is read.
func download(url string, timeout time.Duration) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("download ibtracs: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("download ibtracs: unexpected status %d", resp.StatusCode)
	}
	return cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
