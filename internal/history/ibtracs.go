package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
)

// KnotsToKmh converts best-track wind speeds to km/h.
const KnotsToKmh = 1.852

// TimeLayout is the IBTrACS ISO_TIME format, also used in output files.
const TimeLayout = "2006-01-02 15:04:05"

// BasinNorthIndian is the IBTrACS basin code for the North Indian Ocean.
const BasinNorthIndian = "NI"

// IBTrACS columns read by ParseIBTrACS.
const (
	colSID     = "SID"
	colBasin   = "BASIN"
	colName    = "NAME"
	colISOTime = "ISO_TIME"
	colLat     = "LAT"
	colLon     = "LON"
	colWMOWind = "WMO_WIND"
)

// CycloneEvent is one storm, aggregated over its track points inside the box.
type CycloneEvent struct {
	EventID    string
	Timestamp  time.Time
	Lat        float64 // mean of track points
	Lon        float64
	MaxWindKmh float64
	Name       string
}

type trackAggregate struct {
	isoTime string
	name    string
	latSum  float64
	lonSum  float64
	points  int
	maxWind float64
	hasWind bool
}

// ParseIBTrACS reads an IBTrACS CSV export and aggregates the track points in
// basin and box into one event per storm. The row after the header (units)
// is skipped. Events without any wind observation are dropped; the result
// is ordered by first timestamp.
func ParseIBTrACS(r io.Reader, basin string, box domain.BoundingBox) ([]CycloneEvent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header, colSID, colBasin, colName, colISOTime, colLat, colLon, colWMOWind)
	if err != nil {
		return nil, err
	}

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read units row: %w", err)
	}

	aggs := make(map[string]*trackAggregate)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		field := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		if field(colBasin) != basin {
			continue
		}
		lat, lon := parseNumber(field(colLat)), parseNumber(field(colLon))
		if !box.Contains(lat, lon) {
			continue
		}

		sid := field(colSID)
		agg, ok := aggs[sid]
		if !ok {
			agg = &trackAggregate{}
			aggs[sid] = agg
		}
		if agg.isoTime == "" {
			agg.isoTime = field(colISOTime)
		}
		if agg.name == "" {
			agg.name = field(colName)
		}
		agg.latSum += lat
		agg.lonSum += lon
		agg.points++
		if wind := parseNumber(field(colWMOWind)); !math.IsNaN(wind) {
			if !agg.hasWind || wind > agg.maxWind {
				agg.maxWind = wind
			}
			agg.hasWind = true
		}
	}

	sids := make([]string, 0, len(aggs))
	for sid := range aggs {
		sids = append(sids, sid)
	}
	slices.Sort(sids)

	events := make([]CycloneEvent, 0, len(sids))
	for _, sid := range sids {
		agg := aggs[sid]
		if !agg.hasWind {
			continue
		}
		ts, err := time.Parse(TimeLayout, agg.isoTime)
		if err != nil {
			return nil, fmt.Errorf("storm %s: parse ISO_TIME %q: %w", sid, agg.isoTime, err)
		}
		events = append(events, CycloneEvent{
			EventID:    sid,
			Timestamp:  ts,
			Lat:        agg.latSum / float64(agg.points),
			Lon:        agg.lonSum / float64(agg.points),
			MaxWindKmh: agg.maxWind * KnotsToKmh,
			Name:       agg.name,
		})
	}

	slices.SortStableFunc(events, func(a, b CycloneEvent) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return events, nil
}

var eventHeader = []string{"event_id", "timestamp", "lat", "lon", "max_wind_speed", "name"}

// WriteEvents writes events as CSV with a header row.
func WriteEvents(w io.Writer, events []CycloneEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventHeader); err != nil {
		return err
	}
	for _, e := range events {
		if err := cw.Write([]string{
			e.EventID,
			e.Timestamp.Format(TimeLayout),
			formatFloat(e.Lat),
			formatFloat(e.Lon),
			formatFloat(e.MaxWindKmh),
			e.Name,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadEvents reads a file produced by WriteEvents.
func ReadEvents(r io.Reader) ([]CycloneEvent, error) {
	rows, idx, err := readTable(r, eventHeader...)
	if err != nil {
		return nil, err
	}

	events := make([]CycloneEvent, 0, len(rows))
	for i, rec := range rows {
		line := i + 2
		ts, err := time.Parse(TimeLayout, rec[idx["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: timestamp: %w", line, err)
		}
		nums, err := parseFloats(rec, idx, "lat", "lon", "max_wind_speed")
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, CycloneEvent{
			EventID:    rec[idx["event_id"]],
			Timestamp:  ts,
			Lat:        nums[0],
			Lon:        nums[1],
			MaxWindKmh: nums[2],
			Name:       rec[idx["name"]],
		})
	}
	return events, nil
}

// parseNumber parses a float, returning NaN for blank or malformed input.
func parseNumber(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func columnIndex(header []string, cols ...string) (map[string]int, error) {
	idx := make(map[string]int, len(cols))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	out := make(map[string]int, len(cols))
	for _, c := range cols {
		i, ok := idx[c]
		if !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
		out[c] = i
	}
	return out, nil
}

// readTable reads a CSV with a header and returns the data rows, checking
// that every row has each required column.
func readTable(r io.Reader, cols ...string) ([][]string, map[string]int, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("empty file")
	}
	idx, err := columnIndex(records[0], cols...)
	if err != nil {
		return nil, nil, err
	}
	return records[1:], idx, nil
}

func parseFloats(rec []string, idx map[string]int, cols ...string) ([]float64, error) {
	out := make([]float64, len(cols))
	for i, c := range cols {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[c]]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		out[i] = v
	}
	return out, nil
}
