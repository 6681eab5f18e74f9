// Package overpass pulls shelter candidates out of OpenStreetMap through the
// Overpass API.
package overpass

import (
	"cmp"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/serjvanilla/go-overpass"

	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
)

// DefaultEndpoint is the public Overpass interpreter.
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// Client queries Overpass for emergency shelters.
type Client struct {
	client overpass.Client
	logger *slog.Logger
}

// NewClient creates a client that allows two concurrent queries against endpoint.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: timeout}
	return &Client{
		client: overpass.NewWithSettings(endpoint, 2, httpClient),
		logger: logger,
	}
}

// ShelterQuery builds the Overpass QL for shelters, assembly points and
// shelter social facilities inside box.
func ShelterQuery(box domain.BoundingBox) string {
	bbox := fmt.Sprintf("%g,%g,%g,%g", box.MinLat, box.MinLon, box.MaxLat, box.MaxLon)
	return fmt.Sprintf(`
		[out:json];
		(
			node["amenity"="shelter"](%[1]s);
			way["amenity"="shelter"](%[1]s);
			node["emergency"="assembly_point"](%[1]s);
			way["emergency"="assembly_point"](%[1]s);
			node["social_facility"="shelter"](%[1]s);
			way["social_facility"="shelter"](%[1]s);
		);
		out body;
		>;
		out skel qt;
	`, bbox)
}

// Shelters fetches every shelter inside box.
func (c *Client) Shelters(box domain.BoundingBox) ([]domain.Shelter, error) {
	start := time.Now()
	result, err := c.client.Query(ShelterQuery(box))
	if err != nil {
		return nil, fmt.Errorf("overpass query failed: %w", err)
	}
	shelters := ToShelters(&result)
	c.logger.Info("overpass query complete",
		"nodes", len(result.Nodes),
		"ways", len(result.Ways),
		"shelters", len(shelters),
		"duration", time.Since(start),
	)
	return shelters, nil
}

// ToShelters converts tagged nodes and ways into shelters, ordered by name.
// Ways are placed at the mean of their member nodes. Untagged nodes are way
// geometry and are skipped.
func ToShelters(result *overpass.Result) []domain.Shelter {
	var out []domain.Shelter

	for _, node := range result.Nodes {
		if len(node.Tags) == 0 {
			continue
		}
		out = append(out, domain.Shelter{
			Name:     shelterName(node.Tags, "node", node.ID),
			Location: domain.Coordinate{Lat: node.Lat, Lon: node.Lon},
			Capacity: capacity(node.Tags),
		})
	}

	for _, way := range result.Ways {
		var lat, lon float64
		count := 0
		for _, node := range way.Nodes {
			if node == nil {
				continue
			}
			lat += node.Lat
			lon += node.Lon
			count++
		}
		if count == 0 {
			continue
		}
		out = append(out, domain.Shelter{
			Name:     shelterName(way.Tags, "way", way.ID),
			Location: domain.Coordinate{Lat: lat / float64(count), Lon: lon / float64(count)},
			Capacity: capacity(way.Tags),
		})
	}

	slices.SortFunc(out, func(a, b domain.Shelter) int {
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Location.Lat, b.Location.Lat),
			cmp.Compare(a.Location.Lon, b.Location.Lon),
		)
	})
	return out
}

func shelterName(tags map[string]string, kind string, id int64) string {
	for _, key := range []string{"name", "name:en", "official_name"} {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
	}
	return fmt.Sprintf("Shelter %s/%d", kind, id)
}

// capacity reads the capacity tag; missing or malformed values mean unknown (0).
func capacity(tags map[string]string) int {
	n, err := strconv.Atoi(strings.TrimSpace(tags["capacity"]))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
