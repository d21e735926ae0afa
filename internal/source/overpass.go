// Package source fetches raw street geometry from the Overpass API.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crazywalk/streetgraph/internal/geo"
	"github.com/crazywalk/streetgraph/internal/pipeline"
)

// highwayClasses are the road types worth walking on.
const highwayClasses = "primary|secondary|tertiary|residential|living_street|pedestrian|footway|path|service|unclassified"

// Overpass queries one or more Overpass API endpoints for the street ways
// inside a bounding box. All endpoints are raced concurrently and the first
// successful response wins.
type Overpass struct {
	Endpoints []string
	Client    *http.Client
}

// New builds an Overpass source over the given endpoints.
func New(endpoints []string, timeout time.Duration) *Overpass {
	return &Overpass{
		Endpoints: endpoints,
		Client:    &http.Client{Timeout: timeout},
	}
}

// Internal structures for JSON parsing
type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type  string  `json:"type"`
	ID    int64   `json:"id"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Nodes []int64 `json:"nodes"`
}

// Fetch implements pipeline.Source.
func (o *Overpass) Fetch(ctx context.Context, box geo.BoundingBox) ([]pipeline.Way, error) {
	if len(o.Endpoints) == 0 {
		return nil, fmt.Errorf("no overpass endpoints configured")
	}

	query := buildQuery(box)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		ways     []pipeline.Way
		endpoint string
		err      error
	}
	results := make(chan result, len(o.Endpoints))

	for _, endpoint := range o.Endpoints {
		go func(endpoint string) {
			ways, err := o.fetchOne(ctx, endpoint, query)
			results <- result{ways: ways, endpoint: endpoint, err: err}
		}(endpoint)
	}

	var lastErr error
	for range o.Endpoints {
		r := <-results
		if r.err != nil {
			lastErr = r.err
			continue
		}
		log.Debug().
			Str("endpoint", r.endpoint).
			Int("ways", len(r.ways)).
			Msg("Overpass response accepted")
		return r.ways, nil
	}
	return nil, fmt.Errorf("all overpass endpoints failed: %w", lastErr)
}

func (o *Overpass) fetchOne(ctx context.Context, endpoint, query string) ([]pipeline.Way, error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("status %d from %s", resp.StatusCode, endpoint)
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return assembleWays(parsed), nil
}

// buildQuery renders the Overpass QL body for a bounding box.
func buildQuery(box geo.BoundingBox) string {
	bbox := fmt.Sprintf("%f,%f,%f,%f", box.MinLat, box.MinLon, box.MaxLat, box.MaxLon)
	return fmt.Sprintf(
		"[out:json][timeout:25];(way[\"highway\"~\"^(%s)$\"](%s););out body;>;out skel qt;",
		highwayClasses, bbox,
	)
}

// assembleWays resolves each way's node refs against the node elements of
// the same response. Ways with unresolved refs keep their resolvable prefix
// runs; a way whose first and last refs match is closed.
func assembleWays(resp overpassResponse) []pipeline.Way {
	nodes := make(map[int64]geo.Coordinate)
	for _, el := range resp.Elements {
		if el.Type == "node" {
			nodes[el.ID] = geo.Coordinate{Lat: el.Lat, Lon: el.Lon}
		}
	}

	var ways []pipeline.Way
	for _, el := range resp.Elements {
		if el.Type != "way" || len(el.Nodes) < 2 {
			continue
		}

		coords := make([]geo.Coordinate, 0, len(el.Nodes))
		for _, ref := range el.Nodes {
			c, ok := nodes[ref]
			if !ok {
				continue
			}
			coords = append(coords, c)
		}
		if len(coords) < 2 {
			continue
		}

		ways = append(ways, pipeline.Way{
			Coordinates: coords,
			IsClosed:    el.Nodes[0] == el.Nodes[len(el.Nodes)-1],
		})
	}
	return ways
}
