package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crazywalk/streetgraph/internal/geo"
	"github.com/crazywalk/streetgraph/internal/graph"
	"github.com/crazywalk/streetgraph/internal/model"
)

// Way is a raw road polyline as delivered by a road network source.
type Way struct {
	Coordinates []geo.Coordinate
	IsClosed    bool
}

// Source fetches raw road geometry for a bounding box.
type Source interface {
	Fetch(ctx context.Context, box geo.BoundingBox) ([]Way, error)
}

// Cache stores generated bundles between initial-mode requests.
type Cache interface {
	Get(key string) (*model.Bundle, bool)
	Set(key string, bundle *model.Bundle, ttl time.Duration)
}

// Request describes one map generation call. Unfiltered requests skip the
// visibility filter and the cache and return the whole derived graph.
type Request struct {
	Lat          float64
	Lon          float64
	Mode         Mode
	Restore      []string
	ForceRebuild bool
	Unfiltered   bool
}

// Generator ties a road source, a bundle cache and the derivation config
// into the per-request orchestration.
type Generator struct {
	Source Source
	Cache  Cache
	Config Config
}

// Generate produces the filtered bundle for a request. Initial-mode results
// are served from and written to the cache keyed by the rounded request
// coordinate; expand mode always recomputes. Region sizes are tried in
// order, growing until the derivation yields a graph.
func (g *Generator) Generate(ctx context.Context, req Request) (*model.Bundle, error) {
	at := geo.Coordinate{Lat: req.Lat, Lon: req.Lon}

	key := fmt.Sprintf("map:%.3f_%.3f", req.Lat, req.Lon)
	cacheable := g.Cache != nil && req.Mode == ModeInitial && !req.Unfiltered
	if cacheable && !req.ForceRebuild {
		if cached, ok := g.Cache.Get(key); ok {
			log.Debug().Str("key", key).Msg("Serving cached map")
			return cached, nil
		}
	}

	bundle, err := g.generateAt(ctx, at)
	if err != nil {
		return nil, err
	}

	if req.Unfiltered {
		return bundle, nil
	}

	filtered := Filter(bundle, req.Mode, at, req.Restore)
	if cacheable {
		g.Cache.Set(key, filtered, g.Config.CacheTTL)
	}
	return filtered, nil
}

// generateAt runs the progressive region retry around one coordinate.
func (g *Generator) generateAt(ctx context.Context, at geo.Coordinate) (*model.Bundle, error) {
	sizes := g.Config.RegionSizes
	if len(sizes) == 0 {
		sizes = DefaultConfig().RegionSizes
	}

	var lastErr error
	lastSize := 0.0
	for _, size := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lastSize = size

		box := geo.Around(at.Lat, at.Lon, size)
		ways, err := g.Source.Fetch(ctx, box)
		if err != nil {
			return nil, fmt.Errorf("fetching road network: %w", err)
		}

		coords := make([][]geo.Coordinate, 0, len(ways))
		for _, w := range ways {
			coords = append(coords, w.Coordinates)
		}

		bundle, err := Run(graph.SegmentsFromWays(coords), g.Config)
		if err != nil {
			if errors.Is(err, ErrInputUnavailable) || errors.Is(err, ErrNoCyclesFound) {
				log.Debug().Float64("region_size", size).Err(err).Msg("Region too sparse, growing")
				lastErr = err
				continue
			}
			return nil, err
		}

		bundle.RegionSize = size
		return bundle, nil
	}

	if lastErr == nil {
		lastErr = ErrInputUnavailable
	}
	return nil, &GenerateError{Err: lastErr, RegionSize: lastSize}
}
