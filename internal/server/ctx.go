package server

import (
	"fmt"
	"hash/fnv"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/crazywalk/streetgraph/assets"
	"github.com/crazywalk/streetgraph/internal/config"
	"github.com/crazywalk/streetgraph/internal/pipeline"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Generator *pipeline.Generator
	IndexHTML []byte
	IndexETag string
}

// NewServerContext initializes the context and prepares the embedded debug
// viewer. The viewer is minified once at startup and served from memory.
func NewServerContext(cfg *config.Config, gen *pipeline.Generator) *ServerContext {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	index, err := m.Bytes("text/html", assets.Index)
	if err != nil {
		log.Warn().Err(err).Msg("Viewer minification failed, serving raw HTML")
		index = assets.Index
	}

	log.Info().
		Int("viewer_bytes", len(index)).
		Int("region_sizes", len(cfg.Generator.RegionSizes)).
		Msg("Server context initialized")

	return &ServerContext{
		Config:    cfg,
		Generator: gen,
		IndexHTML: index,
		IndexETag: indexETag(index),
	}
}

// indexETag derives a strong validator from the served bytes.
func indexETag(b []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return fmt.Sprintf(`"%x"`, h.Sum64())
}
