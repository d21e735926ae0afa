// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/crazywalk/streetgraph/internal/pipeline"
)

type errorBody struct {
	Error      string  `json:"error"`
	RegionSize float64 `json:"region_size,omitempty"`
}

// HandleMap generates and serves the playable graph for a coordinate.
// Query: lat, lon (required), mode (initial|expand, default initial),
// restore (comma separated polygon ids), rebuild (bypass the cache).
func (s *ServerContext) HandleMap(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(w, http.StatusBadRequest, "lat and lon are required numeric parameters", 0)
		return
	}

	modeParam := r.URL.Query().Get("mode")
	if modeParam == "" {
		modeParam = string(pipeline.ModeInitial)
	}
	mode, ok := pipeline.ParseMode(modeParam)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", modeParam), 0)
		return
	}

	var restore []string
	if raw := r.URL.Query().Get("restore"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				restore = append(restore, id)
			}
		}
	}

	req := pipeline.Request{
		Lat:          lat,
		Lon:          lon,
		Mode:         mode,
		Restore:      restore,
		ForceRebuild: r.URL.Query().Get("rebuild") == "true",
	}

	bundle, err := s.Generator.Generate(r.Context(), req)
	if err != nil {
		var genErr *pipeline.GenerateError
		if errors.As(err, &genErr) {
			writeError(w, http.StatusNotFound, genErr.Error(), genErr.RegionSize)
			return
		}
		log.Error().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("Map generation failed")
		writeError(w, http.StatusInternalServerError, "map generation failed", 0)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(bundle)
}

// HandleHealth reports service liveness.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// HandleIndex serves the debug viewer.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if match := r.Header.Get("If-None-Match"); match != "" && match == s.IndexETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", s.IndexETag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

func writeError(w http.ResponseWriter, status int, msg string, regionSize float64) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg, RegionSize: regionSize})
}
