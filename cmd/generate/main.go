package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/crazywalk/streetgraph/internal/cache"
	"github.com/crazywalk/streetgraph/internal/config"
	"github.com/crazywalk/streetgraph/internal/logger"
	"github.com/crazywalk/streetgraph/internal/pipeline"
	"github.com/crazywalk/streetgraph/internal/source"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string   `short:"c" long:"config"  env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Lat        float64  `long:"lat" description:"Latitude of the spawn point" required:"true"`
	Lon        float64  `long:"lon" description:"Longitude of the spawn point" required:"true"`
	Mode       string   `short:"m" long:"mode"    description:"Filter mode" choice:"initial" choice:"expand" default:"initial"`
	Restore    []string `short:"r" long:"restore" description:"Polygon ids to restore as the filter anchor"`
	Output     string   `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	Timeout    int      `short:"t" long:"timeout" description:"Overall generation timeout in seconds" default:"120"`
	NoFilter   bool     `long:"no-filter" description:"Emit the full unfiltered graph"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		cfg = config.Default()
	}

	gen := &pipeline.Generator{
		Source: source.New(cfg.Overpass.Endpoints, cfg.OverpassTimeout()),
		Cache:  cache.NewMemory(),
		Config: cfg.Pipeline(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(opts.Timeout)*time.Second)
	defer cancel()

	mode, _ := pipeline.ParseMode(opts.Mode)
	req := pipeline.Request{
		Lat:        opts.Lat,
		Lon:        opts.Lon,
		Mode:       mode,
		Restore:    opts.Restore,
		Unfiltered: opts.NoFilter,
	}

	bundle, err := gen.Generate(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal bundle")
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output file")
		}
		log.Info().
			Str("path", opts.Output).
			Int("polygons", len(bundle.Polygons)).
			Float64("region_size", bundle.RegionSize).
			Msg("Bundle written")
	} else {
		fmt.Println(string(data))
	}
}
