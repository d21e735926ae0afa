package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/crazywalk/streetgraph/internal/cache"
	"github.com/crazywalk/streetgraph/internal/config"
	"github.com/crazywalk/streetgraph/internal/logger"
	"github.com/crazywalk/streetgraph/internal/pipeline"
	"github.com/crazywalk/streetgraph/internal/server"
	"github.com/crazywalk/streetgraph/internal/source"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		log.Info().Str("path", opts.ConfigFile).Msg("No configuration file, using defaults")
		cfg = config.Default()
	}

	gen := &pipeline.Generator{
		Source: source.New(cfg.Overpass.Endpoints, cfg.OverpassTimeout()),
		Config: cfg.Pipeline(),
	}
	if *cfg.Cache.Enabled {
		gen.Cache = cache.NewMemory()
	}

	srvCtx := server.NewServerContext(cfg, gen)

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/map", srvCtx.HandleMap)
	mux.HandleFunc("/healthz", srvCtx.HandleHealth)
	mux.HandleFunc("/", srvCtx.HandleIndex)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Strs("overpass", cfg.Overpass.Endpoints).
		Bool("cache", *cfg.Cache.Enabled).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
