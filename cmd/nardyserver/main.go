// Command nardyserver runs the long nardy analysis API server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/nardy/internal/logging"
	"github.com/yourusername/nardy/pkg/ai"
	"github.com/yourusername/nardy/pkg/api"
	"github.com/yourusername/nardy/pkg/external"
)

const version = "0.1.0"

func main() {
	defaults := api.DefaultConfig()

	host := flag.String("host", defaults.Host, "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", defaults.Port, "Port to listen on")
	weightsFile := flag.String("weights", "", "YAML file overriding the AI weights")
	readTimeout := flag.Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	fastWorkers := flag.Int("fast-workers", defaults.MaxFastWorkers, "Max concurrent fast requests")
	slowWorkers := flag.Int("slow-workers", defaults.MaxSlowWorkers, "Max concurrent self-play requests")
	externalPort := flag.Int("external-port", 0, "TCP port for the external player protocol (0 = off)")
	externalLevel := flag.String("external-difficulty", "lookahead", "Default AI level for external player connections")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logJSON := flag.Bool("log-json", false, "Log JSON lines instead of console output")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("Nardy API Server v%s\n", version)
		os.Exit(0)
	}

	if err := logging.Setup(*logLevel, *logJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	weights := ai.DefaultWeights()
	if *weightsFile != "" {
		w, err := ai.LoadWeights(*weightsFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", *weightsFile).Msg("weights-load-failed")
		}
		weights = w
		log.Info().Str("path", *weightsFile).Msg("weights-loaded")
	}

	config := api.ServerConfig{
		Host:           *host,
		Port:           *port,
		ReadTimeout:    *readTimeout,
		WriteTimeout:   *writeTimeout,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: *fastWorkers,
		MaxSlowWorkers: *slowWorkers,
	}

	var ext *external.Server
	if *externalPort != 0 {
		d, err := ai.ParseDifficulty(*externalLevel)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid-external-difficulty")
		}
		ext = external.NewServer(weights, external.ServerOptions{
			Host:          *host,
			Port:          *externalPort,
			Difficulty:    d,
			PromptEnabled: true,
		})
	}

	if err := serve(api.NewServer(weights, config, version), ext); err != nil {
		log.Fatal().Err(err).Msg("server-error")
	}
}

// serve runs the HTTP server, and the external player server when given,
// until a shutdown signal arrives.
func serve(server *api.Server, ext *external.Server) error {
	if ext != nil {
		if err := ext.Start(); err != nil {
			return err
		}
		defer ext.Stop()
	}
	return server.ListenAndServeWithGracefulShutdown()
}
