package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staticd/staticd/internal/logger"
	"github.com/staticd/staticd/internal/server"
	"github.com/staticd/staticd/pkg/config"
	"github.com/staticd/staticd/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	root := flag.String("root", "", "Directory to serve (filesystem store only)")
	address := flag.String("address", "", "Interface to bind")
	port := flag.Int("port", 0, "Port to listen on")
	threads := flag.Int("threads", 0, "Number of worker threads")
	logLevel := flag.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	quiet := flag.Bool("quiet", false, "Disable per-request access logging")
	noListDir := flag.Bool("no-list-dir", false, "Disable directory listings")
	printConfig := flag.Bool("print-config", false, "Print the effective configuration and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	applyFlags(cfg, *root, *address, *port, *threads, *logLevel, *quiet, *noListDir)

	if *printConfig {
		out, err := cfg.Dump()
		if err != nil {
			log.Fatalf("Failed to render configuration: %v", err)
		}
		fmt.Print(out)
		return
	}

	logger.SetLevel(cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	store, err := config.CreateContentStore(ctx, &cfg.Content)
	if err != nil {
		log.Fatalf("Failed to create content store: %v", err)
	}
	defer store.Close()

	logger.Info("Serving %s content from %s", cfg.Content.Type, store.Root())

	srv, err := server.New(cfg, store, metrics.NewHTTPMetrics())
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				logger.Error("Metrics server error: %v", err)
			}
		}()
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Serve(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown...")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error: %v", err)
			os.Exit(1)
		}
		shutdown(srv, cfg.Server.ShutdownTimeout)

	case err := <-serverDone:
		if err != nil {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
		shutdown(srv, cfg.Server.ShutdownTimeout)
	}
}

// applyFlags overrides loaded configuration with explicitly set CLI
// flags. Flags have the highest precedence; flag.Visit only reports
// flags the user actually passed, so defaults never clobber the file.
func applyFlags(cfg *config.Config, root, address string, port, threads int, logLevel string, quiet, noListDir bool) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			cfg.Content.Type = "filesystem"
			cfg.Content.Filesystem["root"] = root
		case "address":
			cfg.Server.Address = address
		case "port":
			cfg.Server.Port = port
		case "threads":
			cfg.Server.Threads = threads
		case "log-level":
			cfg.Logging.Level = logLevel
		case "quiet":
			cfg.Server.Verbose = !quiet
		case "no-list-dir":
			cfg.Serve.ListDir = !noListDir
		}
	})
}

// shutdown drains the worker pool, abandoning the wait after the
// configured timeout.
func shutdown(srv *server.Server, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		srv.Stop()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Server stopped gracefully")
	case <-time.After(timeout):
		logger.Warn("Shutdown timed out after %s, exiting with pending connections", timeout)
	}
}
