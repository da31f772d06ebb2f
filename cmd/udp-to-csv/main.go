package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/piethoff/udp-to-csv/internal/capture"
	"github.com/piethoff/udp-to-csv/internal/config"
	"github.com/piethoff/udp-to-csv/internal/metrics"
	"github.com/piethoff/udp-to-csv/internal/pipeline"
	"github.com/piethoff/udp-to-csv/internal/queue"
	"github.com/piethoff/udp-to-csv/internal/server"
	"github.com/piethoff/udp-to-csv/internal/sink"
)

const (
	serviceName    = "udp-to-csv"
	serviceVersion = "1.1.0"
)

var (
	rootCmd = &cobra.Command{
		Use:          "udp-to-csv",
		Short:        "Capture UDP telemetry and decode it to CSV",
		Long:         "udp-to-csv listens on a UDP socket, decodes each datagram as a sequence of fixed-width typed values and writes the values as comma-separated text to stdout or an append-only file.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	configPath string
	bindAddr   string
	port       int
	dataType   string
	outputPath string
)

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "path to YAML configuration file")
	f.StringVarP(&bindAddr, "bind", "b", "", "address of local interface")
	f.IntVarP(&port, "port", "p", 0, "local port")
	f.StringVarP(&dataType, "data-type", "d", "", "data type of values (bool, u8, i8, u16, i16)")
	f.StringVarP(&outputPath, "output", "o", "", "csv file to write, if not given print to stdout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := initLogger(cfg.Logging)

	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
	)
	logger.Info("Configuration loaded",
		slog.String("bind_address", cfg.Server.BindAddress),
		slog.Int("port", cfg.Server.Port),
		slog.Int("buffer_size", cfg.Server.BufferSize),
		slog.String("data_type", cfg.Decode.ElementType().String()),
		slog.String("output", outputDescription(cfg.Output.Path)),
		slog.Int("flush_threshold", cfg.Output.FlushThreshold),
		slog.Bool("metrics_enabled", cfg.Metrics.Enabled),
	)

	appMetrics := metrics.New()

	q := queue.New()
	writer := sink.New(cfg.Output.Path, cfg.Output.FlushThreshold, os.Stdout, logger, appMetrics)
	consumer := pipeline.New(cfg.Decode.ElementType(), q, writer, logger, appMetrics)

	listener, err := capture.Listen(cfg.Server, q, logger, appMetrics)
	if err != nil {
		logger.Error("Could not bind to provided address",
			slog.String("bind_address", cfg.Server.BindAddress),
			slog.Int("port", cfg.Server.Port),
			slog.String("error", err.Error()),
		)
		logLocalInterfaces(logger)
		return err
	}

	consumer.Start()
	listener.Start()

	var httpServer *server.HTTPServer
	if cfg.Metrics.Enabled {
		httpServer = server.NewHTTPServer(cfg.Metrics, logger)
		httpServer.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Received shutdown signal", slog.String("signal", sig.String()))

	// Closing the listener closes the queue; the consumer drains it,
	// performs the final flush and exits.
	listener.Stop()
	consumer.Wait()

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping monitoring endpoint", slog.String("error", err.Error()))
		}
	}

	stats := consumer.Stats()
	logger.Info("Service stopped",
		slog.Uint64("packets_processed", stats.PacketsProcessed),
		slog.Uint64("decode_errors", stats.DecodeErrors),
	)

	return nil
}

// loadConfig builds the effective configuration: defaults, then the
// optional config file, then any flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("bind") {
		cfg.Server.BindAddress = bindAddr
	}
	if flags.Changed("port") {
		cfg.Server.Port = port
	}
	if flags.Changed("data-type") {
		cfg.Decode.DataType = dataType
	}
	if flags.Changed("output") {
		cfg.Output.Path = outputPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logLocalInterfaces emits the bind-failure diagnostic: every local
// interface with its addresses.
func logLocalInterfaces(logger *slog.Logger) {
	infos, err := capture.LocalInterfaces()
	if err != nil {
		logger.Error("Error getting network interfaces", slog.String("error", err.Error()))
		return
	}

	logger.Info("Available network interfaces")
	for _, info := range infos {
		logger.Info("Interface",
			slog.String("name", info.Name),
			slog.String("addrs", strings.Join(info.Addrs, ", ")),
		)
	}
}

func outputDescription(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

// initLogger creates the structured logger. The diagnostic stream defaults
// to stderr so it never mixes with CSV output on stdout; file output is
// rotated.
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output io.Writer
	switch cfg.Output {
	case "stderr", "":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		output = &lumberjack.Logger{
			Filename:   cfg.Output,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
