// Package main provides a command-line interface for sending a prompt to a
// registered provider.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teilomillet/lmbridge/config"
	"github.com/teilomillet/lmbridge/logging"
	"github.com/teilomillet/lmbridge/metrics"
	"github.com/teilomillet/lmbridge/providers"
)

// cmdFlags holds all command-line flags
type cmdFlags struct {
	provider    string
	configPath  string
	envFile     string
	serverURL   string
	model       string
	apiKey      string
	timeout     time.Duration
	logLevel    string
	logFormat   string
	metricsFile string
	jsonOutput  bool
}

// parseFlags parses command-line flags
func parseFlags(args []string, stderr io.Writer) (*cmdFlags, []string, error) {
	flags := &cmdFlags{}
	fset := flag.NewFlagSet("lmbridge", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&flags.provider, "provider", providers.LMStudioName, "Provider name")
	fset.StringVar(&flags.configPath, "config", "", "YAML configuration file")
	fset.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	fset.StringVar(&flags.serverURL, "server-url", "", "Inference server base URL")
	fset.StringVar(&flags.model, "model", "", "Model identifier")
	fset.StringVar(&flags.apiKey, "api-key", "", "Bearer token for the inference server")
	fset.DurationVar(&flags.timeout, "timeout", 0, "Request timeout")
	fset.StringVar(&flags.logLevel, "log-level", "", "Log level (off, error, warn, info, debug)")
	fset.StringVar(&flags.logFormat, "log-format", "text", "Log format (text, json)")
	fset.StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the call")
	fset.BoolVar(&flags.jsonOutput, "json", false, "Request a structured JSON response and pretty-print it")
	fset.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: lmbridge [flags] <prompt>\n")
		fset.PrintDefaults()
	}
	if err := fset.Parse(args); err != nil {
		return nil, nil, err
	}
	return flags, fset.Args(), nil
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	logger := newLogger(flags.logFormat, cfg.LogLevel, stderr)
	if zl, ok := logger.(*logging.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	prompt, err := getPrompt(rest, stdin)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error reading prompt: %v\n", err)
		return 1
	}

	opts := []providers.Option{providers.WithLogger(logger)}
	var reg *prometheus.Registry
	if flags.metricsFile != "" {
		reg = prometheus.NewRegistry()
		collector, err := metrics.NewCollector(reg)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error creating metrics: %v\n", err)
			return 1
		}
		opts = append(opts, providers.WithMetrics(collector))
	}

	registry := providers.NewRegistry()
	providers.RegisterBuiltins(registry, logger)

	provider, err := registry.New(flags.provider, cfg, opts...)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error creating provider: %v\n", err)
		return 1
	}

	code := processPrompt(ctx, provider, prompt, flags.jsonOutput, stdout, stderr)

	if reg != nil {
		if err := prometheus.WriteToTextfile(flags.metricsFile, reg); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error writing metrics: %v\n", err)
			return 1
		}
	}
	return code
}

// loadConfig layers defaults, environment, the optional YAML file and flags.
func loadConfig(flags *cmdFlags) (*config.Config, error) {
	if flags.envFile != "" {
		if err := godotenv.Load(flags.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", flags.envFile, err)
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if flags.configPath != "" {
		if err := cfg.MergeFile(flags.configPath); err != nil {
			return nil, err
		}
	}

	config.ApplyOptions(cfg, prepareConfigOptions(flags)...)

	if flags.logLevel != "" {
		level, err := logging.ParseLevel(flags.logLevel)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func prepareConfigOptions(flags *cmdFlags) []config.ConfigOption {
	var configOpts []config.ConfigOption
	if flags.serverURL != "" {
		configOpts = append(configOpts, config.SetServerURL(flags.serverURL))
	}
	if flags.model != "" {
		configOpts = append(configOpts, config.SetModel(flags.model))
	}
	if flags.apiKey != "" {
		configOpts = append(configOpts, config.SetAPIKey(flags.apiKey))
	}
	if flags.timeout != 0 {
		configOpts = append(configOpts, config.SetTimeout(flags.timeout))
	}
	return configOpts
}

func newLogger(format string, level logging.LogLevel, w io.Writer) logging.Logger {
	if format != "json" {
		return logging.NewLoggerTo(w, level)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return logging.NewZapLogger(zap.New(core), level)
}

// getPrompt joins the positional arguments, or reads stdin when there are none.
func getPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", errors.New("no prompt given")
	}
	return prompt, nil
}

func processPrompt(ctx context.Context, provider providers.Provider, prompt string, jsonOutput bool, stdout, stderr io.Writer) int {
	var schema = providers.AnySchema()
	if !jsonOutput {
		schema = nil
	}

	resp, err := provider.Generate(ctx, prompt, schema)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error generating response: %v\n", err)
		return 1
	}

	if !jsonOutput {
		_, _ = fmt.Fprintln(stdout, resp.String())
		return 0
	}

	jsonPretty, err := json.MarshalIndent(resp.Value(), "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: Failed to format JSON: %v\n", err)
		jsonPretty = []byte(resp.String())
	}
	_, _ = fmt.Fprintln(stdout, string(jsonPretty))
	return 0
}
