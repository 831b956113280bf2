// File: lmbridge.go

// Package lmbridge connects an analysis host to locally hosted LLM
// inference servers. It wraps the providers package with a registry that
// already holds the built-in providers.
//
// Basic usage:
//
//	registry := lmbridge.NewRegistry(nil)
//	provider, err := registry.NewFromMap("lmstudio", map[string]string{
//	    "server_url": "http://localhost:1234",
//	    "model":      "qwen2-7b-instruct",
//	})
//	if err != nil {
//	    return err
//	}
//	resp, err := provider.Generate(ctx, "Summarize these events", nil)
package lmbridge

import (
	"github.com/teilomillet/lmbridge/config"
	"github.com/teilomillet/lmbridge/logging"
	"github.com/teilomillet/lmbridge/providers"
)

// Re-exported types so callers need only this package for common use.
type (
	Provider  = providers.Provider
	Registry  = providers.Registry
	Response  = providers.Response
	Config    = config.Config
	Logger    = logging.Logger
	LogLevel  = logging.LogLevel
	ErrorType = providers.ErrorType
)

const (
	LogLevelOff   = logging.LogLevelOff
	LogLevelError = logging.LogLevelError
	LogLevelWarn  = logging.LogLevelWarn
	LogLevelInfo  = logging.LogLevelInfo
	LogLevelDebug = logging.LogLevelDebug
)

// NewRegistry returns a registry with every built-in provider registered.
// Registration is best effort: failures are logged to logger, never returned.
func NewRegistry(logger Logger) *Registry {
	registry := providers.NewRegistry()
	providers.RegisterBuiltins(registry, logger)
	return registry
}

// NewLMStudio builds an LM Studio provider from a settings mapping with
// keys server_url, model, api_key and optionally timeout.
func NewLMStudio(settings map[string]string, opts ...providers.Option) (Provider, error) {
	cfg, err := config.FromMap(settings)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorTypeConfiguration, providers.LMStudioName, "invalid configuration", err)
	}
	return providers.NewLMStudioProvider(cfg, opts...)
}
