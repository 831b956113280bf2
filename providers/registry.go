package providers

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/teilomillet/lmbridge/config"
	"github.com/teilomillet/lmbridge/logging"
)

// Registry maps provider names to constructors. The host application owns
// it and passes it to whatever needs provider lookup; there is no
// package-level instance.
type Registry struct {
	providers map[string]ProviderConstructor
	mutex     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]ProviderConstructor),
	}
}

// Register adds a constructor under name. Registering an existing name
// replaces the previous constructor.
func (r *Registry) Register(name string, constructor ProviderConstructor) error {
	if r == nil {
		return ErrNilRegistry
	}
	if name == "" {
		return errors.New("provider name cannot be empty")
	}
	if constructor == nil {
		return fmt.Errorf("provider %s: constructor cannot be nil", name)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.providers == nil {
		r.providers = make(map[string]ProviderConstructor)
	}
	r.providers[name] = constructor
	return nil
}

// Unregister removes name. Removing an unknown name is a no-op.
func (r *Registry) Unregister(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.providers, name)
}

// Reset removes every registered provider.
func (r *Registry) Reset() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.providers = make(map[string]ProviderConstructor)
}

// Get returns the constructor registered under name.
func (r *Registry) Get(name string) (ProviderConstructor, error) {
	r.mutex.RLock()
	constructor, exists := r.providers[name]
	r.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return constructor, nil
}

// New looks up name and constructs a provider from cfg.
func (r *Registry) New(name string, cfg *config.Config, opts ...Option) (Provider, error) {
	constructor, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return constructor(cfg, opts...)
}

// NewFromMap constructs a provider from a settings mapping such as
// {"server_url": ..., "model": ..., "api_key": ...}.
func (r *Registry) NewFromMap(name string, settings map[string]string, opts ...Option) (Provider, error) {
	cfg, err := config.FromMap(settings)
	if err != nil {
		return nil, NewProviderError(ErrorTypeConfiguration, name, "invalid configuration", err)
	}
	return r.New(name, cfg, opts...)
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// RegisterBestEffort registers constructor and never fails. Errors and
// panics are logged at warn level and discarded so that one provider
// cannot stop the host from starting.
func RegisterBestEffort(r *Registry, name string, constructor ProviderConstructor, logger logging.Logger) {
	if logger == nil {
		logger = logging.NewLogger(logging.LogLevelWarn)
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("Provider registration panicked", "provider", name, "panic", rec)
		}
	}()

	if err := r.Register(name, constructor); err != nil {
		logger.Warn("Provider registration failed", "provider", name, "error", err)
	}
}

// RegisterBuiltins registers every provider shipped with this module.
func RegisterBuiltins(r *Registry, logger logging.Logger) {
	RegisterBestEffort(r, LMStudioName, NewLMStudioProvider, logger)
}
