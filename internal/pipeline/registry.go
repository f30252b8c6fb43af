package pipeline

import (
	"sort"

	"github.com/san-kum/detsim/internal/config"
	"github.com/san-kum/detsim/internal/detector"
	"github.com/san-kum/detsim/internal/resolution"
)

// Registry resolves detector names to resolution models. Built-in presets
// are always present; a configuration may add or shadow entries.
type Registry struct {
	models map[string]func() (resolution.Model, error)
}

func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{models: make(map[string]func() (resolution.Model, error))}

	for name := range resolution.Presets {
		r.models[name] = func() (resolution.Model, error) { return resolution.GetPreset(name) }
	}
	if cfg != nil {
		for name := range cfg.Detectors {
			r.models[name] = func() (resolution.Model, error) { return cfg.Model(name) }
		}
	}
	return r
}

func (r *Registry) Get(name string) (resolution.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return resolution.Model{}, detector.ConfigError("registry", "unknown detector %q", name)
	}
	return fn()
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
