package ecs

import (
	"os"

	"gopkg.in/yaml.v3"
)

// WorldConfig carries World initialization parameters: capacity hints
// forwarded to the registry/stores' backing slices and maps, an injected
// Logger, and the initial manager capability set. Thread-pool, GC, and
// profiling knobs belong to whatever engine embeds this package, not to
// this single-threaded core, so they have no place here.
type WorldConfig struct {
	// InitialEntityCapacity hints the entity registry's backing map size.
	InitialEntityCapacity int `yaml:"initial_entity_capacity"`
	// InitialComponentCapacity hints each per-type component store's
	// backing slice size.
	InitialComponentCapacity int `yaml:"initial_component_capacity"`
	// DefaultTickGroupMask is the mask World.TickAll passes to Tick on the
	// caller's behalf, for callers that don't need per-call tick-group
	// control.
	DefaultTickGroupMask TickGroupMask `yaml:"-"`
	// Logger receives ModifyQueue command failures and system OnTick
	// failures. Defaults to a no-op logger when left nil.
	Logger Logger `yaml:"-"`
	// Managers seeds the World's capability registry at Startup, keyed by
	// the concrete type of each value (see GetManager).
	Managers []any `yaml:"-"`
}

// DefaultWorldConfig returns sane defaults: small initial capacities, a
// no-op logger, and an empty manager set.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		InitialEntityCapacity:     256,
		InitialComponentCapacity:  256,
		DefaultTickGroupMask:      TickGroupAll,
		Logger:                    noopLogger{},
	}
}

// worldConfigFile is the subset of WorldConfig that is meaningfully
// expressed as YAML: capacities and a default tick-group mask. Logger and
// Managers are runtime capabilities, not data, and are never serialized.
type worldConfigFile struct {
	InitialEntityCapacity    int    `yaml:"initial_entity_capacity"`
	InitialComponentCapacity int    `yaml:"initial_component_capacity"`
	DefaultTickGroupMask     uint64 `yaml:"default_tick_group_mask"`
}

// LoadWorldConfigYAML reads capacity hints and the default tick-group mask
// from a YAML file, starting from DefaultWorldConfig() for any field the
// file omits. This is a configuration loader, not a save/load or network
// wire format, and is the one narrow exception to SPEC_FULL.md §6's "no
// persisted state layout" — see DESIGN.md.
func LoadWorldConfigYAML(path string) (WorldConfig, *ECSError) {
	cfg := DefaultWorldConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, newError(CodeInvalidConfig, "failed to read world config file").WithDetails(err.Error())
	}

	var file worldConfigFile
	file.DefaultTickGroupMask = uint64(cfg.DefaultTickGroupMask)
	file.InitialEntityCapacity = cfg.InitialEntityCapacity
	file.InitialComponentCapacity = cfg.InitialComponentCapacity

	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, newError(CodeInvalidConfig, "failed to parse world config file").WithDetails(err.Error())
	}

	cfg.InitialEntityCapacity = file.InitialEntityCapacity
	cfg.InitialComponentCapacity = file.InitialComponentCapacity
	cfg.DefaultTickGroupMask = TickGroupMask(file.DefaultTickGroupMask)
	return cfg, nil
}
