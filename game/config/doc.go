// Package config provides board preset management for the PCB editor.
//
// The config package handles:
//   - Loading board presets from JSON and YAML files
//   - Preset validation against the part registry
//   - Default preset management
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets are stored as .json, .yaml or .yml files in the presets directory.
// Each preset defines:
//   - Board layout using character mapping (#=point, L=locked point, .=empty)
//   - Extendability per side (omit to allow growth everywhere)
//   - Cell size in metres and undo history depth
//   - Parts placed on the board at creation
//
// A preset must describe a single connected board. Part coordinates refer to
// the layout after empty border rows and columns are stripped.
//
// Usage:
//
//	manager, err := config.NewManager("configs", pcb.DefaultRegistry(), logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific preset
//	preset, err := manager.LoadPreset("workbench")
//	if err != nil {
//		log.Fatal(err)
//	}
//	board, err := preset.Build(manager.Registry())
//
//	// List available presets
//	presets, err := manager.ListPresets()
package config
