package config

import (
	"fmt"

	"github.com/wricardo/pcb-editor/game/pcb"
)

// Preset describes a starting board
type Preset struct {
	Name          string             `json:"name" yaml:"name"`
	Description   string             `json:"description" yaml:"description"`
	Layout        []string           `json:"layout" yaml:"layout"`
	Extendability *pcb.Extendability `json:"extendability,omitempty" yaml:"extendability,omitempty"`
	CellSize      float64            `json:"cell_size,omitempty" yaml:"cell_size,omitempty"`
	UndoCapacity  int                `json:"undo_capacity,omitempty" yaml:"undo_capacity,omitempty"`
	Parts         []PresetPart       `json:"parts,omitempty" yaml:"parts,omitempty"`
}

// PresetPart is a part placed on the board when a preset is built
type PresetPart struct {
	Name          string `json:"name" yaml:"name"`
	Configuration int    `json:"configuration" yaml:"configuration"`
	X             int    `json:"x" yaml:"x"`
	Y             int    `json:"y" yaml:"y"`
}

// PresetInfo is the listing entry of a preset
type PresetInfo struct {
	Filename    string `json:"filename"`
	PresetID    string `json:"preset_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Points      int    `json:"points"`
	Parts       int    `json:"parts"`
}

// Build creates the board described by the preset. Layout coordinates are
// taken after packing.
func (p *Preset) Build(registry *pcb.Registry) (*pcb.Board, error) {
	board, err := pcb.BoardFromLayout(p.Layout)
	if err != nil {
		return nil, err
	}
	if p.Extendability != nil {
		board.Extendability = *p.Extendability
	}

	for i, pp := range p.Parts {
		def, err := registry.ByName(pp.Name)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		part, err := pcb.NewPart(def, pp.Configuration)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		if _, err := board.Place(part, pp.X, pp.Y); err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
	}

	return board, nil
}

// ValidatePreset checks that a preset builds into a single connected board
func ValidatePreset(p *Preset, registry *pcb.Registry) error {
	if p.Name == "" {
		return fmt.Errorf("preset name is required")
	}
	if len(p.Layout) == 0 {
		return fmt.Errorf("preset layout is empty")
	}
	if p.CellSize < 0 {
		return fmt.Errorf("cell size must not be negative")
	}
	if p.UndoCapacity < 0 {
		return fmt.Errorf("undo capacity must not be negative")
	}

	board, err := p.Build(registry)
	if err != nil {
		return err
	}
	if groups := pcb.Partition(board.Grid(), nil); len(groups) != 1 {
		return fmt.Errorf("layout forms %d separate pieces", len(groups))
	}
	return nil
}
