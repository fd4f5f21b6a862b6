package pcb

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownPart          = errors.New("unknown part")
	ErrInvalidConfiguration = errors.New("invalid part configuration")
	ErrDoesNotFit           = errors.New("part does not fit")
	ErrNoPart               = errors.New("no part at location")
)

// Offset is a cell position relative to a part's anchor
type Offset struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// PartConfiguration is one orientation of a part.
// The first footprint cell in raster order must be the anchor (0, 0).
type PartConfiguration struct {
	Footprint []Offset `json:"footprint"`
	Pins      []Offset `json:"pins"`
}

// PartDefinition describes a kind of part that can be placed on a board
type PartDefinition struct {
	ID             uint8               `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Configurations []PartConfiguration `json:"configurations"`
}

// Configuration returns the configuration at index i
func (d *PartDefinition) Configuration(i int) (*PartConfiguration, error) {
	if i < 0 || i >= len(d.Configurations) {
		return nil, fmt.Errorf("%w: %s has no configuration %d", ErrInvalidConfiguration, d.Name, i)
	}
	return &d.Configurations[i], nil
}

// Validate checks that every configuration is anchored and that pins lie on
// the footprint.
func (d *PartDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: part %d has no name", ErrInvalidConfiguration, d.ID)
	}
	if len(d.Configurations) == 0 {
		return fmt.Errorf("%w: %s has no configurations", ErrInvalidConfiguration, d.Name)
	}
	for i, cfg := range d.Configurations {
		if len(cfg.Footprint) == 0 {
			return fmt.Errorf("%w: %s configuration %d has an empty footprint", ErrInvalidConfiguration, d.Name, i)
		}
		if anchor := rasterFirst(cfg.Footprint); anchor != (Offset{}) {
			return fmt.Errorf("%w: %s configuration %d is anchored at %v, not (0,0)", ErrInvalidConfiguration, d.Name, i, anchor)
		}
		cells := make(map[Offset]bool, len(cfg.Footprint))
		for _, o := range cfg.Footprint {
			if cells[o] {
				return fmt.Errorf("%w: %s configuration %d repeats cell %v", ErrInvalidConfiguration, d.Name, i, o)
			}
			cells[o] = true
		}
		for _, pin := range cfg.Pins {
			if !cells[pin] {
				return fmt.Errorf("%w: %s configuration %d has pin %v off its footprint", ErrInvalidConfiguration, d.Name, i, pin)
			}
		}
	}
	return nil
}

func rasterFirst(offsets []Offset) Offset {
	first := offsets[0]
	for _, o := range offsets[1:] {
		if o.Y < first.Y || (o.Y == first.Y && o.X < first.X) {
			first = o
		}
	}
	return first
}

// Part is an instance of a part definition in a chosen configuration
type Part struct {
	Definition         *PartDefinition
	ConfigurationIndex int
}

// NewPart creates a part instance after checking the configuration index
func NewPart(def *PartDefinition, configuration int) (*Part, error) {
	if _, err := def.Configuration(configuration); err != nil {
		return nil, err
	}
	return &Part{Definition: def, ConfigurationIndex: configuration}, nil
}

// Configuration returns the active configuration of the part
func (p *Part) Configuration() *PartConfiguration {
	return &p.Definition.Configurations[p.ConfigurationIndex]
}

// Fixture is a part placed on a board with its anchor at (X, Y)
type Fixture struct {
	Part *Part `json:"-"`
	X    int   `json:"x"`
	Y    int   `json:"y"`
}

// Cells returns the board coordinates covered by the fixture
func (f *Fixture) Cells() []Coord {
	footprint := f.Part.Configuration().Footprint
	cells := make([]Coord, len(footprint))
	for i, o := range footprint {
		cells[i] = Coord{X: f.X + o.X, Y: f.Y + o.Y}
	}
	return cells
}

// Pins returns the board coordinates of the fixture's pins
func (f *Fixture) Pins() []Coord {
	pins := f.Part.Configuration().Pins
	cells := make([]Coord, len(pins))
	for i, o := range pins {
		cells[i] = Coord{X: f.X + o.X, Y: f.Y + o.Y}
	}
	return cells
}

// Registry holds the part definitions known to the engine
type Registry struct {
	byID   map[uint8]*PartDefinition
	byName map[string]*PartDefinition
}

// NewRegistry creates a registry from definitions, rejecting duplicates and
// invalid configurations.
func NewRegistry(defs ...PartDefinition) (*Registry, error) {
	r := &Registry{
		byID:   make(map[uint8]*PartDefinition),
		byName: make(map[string]*PartDefinition),
	}
	for i := range defs {
		def := defs[i]
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.byID[def.ID]; exists {
			return nil, fmt.Errorf("duplicate part id %d", def.ID)
		}
		if _, exists := r.byName[def.Name]; exists {
			return nil, fmt.Errorf("duplicate part name %q", def.Name)
		}
		r.byID[def.ID] = &def
		r.byName[def.Name] = &def
	}
	return r, nil
}

// ByID looks up a definition by its wire identifier
func (r *Registry) ByID(id uint8) (*PartDefinition, error) {
	def, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownPart, id)
	}
	return def, nil
}

// ByName looks up a definition by name
func (r *Registry) ByName(name string) (*PartDefinition, error) {
	def, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPart, name)
	}
	return def, nil
}

// List returns all definitions ordered by id
func (r *Registry) List() []*PartDefinition {
	defs := make([]*PartDefinition, 0, len(r.byID))
	for _, def := range r.byID {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// DefaultRegistry returns the built-in parts
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		PartDefinition{
			ID:          0,
			Name:        "led",
			Description: "Light that turns on while its pin is powered",
			Configurations: []PartConfiguration{
				{Footprint: []Offset{{0, 0}, {1, 0}}, Pins: []Offset{{0, 0}}},
				{Footprint: []Offset{{0, 0}, {0, 1}}, Pins: []Offset{{0, 1}}},
				{Footprint: []Offset{{0, 0}, {1, 0}}, Pins: []Offset{{1, 0}}},
				{Footprint: []Offset{{0, 0}, {0, 1}}, Pins: []Offset{{0, 0}}},
			},
		},
		PartDefinition{
			ID:          1,
			Name:        "meter",
			Description: "Displays the level on its input pin",
			Configurations: []PartConfiguration{
				{Footprint: []Offset{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, Pins: []Offset{{0, 1}, {1, 1}}},
				{Footprint: []Offset{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, Pins: []Offset{{0, 0}, {1, 0}}},
			},
		},
		PartDefinition{
			ID:          2,
			Name:        "altimeter",
			Description: "Outputs the height of the board",
			Configurations: []PartConfiguration{
				{Footprint: []Offset{{0, 0}, {1, 0}, {2, 0}}, Pins: []Offset{{0, 0}, {2, 0}}},
				{Footprint: []Offset{{0, 0}, {0, 1}, {0, 2}}, Pins: []Offset{{0, 0}, {0, 2}}},
			},
		},
		PartDefinition{
			ID:          3,
			Name:        "button",
			Description: "Powers its pin while pressed",
			Configurations: []PartConfiguration{
				{Footprint: []Offset{{0, 0}}, Pins: []Offset{{0, 0}}},
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}
