package pcb

import (
	"errors"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	defs := r.List()
	if len(defs) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(defs))
	}
	for i, def := range defs {
		if int(def.ID) != i {
			t.Errorf("part %s has id %d at index %d", def.Name, def.ID, i)
		}
		byID, err := r.ByID(def.ID)
		if err != nil || byID != def {
			t.Errorf("ByID(%d) = %v, %v", def.ID, byID, err)
		}
	}

	if _, err := r.ByID(200); !errors.Is(err, ErrUnknownPart) {
		t.Errorf("got %v, want ErrUnknownPart", err)
	}
	if _, err := r.ByName("relay"); !errors.Is(err, ErrUnknownPart) {
		t.Errorf("got %v, want ErrUnknownPart", err)
	}
}

func TestPartDefinitionValidate(t *testing.T) {
	tests := []struct {
		name string
		def  PartDefinition
	}{
		{"no name", PartDefinition{Configurations: []PartConfiguration{{Footprint: []Offset{{0, 0}}}}}},
		{"no configurations", PartDefinition{Name: "x"}},
		{"empty footprint", PartDefinition{Name: "x", Configurations: []PartConfiguration{{}}}},
		{"anchor not first", PartDefinition{Name: "x", Configurations: []PartConfiguration{{Footprint: []Offset{{1, 0}, {0, 1}}}}}},
		{"repeated cell", PartDefinition{Name: "x", Configurations: []PartConfiguration{{Footprint: []Offset{{0, 0}, {0, 0}}}}}},
		{"pin off footprint", PartDefinition{Name: "x", Configurations: []PartConfiguration{{Footprint: []Offset{{0, 0}}, Pins: []Offset{{1, 0}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.def.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Validate() = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	def := PartDefinition{ID: 7, Name: "probe", Configurations: []PartConfiguration{{Footprint: []Offset{{0, 0}}}}}
	other := def
	other.Name = "other"

	if _, err := NewRegistry(def, other); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestNewPart(t *testing.T) {
	def := mustDefinition(t, "altimeter")
	if _, err := NewPart(def, 2); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("got %v, want ErrInvalidConfiguration", err)
	}
	part, err := NewPart(def, 1)
	if err != nil {
		t.Fatalf("NewPart failed: %v", err)
	}
	if len(part.Configuration().Footprint) != 3 {
		t.Errorf("unexpected footprint %v", part.Configuration().Footprint)
	}
}
