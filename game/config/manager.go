package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/pcb-editor/game/pcb"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

// DefaultPreset is the preset used when a session does not name one
const DefaultPreset = "default"

// extensions lists the accepted preset file extensions in lookup order
var extensions = []string{".json", ".yaml", ".yml"}

// Manager handles board preset loading and caching
type Manager struct {
	presetDir     string
	registry      *pcb.Registry
	defaultPreset *Preset
	presets       map[string]*Preset
	logger        *zap.Logger
	mu            sync.RWMutex
}

// NewManager creates a new preset manager
func NewManager(presetDir string, registry *pcb.Registry, logger *zap.Logger) (*Manager, error) {
	if _, err := os.Stat(presetDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("preset directory does not exist: %s", presetDir)
	}
	if registry == nil {
		registry = pcb.DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		presetDir: presetDir,
		registry:  registry,
		presets:   make(map[string]*Preset),
		logger:    logger,
	}

	if err := m.loadDefaultPreset(); err != nil {
		return nil, fmt.Errorf("failed to load default preset: %w", err)
	}

	return m, nil
}

// Registry returns the parts presets are validated against
func (m *Manager) Registry() *pcb.Registry {
	return m.registry
}

// presetID strips a known extension from a file or preset name
func presetID(name string) string {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// DecodePreset parses a preset file, choosing JSON or YAML by the file
// extension. It does not validate the result.
func DecodePreset(filename string, data []byte) (*Preset, error) {
	var preset Preset
	var err error
	switch filepath.Ext(filename) {
	case ".json":
		err = json.Unmarshal(data, &preset)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &preset)
	default:
		return nil, fmt.Errorf("unsupported preset file type: %s", filepath.Base(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", filepath.Base(filename), err)
	}
	return &preset, nil
}

// LoadPreset loads a preset by name, with or without its extension
func (m *Manager) LoadPreset(name string) (*Preset, error) {
	id := presetID(name)

	m.mu.RLock()
	if preset, exists := m.presets[id]; exists {
		m.mu.RUnlock()
		return preset, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if preset, exists := m.presets[id]; exists {
		return preset, nil
	}

	preset, err := m.readPreset(id)
	if err != nil {
		return nil, err
	}

	m.presets[id] = preset
	return preset, nil
}

func (m *Manager) readPreset(id string) (*Preset, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, ErrPresetNotFound
	}

	for _, ext := range extensions {
		path := filepath.Join(m.presetDir, id+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read preset file: %w", err)
		}

		preset, err := DecodePreset(path, data)
		if err != nil {
			return nil, err
		}

		if err := ValidatePreset(preset, m.registry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
		}
		return preset, nil
	}

	return nil, ErrPresetNotFound
}

// ListPresets returns information about all available presets
func (m *Manager) ListPresets() ([]*PresetInfo, error) {
	entries, err := os.ReadDir(m.presetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	var presets []*PresetInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id := presetID(entry.Name())
		if id == entry.Name() || seen[id] {
			continue
		}
		seen[id] = true

		preset, err := m.LoadPreset(id)
		if err != nil {
			m.logger.Warn("skipping preset", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		info := &PresetInfo{
			Filename:    entry.Name(),
			PresetID:    id,
			Name:        preset.Name,
			Description: preset.Description,
			Parts:       len(preset.Parts),
		}
		if board, err := preset.Build(m.registry); err == nil {
			info.Width = board.Width()
			info.Height = board.Height()
			info.Points = board.PointCount()
		}
		presets = append(presets, info)
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].PresetID < presets[j].PresetID })
	return presets, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPreset
}

// SetDefault sets the default preset by name
func (m *Manager) SetDefault(name string) error {
	preset, err := m.LoadPreset(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPreset = preset
	return nil
}

// Count returns the number of cached presets
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.presets)
}

// RefreshCache drops cached presets and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.presets = make(map[string]*Preset)
	m.mu.Unlock()

	return m.loadDefaultPreset()
}

// loadDefaultPreset loads the default preset
func (m *Manager) loadDefaultPreset() error {
	preset, err := m.LoadPreset(DefaultPreset)
	if err != nil {
		// Try to load the first available preset
		presets, listErr := m.ListPresets()
		if listErr != nil || len(presets) == 0 {
			m.logger.Info("no presets found, using minimal default")
			m.setDefault(MinimalPreset())
			return nil
		}

		preset, err = m.LoadPreset(presets[0].PresetID)
		if err != nil {
			m.setDefault(MinimalPreset())
			return nil
		}
	}

	m.setDefault(preset)
	return nil
}

func (m *Manager) setDefault(p *Preset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPreset = p
}

// SavePreset validates a preset and writes it as JSON
func (m *Manager) SavePreset(name string, preset *Preset) error {
	if err := ValidatePreset(preset, m.registry); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}

	id := presetID(name)
	if id == "" || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: bad preset name %q", ErrInvalidPreset, name)
	}

	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	presetPath := filepath.Join(m.presetDir, id+".json")
	if err := os.WriteFile(presetPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	m.mu.Lock()
	m.presets[id] = preset
	m.mu.Unlock()

	return nil
}

// MinimalPreset is the 2x2 board used when no preset files exist
func MinimalPreset() *Preset {
	return &Preset{
		Name:        DefaultPreset,
		Description: "Default minimal board",
		Layout: []string{
			"##",
			"##",
		},
	}
}
