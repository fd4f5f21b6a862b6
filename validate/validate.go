// Package validate checks board preset files before they are served. For
// each file it checks:
//   - the file parses as JSON or YAML and names the preset
//   - every layout rune is a point (#), locked point (L) or empty (. or space)
//   - the layout builds, with every listed part known and fitting its cells
//   - all points form a single 4-connected piece
//   - the board round-trips through its text form unchanged
package validate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/wricardo/pcb-editor/game/config"
	"github.com/wricardo/pcb-editor/game/pcb"
	"github.com/wricardo/pcb-editor/game/pcbfile"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// File loads and validates a single preset file
func File(path string, registry *pcb.Registry) ValidationResult {
	if registry == nil {
		registry = pcb.DefaultRegistry()
	}
	result := ValidationResult{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	preset, err := config.DecodePreset(path, data)
	if err != nil {
		result.fail("Invalid preset: %v", err)
		return result
	}

	Preset(preset, registry, &result)
	return result
}

// Preset runs the layout, part, connectivity and round-trip checks on a
// decoded preset, recording findings in result
func Preset(preset *config.Preset, registry *pcb.Registry, result *ValidationResult) {
	if preset.Name == "" {
		result.fail("Preset name is required")
	}
	if len(preset.Layout) == 0 {
		result.fail("Layout is empty")
		return
	}
	if preset.CellSize < 0 {
		result.fail("Cell size must not be negative: %g", preset.CellSize)
	}
	if preset.UndoCapacity < 0 {
		result.fail("Undo capacity must not be negative: %d", preset.UndoCapacity)
	}

	for y, row := range preset.Layout {
		for x, r := range []rune(row) {
			switch r {
			case pcb.LayoutPoint, pcb.LayoutLocked, pcb.LayoutEmpty, ' ':
			default:
				result.fail("Invalid character '%c' at position [%d,%d]", r, x, y)
			}
		}
	}
	if !result.Valid {
		return
	}

	board, err := preset.Build(registry)
	if err != nil {
		result.fail("Build failed: %v", err)
		return
	}
	result.info("Board: %dx%d, %d points, %d parts", board.Width(), board.Height(), board.PointCount(), len(board.Fixtures()))

	groups := pcb.Partition(board.Grid(), nil)
	if len(groups) != 1 {
		sizes := make([]string, len(groups))
		for i, g := range groups {
			sizes[i] = fmt.Sprintf("%d", g.Size())
		}
		result.fail("Connectivity failure: layout forms %d separate pieces (sizes %s)", len(groups), strings.Join(sizes, ", "))
	} else {
		result.info("Connectivity: all %d points form one piece", board.PointCount())
	}

	text, err := pcbfile.Marshal(board)
	if err != nil {
		result.fail("Encoding failed: %v", err)
		return
	}
	decoded, err := pcbfile.Unmarshal(text, registry)
	if err != nil {
		result.fail("Decoding the text form failed: %v", err)
		return
	}
	if diff := cmp.Diff(board.Layout(), decoded.Layout()); diff != "" {
		result.fail("Text form does not round-trip (-built +decoded):\n%s", diff)
		return
	}
	if decoded.Extendability != board.Extendability {
		result.fail("Text form lost extendability: %+v became %+v", board.Extendability, decoded.Extendability)
		return
	}
	result.info("Text form: %d characters", len(text))
}

// Dir validates every preset file in dir, sorted by name
func Dir(dir string, registry *pcb.Registry) ([]ValidationResult, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("error finding preset files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, File(file, registry))
	}
	return results, nil
}

// Report prints a concise report of results and returns whether every file
// was valid
func Report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			if !strings.HasPrefix(err, "✓") {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All presets are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some presets have errors")
	}
	return allValid
}
