// Command analyze prints quick, human-readable heuristics about the board
// presets in the project's configs directory. It summarizes dimensions,
// point, lock and part counts, how much room each board has to grow, and
// how well the board file format compresses it.
package main

import (
	"fmt"
	"os"

	"github.com/wricardo/pcb-editor/game/config"
	"github.com/wricardo/pcb-editor/game/pcb"
	"github.com/wricardo/pcb-editor/game/pcbfile"
)

// PresetAnalysis holds the figures printed for one preset
type PresetAnalysis struct {
	Name        string
	Width       int
	Height      int
	Points      int
	Locked      int
	Parts       int
	Frontier    int // empty cells a drag could extend into
	RawBytes    int
	PackedBytes int
	TextChars   int
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	manager, err := config.NewManager(dir, nil, nil)
	if err != nil {
		fmt.Printf("Error opening presets: %v\n", err)
		os.Exit(1)
	}

	infos, err := manager.ListPresets()
	if err != nil {
		fmt.Printf("Error listing presets: %v\n", err)
		os.Exit(1)
	}

	for _, info := range infos {
		fmt.Printf("\n=== Analyzing %s ===\n", info.Filename)
		preset, err := manager.LoadPreset(info.PresetID)
		if err != nil {
			fmt.Printf("Error loading preset: %v\n", err)
			continue
		}
		analysis, err := analyzePreset(preset, manager.Registry())
		if err != nil {
			fmt.Printf("Error analyzing preset: %v\n", err)
			continue
		}
		printAnalysis(analysis)
	}
}

func analyzePreset(preset *config.Preset, registry *pcb.Registry) (*PresetAnalysis, error) {
	board, err := preset.Build(registry)
	if err != nil {
		return nil, err
	}

	a := &PresetAnalysis{
		Name:   preset.Name,
		Width:  board.Width(),
		Height: board.Height(),
		Points: board.PointCount(),
		Parts:  len(board.Fixtures()),
	}

	for y := -1; y <= board.Height(); y++ {
		for x := -1; x <= board.Width(); x++ {
			if point := board.Get(x, y); point != nil {
				if point.Locked {
					a.Locked++
				}
				continue
			}
			if board.IsExtendable(x, y) {
				a.Frontier++
			}
		}
	}

	raw, err := pcbfile.Encode(board)
	if err != nil {
		return nil, err
	}
	packed, err := pcbfile.Compress(raw)
	if err != nil {
		return nil, err
	}
	text, err := pcbfile.Marshal(board)
	if err != nil {
		return nil, err
	}
	a.RawBytes, a.PackedBytes, a.TextChars = len(raw), len(packed), len(text)

	return a, nil
}

func printAnalysis(a *PresetAnalysis) {
	fmt.Printf("Name: %s\n", a.Name)
	fmt.Printf("Board Size: %d x %d\n", a.Width, a.Height)
	fmt.Printf("Points: %d (%d locked)\n", a.Points, a.Locked)
	fmt.Printf("Parts: %d\n", a.Parts)
	fmt.Printf("Encoded: %d bytes raw, %d bytes compressed, %d characters as text\n",
		a.RawBytes, a.PackedBytes, a.TextChars)

	if a.Frontier == 0 {
		fmt.Printf("⚠️  WARNING: the board cannot grow in any direction\n")
	} else {
		fmt.Printf("✅ %d empty cells are open to extension\n", a.Frontier)
	}

	if a.PackedBytes > a.RawBytes {
		fmt.Printf("⚠️  Compression adds %d bytes on a board this small\n", a.PackedBytes-a.RawBytes)
	}
	if a.Points > 0 && a.Locked == a.Points {
		fmt.Printf("⚠️  CRITICAL: every point is locked, nothing can be erased\n")
	}
}
