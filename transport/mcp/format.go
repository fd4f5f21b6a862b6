package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/pcb-editor/game/pcb"
	"github.com/wricardo/pcb-editor/game/service"
)

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session: %s\n", session.ID)
	fmt.Fprintf(&sb, "Preset: %s\n", session.PresetID)
	fmt.Fprintf(&sb, "Created: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Operations: %d (undo: %s, redo: %s)\n",
		session.Operations, yesNo(session.CanUndo), yesNo(session.CanRedo))
	if session.Board != nil {
		sb.WriteString("\n")
		sb.WriteString(formatBoard(session.Board))
	}
	return sb.String()
}

func formatSessionList(sessions []service.SessionInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Active Sessions (%d):\n\n", len(sessions))
	for _, s := range sessions {
		size := ""
		if s.Board != nil {
			size = fmt.Sprintf(", %dx%d", s.Board.Width, s.Board.Height)
		}
		fmt.Fprintf(&sb, "- %s (Preset: %s%s, Created: %s)\n",
			s.ID, s.PresetID, size, s.CreatedAt.Format("15:04:05"))
	}
	return sb.String()
}

// formatBoard draws the rows under a column ruler and lists parts and
// connections
func formatBoard(board *service.BoardView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Board %dx%d, %d points\n", board.Width, board.Height, board.Points)
	fmt.Fprintf(&sb, "Grows: %s\n\n", formatExtendability(board.Extendability))

	sb.WriteString("    ")
	for x := 0; x < board.Width; x++ {
		sb.WriteByte(byte('0' + x%10))
	}
	sb.WriteString("\n")
	for y, row := range board.Rows {
		fmt.Fprintf(&sb, "%3d %s\n", y, row)
	}
	sb.WriteString("\nLegend: # point, L locked, P part, . empty\n")

	if len(board.Fixtures) > 0 {
		sb.WriteString("\nParts:\n")
		for _, f := range board.Fixtures {
			fmt.Fprintf(&sb, "  %s/%d at (%d,%d), pins %s\n",
				f.Part, f.Configuration, f.X, f.Y, formatCoords(f.Pins))
		}
	}

	var wired []string
	for _, cell := range board.Cells {
		if len(cell.Paths) == 0 {
			continue
		}
		wired = append(wired, fmt.Sprintf("  (%d,%d) -> %s", cell.X, cell.Y, strings.Join(cell.Paths, ",")))
	}
	if len(wired) > 0 {
		sb.WriteString("\nConnections:\n")
		sb.WriteString(strings.Join(wired, "\n"))
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatExtendability(ext pcb.Extendability) string {
	var sides []string
	for _, side := range []struct {
		name string
		ok   bool
	}{{"left", ext.Left}, {"up", ext.Up}, {"right", ext.Right}, {"down", ext.Down}} {
		if side.ok {
			sides = append(sides, side.name)
		}
	}
	if len(sides) == 0 {
		return "nowhere"
	}
	return strings.Join(sides, ", ")
}

func formatOperationResult(result *service.OperationResult) string {
	var sb strings.Builder
	if result.Applied {
		fmt.Fprintf(&sb, "✅ %s applied\n", result.Operation)
	} else {
		fmt.Fprintf(&sb, "❌ %s rejected: %s\n", result.Operation, result.Reason)
	}

	if len(result.Added) > 0 {
		fmt.Fprintf(&sb, "Added %d points: %s\n", len(result.Added), formatCoords(result.Added))
	}
	if len(result.Erased) > 0 {
		fmt.Fprintf(&sb, "Erased %d points\n", len(result.Erased))
	}
	if result.Shift != nil {
		fmt.Fprintf(&sb, "⚠️ Board renumbered: existing cells moved by (%d,%d)\n", result.Shift.X, result.Shift.Y)
	}
	if result.Fixture != nil {
		fmt.Fprintf(&sb, "Placed %s/%d at (%d,%d), pins %s\n", result.Fixture.Part,
			result.Fixture.Configuration, result.Fixture.X, result.Fixture.Y, formatCoords(result.Fixture.Pins))
	}

	if result.Board != nil {
		sb.WriteString("\n")
		sb.WriteString(formatBoard(result.Board))
	}
	return sb.String()
}

func formatReshapePreview(preview *service.ReshapePreview) string {
	var sb strings.Builder
	if preview.Mode == "" {
		fmt.Fprintf(&sb, "No reshape possible: %s\n", preview.Reason)
		return sb.String()
	}

	fmt.Fprintf(&sb, "Mode: %s\n", preview.Mode)
	if preview.Reason != "" {
		fmt.Fprintf(&sb, "Would be rejected: %s\n", preview.Reason)
	}
	fmt.Fprintf(&sb, "Cells (%d): %s\n", len(preview.Candidates), formatCoords(preview.Candidates))
	if preview.TopLeft != nil && preview.BottomRight != nil {
		fmt.Fprintf(&sb, "Resulting bounds: %s to %s\n", preview.TopLeft, preview.BottomRight)
	}
	return sb.String()
}

func formatEtchPreview(preview *service.EtchPreview) string {
	if !preview.Reachable {
		return "Unreachable: the path crosses an empty cell\n"
	}
	return fmt.Sprintf("Path of %d links: %s\n", preview.Links, formatCoords(preview.Cells))
}

func formatHistory(history *service.HistoryResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Operation History (Page %d/%d, Total: %d):\n\n",
		history.Page, history.TotalPages, history.TotalOperations)

	for _, op := range history.Operations {
		status := "✅"
		if !op.Applied {
			status = "❌"
		}
		fmt.Fprintf(&sb, "%d. %s %s", op.Seq, status, op.Operation)
		if op.Detail != "" {
			fmt.Fprintf(&sb, " %s", op.Detail)
		}
		fmt.Fprintf(&sb, " -> %dx%d", op.Width, op.Height)
		if op.Reason != "" {
			fmt.Fprintf(&sb, " (%s)", op.Reason)
		}
		sb.WriteString("\n")
	}

	if history.HasNext {
		sb.WriteString("\n(More entries available - use page parameter)\n")
	}
	return sb.String()
}

func formatParts(parts []pcb.PartDefinition) string {
	var sb strings.Builder
	sb.WriteString("Available Parts:\n\n")
	for _, part := range parts {
		fmt.Fprintf(&sb, "• %s\n  %s\n", part.Name, part.Description)
		for i, cfg := range part.Configurations {
			fmt.Fprintf(&sb, "  configuration %d: %d cells, pins at %s\n", i, len(cfg.Footprint), formatOffsets(cfg.Pins))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatCoords(coords []pcb.Coord) string {
	if len(coords) == 0 {
		return "none"
	}
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func formatOffsets(offsets []pcb.Offset) string {
	coords := make([]pcb.Coord, len(offsets))
	for i, o := range offsets {
		coords[i] = pcb.Coord{X: o.X, Y: o.Y}
	}
	return formatCoords(coords)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
