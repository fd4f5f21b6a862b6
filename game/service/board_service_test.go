package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wricardo/pcb-editor/game/config"
	"github.com/wricardo/pcb-editor/game/editor"
	"github.com/wricardo/pcb-editor/game/pcb"
	"github.com/wricardo/pcb-editor/game/pcbfile"
	"github.com/wricardo/pcb-editor/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	registry *pcb.Registry
	saves    int
}

func NewMockSessionManager(registry *pcb.Registry) *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
		registry: registry,
	}
}

func (m *MockSessionManager) Create(id, presetID string, preset *config.Preset) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	board, err := preset.Build(m.registry)
	if err != nil {
		return nil, err
	}
	sess := &service.Session{
		ID:       id,
		PresetID: presetID,
		Editor: editor.New(board, pcb.Vector{}, editor.Options{
			CellSize:     preset.CellSize,
			UndoCapacity: preset.UndoCapacity,
			Registry:     m.registry,
		}),
		CreatedAt: time.Now(),
	}
	sess.Touch()
	m.sessions[id] = sess
	return sess, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	sess, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if sess, exists := m.sessions[id]; exists {
		sess.Touch()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	m.saves++
	return nil
}

// MockPresetManager implements service.PresetManager for testing
type MockPresetManager struct {
	presets  map[string]*config.Preset
	registry *pcb.Registry
}

func NewMockPresetManager() *MockPresetManager {
	return &MockPresetManager{
		presets: map[string]*config.Preset{
			"default": config.MinimalPreset(),
			"strip": {
				Name:   "Strip",
				Layout: []string{"###"},
			},
			"gap": {
				Name:   "Gap",
				Layout: []string{"#.#", "###"},
			},
		},
		registry: pcb.DefaultRegistry(),
	}
}

func (m *MockPresetManager) LoadPreset(name string) (*config.Preset, error) {
	preset, exists := m.presets[name]
	if !exists {
		return nil, config.ErrPresetNotFound
	}
	return preset, nil
}

func (m *MockPresetManager) ListPresets() ([]*config.PresetInfo, error) {
	result := make([]*config.PresetInfo, 0, len(m.presets))
	for id, preset := range m.presets {
		result = append(result, &config.PresetInfo{PresetID: id, Name: preset.Name})
	}
	return result, nil
}

func (m *MockPresetManager) GetDefault() *config.Preset {
	return m.presets["default"]
}

func (m *MockPresetManager) Registry() *pcb.Registry {
	return m.registry
}

func newTestService(t *testing.T) (service.BoardService, *MockSessionManager) {
	t.Helper()
	presets := NewMockPresetManager()
	sessions := NewMockSessionManager(presets.Registry())
	return service.NewBoardService(sessions, presets, nil), sessions
}

func newSession(t *testing.T, svc service.BoardService, preset string) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), preset)
	if err != nil {
		t.Fatalf("CreateSession(%q) failed: %v", preset, err)
	}
	return info.ID
}

func rect(x0, y0, x1, y1 int) service.Rect {
	return service.Rect{From: pcb.Coord{X: x0, Y: y0}, To: pcb.Coord{X: x1, Y: y1}}
}

func TestBoardService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name     string
		preset   string
		wantID   string
		wantRows []string
		wantErr  error
	}{
		{name: "default preset", preset: "", wantID: "default", wantRows: []string{"##", "##"}},
		{name: "named preset", preset: "strip", wantID: "strip", wantRows: []string{"###"}},
		{name: "unknown preset", preset: "missing", wantErr: config.ErrPresetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.preset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateSession() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() failed: %v", err)
			}
			if info.PresetID != tt.wantID {
				t.Errorf("PresetID = %q, want %q", info.PresetID, tt.wantID)
			}
			if diff := cmp.Diff(tt.wantRows, info.Board.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			if info.CanUndo || info.CanRedo {
				t.Error("new session should have no history")
			}
		})
	}
}

func TestBoardService_SessionNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.GetBoard(ctx, "nope"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("GetBoard() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Extend(ctx, "nope", rect(0, 0, 0, 0)); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Extend() error = %v, want ErrSessionNotFound", err)
	}
	if err := svc.DeleteSession(ctx, "nope"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("DeleteSession() error = %v, want ErrSessionNotFound", err)
	}
}

func TestBoardService_Extend(t *testing.T) {
	ctx := context.Background()

	t.Run("grows to the right", func(t *testing.T) {
		svc, sessions := newTestService(t)
		id := newSession(t, svc, "strip")

		res, err := svc.Extend(ctx, id, rect(3, 0, 3, 0))
		if err != nil {
			t.Fatalf("Extend() failed: %v", err)
		}
		if !res.Applied {
			t.Fatalf("Extend() rejected: %s", res.Reason)
		}
		if diff := cmp.Diff([]pcb.Coord{{X: 3, Y: 0}}, res.Added); diff != "" {
			t.Errorf("added mismatch (-want +got):\n%s", diff)
		}
		if res.Shift != nil {
			t.Errorf("Shift = %v, want nil", res.Shift)
		}
		if res.Board.Width != 4 {
			t.Errorf("Width = %d, want 4", res.Board.Width)
		}
		if sessions.saves != 1 {
			t.Errorf("saves = %d, want 1", sessions.saves)
		}
	})

	t.Run("grows to the left and moves the anchor", func(t *testing.T) {
		svc, _ := newTestService(t)
		id := newSession(t, svc, "strip")

		res, err := svc.Extend(ctx, id, rect(-1, 0, -1, 0))
		if err != nil {
			t.Fatalf("Extend() failed: %v", err)
		}
		if !res.Applied {
			t.Fatalf("Extend() rejected: %s", res.Reason)
		}
		if res.Shift == nil || *res.Shift != (pcb.Coord{X: 1, Y: 0}) {
			t.Errorf("Shift = %v, want (1,0)", res.Shift)
		}
		if res.Board.Position != (pcb.Vector{X: -0.1, Y: 0}) {
			t.Errorf("Position = %+v, want (-0.1, 0)", res.Board.Position)
		}
	})

	t.Run("starting on a point is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)
		id := newSession(t, svc, "strip")

		res, err := svc.Extend(ctx, id, rect(1, 0, 3, 0))
		if err != nil {
			t.Fatalf("Extend() failed: %v", err)
		}
		if res.Applied {
			t.Fatal("Extend() applied, want rejection")
		}
		if res.Reason != service.ErrNotExtendable.Error() {
			t.Errorf("Reason = %q", res.Reason)
		}
		if res.Board.Width != 3 {
			t.Errorf("Width = %d, want 3", res.Board.Width)
		}
	})
}

func TestBoardService_Erase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newSession(t, svc, "strip")

	res, err := svc.Erase(ctx, id, rect(0, 0, 2, 0))
	if err != nil {
		t.Fatalf("Erase() failed: %v", err)
	}
	if res.Applied || res.Reason != pcb.ErrEraseAll.Error() {
		t.Errorf("erase all: Applied = %v, Reason = %q", res.Applied, res.Reason)
	}

	res, err = svc.Erase(ctx, id, rect(2, 0, 2, 0))
	if err != nil {
		t.Fatalf("Erase() failed: %v", err)
	}
	if !res.Applied {
		t.Fatalf("Erase() rejected: %s", res.Reason)
	}
	if diff := cmp.Diff([]pcb.Coord{{X: 2, Y: 0}}, res.Erased); diff != "" {
		t.Errorf("erased mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"##"}, res.Board.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	// Erase must start on a point
	res, err = svc.Erase(ctx, id, rect(2, 0, 2, 0))
	if err != nil {
		t.Fatalf("Erase() failed: %v", err)
	}
	if res.Applied || res.Reason != service.ErrNotErasable.Error() {
		t.Errorf("erase outside: Applied = %v, Reason = %q", res.Applied, res.Reason)
	}
}

func TestBoardService_Etch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newSession(t, svc, "strip")
	from, to := pcb.Coord{X: 0, Y: 0}, pcb.Coord{X: 2, Y: 0}

	res, err := svc.Etch(ctx, id, from, to)
	if err != nil {
		t.Fatalf("Etch() failed: %v", err)
	}
	if !res.Applied {
		t.Fatalf("Etch() rejected: %s", res.Reason)
	}

	paths := func(view *service.BoardView) [][]string {
		out := make([][]string, 0, len(view.Cells))
		for _, c := range view.Cells {
			out = append(out, c.Paths)
		}
		return out
	}
	want := [][]string{{"E"}, {"E", "W"}, {"W"}}
	if diff := cmp.Diff(want, paths(res.Board)); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	res, err = svc.Unetch(ctx, id, from, to)
	if err != nil {
		t.Fatalf("Unetch() failed: %v", err)
	}
	if !res.Applied {
		t.Fatalf("Unetch() rejected: %s", res.Reason)
	}
	if diff := cmp.Diff([][]string{nil, nil, nil}, paths(res.Board)); diff != "" {
		t.Errorf("paths after unetch mismatch (-want +got):\n%s", diff)
	}

	res, err = svc.Unetch(ctx, id, from, to)
	if err != nil {
		t.Fatalf("Unetch() failed: %v", err)
	}
	if res.Applied || res.Reason != service.ErrNothingEtched.Error() {
		t.Errorf("second unetch: Applied = %v, Reason = %q", res.Applied, res.Reason)
	}

	res, err = svc.Etch(ctx, id, from, from)
	if err != nil {
		t.Fatalf("Etch() failed: %v", err)
	}
	if res.Applied {
		t.Error("etch onto itself applied")
	}
}

func TestBoardService_EtchUnreachable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newSession(t, svc, "gap")

	preview, err := svc.PreviewEtch(ctx, id, pcb.Coord{X: 0, Y: 0}, pcb.Coord{X: 2, Y: 0})
	if err != nil {
		t.Fatalf("PreviewEtch() failed: %v", err)
	}
	if preview.Reachable {
		t.Error("path across the gap reported reachable")
	}

	res, err := svc.Etch(ctx, id, pcb.Coord{X: 0, Y: 0}, pcb.Coord{X: 2, Y: 0})
	if err != nil {
		t.Fatalf("Etch() failed: %v", err)
	}
	if res.Applied || res.Reason != service.ErrUnreachable.Error() {
		t.Errorf("Applied = %v, Reason = %q", res.Applied, res.Reason)
	}

	// Going around the gap along the bottom row works
	preview, err = svc.PreviewEtch(ctx, id, pcb.Coord{X: 0, Y: 1}, pcb.Coord{X: 2, Y: 1})
	if err != nil {
		t.Fatalf("PreviewEtch() failed: %v", err)
	}
	if !preview.Reachable || preview.Links != 2 {
		t.Errorf("preview = %+v, want reachable with 2 links", preview)
	}
	if diff := cmp.Diff([]pcb.Coord{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}}, preview.Cells); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestBoardService_Parts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newSession(t, svc, "")
	at := pcb.Coord{X: 0, Y: 0}

	res, err := svc.Place(ctx, id, "button", 0, at)
	if err != nil {
		t.Fatalf("Place() failed: %v", err)
	}
	if !res.Applied {
		t.Fatalf("Place() rejected: %s", res.Reason)
	}
	want := &service.Fixture{
		Part:  "button",
		Cells: []pcb.Coord{at},
		Pins:  []pcb.Coord{at},
	}
	if diff := cmp.Diff(want, res.Fixture); diff != "" {
		t.Errorf("fixture mismatch (-want +got):\n%s", diff)
	}
	if cell := res.Board.Cells[0]; cell.Part != "button" || !cell.Connection {
		t.Errorf("cell (0,0) = %+v, want button with connection", cell)
	}

	rejected := []struct {
		name string
		call func() (*service.OperationResult, error)
	}{
		{"occupied", func() (*service.OperationResult, error) { return svc.Place(ctx, id, "button", 0, at) }},
		{"unknown part", func() (*service.OperationResult, error) { return svc.Place(ctx, id, "nope", 0, pcb.Coord{X: 1, Y: 1}) }},
		{"bad configuration", func() (*service.OperationResult, error) { return svc.Place(ctx, id, "button", 3, pcb.Coord{X: 1, Y: 1}) }},
		{"off the board", func() (*service.OperationResult, error) { return svc.Place(ctx, id, "meter", 0, pcb.Coord{X: 1, Y: 1}) }},
		{"remove empty", func() (*service.OperationResult, error) { return svc.RemovePart(ctx, id, pcb.Coord{X: 1, Y: 1}) }},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.call()
			if err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if res.Applied {
				t.Error("operation applied, want rejection")
			}
			if res.Reason == "" {
				t.Error("rejection has no reason")
			}
		})
	}

	res, err = svc.RemovePart(ctx, id, at)
	if err != nil {
		t.Fatalf("RemovePart() failed: %v", err)
	}
	if !res.Applied || len(res.Board.Fixtures) != 0 {
		t.Errorf("RemovePart(): Applied = %v, fixtures = %d", res.Applied, len(res.Board.Fixtures))
	}
}

func TestBoardService_SetLocked(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newSession(t, svc, "")
	at := pcb.Coord{X: 1, Y: 0}

	res, err := svc.SetLocked(ctx, id, at, true)
	if err != nil {
		t.Fatalf("SetLocked() failed: %v", err)
	}
	if !res.Applied || res.Operation != "lock" {
		t.Fatalf("SetLocked(): %+v", res)
	}
	if !res.Board.Cells[1].Locked {
		t.Error("cell (1,0) not locked")
	}

	res, err = svc.SetLocked(ctx, id, at, true)
	if err != nil {
		t.Fatalf("SetLocked() failed: %v", err)
	}
	if res.Applied || res.Reason != editor.ErrAlreadyApplied.Error() {
		t.Errorf("second lock: Applied = %v, Reason = %q", res.Applied, res.Reason)
	}

	// A locked point cannot start an erase
	res, err = svc.Erase(ctx, id, rect(1, 0, 1, 0))
	if err != nil {
		t.Fatalf("Erase() failed: %v", err)
	}
	if res.Applied {
		t.Error("erase of a locked point applied")
	}
}

func TestBoardService_UndoRedo(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newSession(t, svc, "strip")

	if _, err := svc.Extend(ctx, id, rect(3, 0, 3, 0)); err != nil {
		t.Fatalf("Extend() failed: %v", err)
	}

	res, err := svc.Undo(ctx, id)
	if err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if !res.Applied || res.Board.Width != 3 {
		t.Errorf("Undo(): Applied = %v, Width = %d", res.Applied, res.Board.Width)
	}

	res, err = svc.Undo(ctx, id)
	if err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if res.Applied || res.Reason != editor.ErrNothingToUndo.Error() {
		t.Errorf("second undo: Applied = %v, Reason = %q", res.Applied, res.Reason)
	}

	res, err = svc.Redo(ctx, id)
	if err != nil {
		t.Fatalf("Redo() failed: %v", err)
	}
	if !res.Applied || res.Board.Width != 4 {
		t.Errorf("Redo(): Applied = %v, Width = %d", res.Applied, res.Board.Width)
	}

	info, err := svc.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession() failed: %v", err)
	}
	if !info.CanUndo || info.CanRedo {
		t.Errorf("CanUndo = %v, CanRedo = %v", info.CanUndo, info.CanRedo)
	}
}

func TestBoardService_PreviewReshape(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newSession(t, svc, "strip")

	preview, err := svc.PreviewReshape(ctx, id, rect(3, 0, 3, 2))
	if err != nil {
		t.Fatalf("PreviewReshape() failed: %v", err)
	}
	want := &service.ReshapePreview{
		Mode:        "extend",
		Candidates:  []pcb.Coord{{X: 3, Y: 0}},
		TopLeft:     &pcb.Coord{X: 3, Y: 0},
		BottomRight: &pcb.Coord{X: 3, Y: 0},
	}
	if diff := cmp.Diff(want, preview); diff != "" {
		t.Errorf("preview mismatch (-want +got):\n%s", diff)
	}

	preview, err = svc.PreviewReshape(ctx, id, rect(0, 0, 2, 0))
	if err != nil {
		t.Fatalf("PreviewReshape() failed: %v", err)
	}
	if preview.Mode != "erase" || preview.Reason != pcb.ErrEraseAll.Error() {
		t.Errorf("erase preview = %+v", preview)
	}

	// Previews leave the editor free and the board unchanged
	res, err := svc.Extend(ctx, id, rect(3, 0, 3, 0))
	if err != nil {
		t.Fatalf("Extend() failed: %v", err)
	}
	if !res.Applied {
		t.Errorf("Extend() after preview rejected: %s", res.Reason)
	}
}

func TestBoardService_ExportImport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newSession(t, svc, "strip")

	if _, err := svc.Etch(ctx, id, pcb.Coord{X: 0, Y: 0}, pcb.Coord{X: 2, Y: 0}); err != nil {
		t.Fatalf("Etch() failed: %v", err)
	}
	exported, err := svc.Export(ctx, id)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if exported.Width != 3 || exported.Height != 1 {
		t.Errorf("exported size = %dx%d, want 3x1", exported.Width, exported.Height)
	}

	info, err := svc.ImportSession(ctx, exported.Data)
	if err != nil {
		t.Fatalf("ImportSession() failed: %v", err)
	}
	if info.ID == id {
		t.Error("import reused the source session id")
	}
	if info.PresetID != service.ImportedPreset {
		t.Errorf("PresetID = %q", info.PresetID)
	}
	original, err := svc.GetBoard(ctx, id)
	if err != nil {
		t.Fatalf("GetBoard() failed: %v", err)
	}
	if diff := cmp.Diff(original.Cells, info.Board.Cells); diff != "" {
		t.Errorf("imported cells mismatch (-original +imported):\n%s", diff)
	}

	if _, err := svc.ImportSession(ctx, "not a board"); !errors.Is(err, pcbfile.ErrCorrupt) {
		t.Errorf("ImportSession(garbage) error = %v, want ErrCorrupt", err)
	}
}

func TestBoardService_GetHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := newSession(t, svc, "strip")

	for x := 3; x < 8; x++ {
		if _, err := svc.Extend(ctx, id, rect(x, 0, x, 0)); err != nil {
			t.Fatalf("Extend() failed: %v", err)
		}
	}

	seqs := func(resp *service.HistoryResponse) []int {
		out := []int{}
		for _, op := range resp.Operations {
			out = append(out, op.Seq)
		}
		return out
	}

	tests := []struct {
		name     string
		opts     service.HistoryOptions
		wantSeqs []int
		wantNext bool
		wantPrev bool
	}{
		{"defaults", service.HistoryOptions{}, []int{5, 4, 3, 2, 1}, false, false},
		{"desc first page", service.HistoryOptions{Page: 1, Limit: 2}, []int{5, 4}, true, false},
		{"desc last page", service.HistoryOptions{Page: 3, Limit: 2}, []int{1}, false, true},
		{"asc middle page", service.HistoryOptions{Page: 2, Limit: 2, Order: "asc"}, []int{3, 4}, true, true},
		{"past the end", service.HistoryOptions{Page: 9, Limit: 2, Order: "asc"}, []int{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetHistory(ctx, id, tt.opts)
			if err != nil {
				t.Fatalf("GetHistory() failed: %v", err)
			}
			if resp.TotalOperations != 5 {
				t.Errorf("TotalOperations = %d, want 5", resp.TotalOperations)
			}
			if diff := cmp.Diff(tt.wantSeqs, seqs(resp)); diff != "" {
				t.Errorf("seqs mismatch (-want +got):\n%s", diff)
			}
			if resp.HasNext != tt.wantNext || resp.HasPrevious != tt.wantPrev {
				t.Errorf("HasNext = %v, HasPrevious = %v", resp.HasNext, resp.HasPrevious)
			}
		})
	}
}

func TestBoardService_ListParts(t *testing.T) {
	svc, _ := newTestService(t)

	parts, err := svc.ListParts(context.Background())
	if err != nil {
		t.Fatalf("ListParts() failed: %v", err)
	}
	var names []string
	for _, p := range parts {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"led", "meter", "altimeter", "button"}, names); diff != "" {
		t.Errorf("part names mismatch (-want +got):\n%s", diff)
	}
}
