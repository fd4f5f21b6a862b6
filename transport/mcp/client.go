package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/pcb-editor/game/config"
	"github.com/wricardo/pcb-editor/game/pcb"
	"github.com/wricardo/pcb-editor/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"PCB Editor",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`PCB Editor - MCP Interface

This is a thin client that proxies all requests to the REST API server.

A board is a grid of points. Grow it with extend, cut it with erase, connect
neighbouring points with etch and place parts on it. Coordinates are board
cells: x grows to the right, y grows down, (0,0) is the top-left cell.

AVAILABLE TOOLS:
- create_session / import_board / list_sessions / get_session / delete_session
- get_board: rows, parts and connections of a session's board
- preview_reshape / extend / erase: grow into or cut a rectangle
- preview_etch / etch / unetch: connect or disconnect along a path
- place_part / remove_part / lock_point
- undo / redo / operation_history
- export_board: the board's portable text form
- list_presets / list_parts
- editor_instructions: the full editing rules`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func boolProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

func sessionProps(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"session_id": stringProp("Session ID"),
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func spanProps() map[string]interface{} {
	return sessionProps(map[string]interface{}{
		"x1": intProp("Column of the first corner"),
		"y1": intProp("Row of the first corner"),
		"x2": intProp("Column of the second corner (defaults to x1)"),
		"y2": intProp("Row of the second corner (defaults to y1)"),
	})
}

func cellProps(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"x": intProp("Column of the cell"),
		"y": intProp("Row of the cell"),
	}
	for k, v := range extra {
		props[k] = v
	}
	return sessionProps(props)
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new editing session from a preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset_id": stringProp("Preset to start from (optional, see list_presets)"),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "import_board",
		Description: "Create a new session holding a board from its exported text form",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"data": stringProp("Board text produced by export_board"),
			},
			Required: []string{"data"},
		},
	}, c.handleImportBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active editing sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProps(nil),
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session and its saved board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProps(nil),
			Required:   []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Board state
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_board",
		Description: "Show the board: rows, parts and etched connections",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProps(nil),
			Required:   []string{"session_id"},
		},
	}, c.handleGetBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "export_board",
		Description: "Export the board in its portable text form",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProps(nil),
			Required:   []string{"session_id"},
		},
	}, c.handleExportBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "operation_history",
		Description: "View the session's operation log with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: sessionProps(map[string]interface{}{
				"page":  intProp("Page number (default 1)"),
				"limit": intProp("Entries per page (default 20, max 100)"),
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc, default)",
				},
			}),
			Required: []string{"session_id"},
		},
	}, c.handleOperationHistory)

	// Reshape
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "preview_reshape",
		Description: "Show which cells a drag from (x1,y1) to (x2,y2) would extend or erase, without changing the board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: spanProps(),
			Required:   []string{"session_id", "x1", "y1"},
		},
	}, c.handlePreviewReshape)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "extend",
		Description: "Grow the board over the rectangle. The first corner must be an empty cell next to the board.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: spanProps(),
			Required:   []string{"session_id", "x1", "y1"},
		},
	}, c.handleSpan("extend"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "erase",
		Description: "Remove the unlocked points of the rectangle. The first corner must be an unlocked point.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: spanProps(),
			Required:   []string{"session_id", "x1", "y1"},
		},
	}, c.handleSpan("erase"))

	// Etching
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "preview_etch",
		Description: "Show the path an etch from (x1,y1) to (x2,y2) would follow",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: spanProps(),
			Required:   []string{"session_id", "x1", "y1", "x2", "y2"},
		},
	}, c.handlePreviewEtch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "etch",
		Description: "Connect the points along the path from (x1,y1) to (x2,y2)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: spanProps(),
			Required:   []string{"session_id", "x1", "y1", "x2", "y2"},
		},
	}, c.handleSpan("etch"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "unetch",
		Description: "Remove the connections along the path from (x1,y1) to (x2,y2)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: spanProps(),
			Required:   []string{"session_id", "x1", "y1", "x2", "y2"},
		},
	}, c.handleSpan("unetch"))

	// Parts and locks
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_part",
		Description: "Place a part with its anchor at (x,y). See list_parts for names and configurations.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: cellProps(map[string]interface{}{
				"part":          stringProp("Part name"),
				"configuration": intProp("Configuration index (default 0)"),
			}),
			Required: []string{"session_id", "part", "x", "y"},
		},
	}, c.handlePlacePart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_part",
		Description: "Remove the part covering (x,y)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProps(nil),
			Required:   []string{"session_id", "x", "y"},
		},
	}, c.handleRemovePart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "lock_point",
		Description: "Lock or unlock the point at (x,y). Locked points survive erase.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: cellProps(map[string]interface{}{
				"locked": boolProp("true to lock (default), false to unlock"),
			}),
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleLockPoint)

	// History
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Undo the last applied edit",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProps(nil),
			Required:   []string{"session_id"},
		},
	}, c.handleHistoryStep("undo"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "redo",
		Description: "Redo the last undone edit",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProps(nil),
			Required:   []string{"session_id"},
		},
	}, c.handleHistoryStep("redo"))

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List the board presets sessions can start from",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_parts",
		Description: "List the parts that can be placed and their configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListParts)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "editor_instructions",
		Description: "Get the complete editing rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleEditorInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// arguments returns the call's arguments, empty when none were sent
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

// intArg reads a number argument. Decoded JSON carries float64.
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// spanBody turns x1,y1,x2,y2 into a from/to request. The second corner
// defaults to the first.
func spanBody(args map[string]interface{}) (map[string]pcb.Coord, error) {
	x1, okX := intArg(args, "x1")
	y1, okY := intArg(args, "y1")
	if !okX || !okY {
		return nil, fmt.Errorf("x1 and y1 are required")
	}
	from := pcb.Coord{X: x1, Y: y1}
	to := from
	if x2, ok := intArg(args, "x2"); ok {
		to.X = x2
	}
	if y2, ok := intArg(args, "y2"); ok {
		to.Y = y2
	}
	return map[string]pcb.Coord{"from": from, "to": to}, nil
}

func cellArg(args map[string]interface{}) (pcb.Coord, error) {
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return pcb.Coord{}, fmt.Errorf("x and y are required")
	}
	return pcb.Coord{X: x, Y: y}, nil
}

// operate posts an edit and renders its result
func (c *Client) operate(ctx context.Context, path string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.OperationResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatOperationResult(&result)), nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	presetID, _ := args["preset_id"].(string)

	body := map[string]string{}
	if presetID != "" {
		body["preset_id"] = presetID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\n\n%s", session.ID, formatSessionInfo(&session))), nil
}

func (c *Client) handleImportBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, _ := arguments(request)["data"].(string)
	if data == "" {
		return mcp.NewToolResultError("data is required"), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions/import", map[string]string{"data": data}, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Imported into session: %s\n\n%s", session.ID, formatSessionInfo(&session))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionList(response.Sessions)), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := c.apiCall(ctx, "DELETE", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/board")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var board service.BoardView
	if err := c.apiCall(ctx, "GET", path, nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func (c *Client) handleExportBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/export")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var export service.ExportResult
	if err := c.apiCall(ctx, "GET", path, nil, &export); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Board %dx%d of session %s:\n\n%s",
		export.Width, export.Height, export.SessionID, export.Data)), nil
}

func (c *Client) handleOperationHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order, ok := args["order"].(string); ok {
		query.Set("order", order)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handlePreviewReshape(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/preview/reshape")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := spanBody(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var preview service.ReshapePreview
	if err := c.apiCall(ctx, "POST", path, body, &preview); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReshapePreview(&preview)), nil
}

func (c *Client) handlePreviewEtch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/preview/etch")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := spanBody(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var preview service.EtchPreview
	if err := c.apiCall(ctx, "POST", path, body, &preview); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatEtchPreview(&preview)), nil
}

// handleSpan builds the handler of an edit taking two corners
func (c *Client) handleSpan(operation string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := arguments(request)
		path, err := sessionPath(args, "/"+operation)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body, err := spanBody(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return c.operate(ctx, path, body)
	}
}

func (c *Client) handlePlacePart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/parts")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	at, err := cellArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	part, _ := args["part"].(string)
	configuration, _ := intArg(args, "configuration")

	return c.operate(ctx, path, map[string]interface{}{
		"part":          part,
		"configuration": configuration,
		"at":            at,
	})
}

func (c *Client) handleRemovePart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/parts/remove")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	at, err := cellArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.operate(ctx, path, map[string]interface{}{"at": at})
}

func (c *Client) handleLockPoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/lock")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	at, err := cellArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	locked := true
	if v, ok := args["locked"].(bool); ok {
		locked = v
	}

	return c.operate(ctx, path, map[string]interface{}{"at": at, "locked": locked})
}

func (c *Client) handleHistoryStep(operation string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := sessionPath(arguments(request), "/"+operation)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return c.operate(ctx, path, nil)
	}
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var presets []config.PresetInfo
	if err := c.apiCall(ctx, "GET", "/api/presets", nil, &presets); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Presets:\n\n"
	for _, p := range presets {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Board: %dx%d, %d points, %d parts\n\n",
			p.PresetID, p.Name, p.Description, p.Width, p.Height, p.Points, p.Parts)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListParts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var parts []pcb.PartDefinition
	if err := c.apiCall(ctx, "GET", "/api/partdefs", nil, &parts); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatParts(parts)), nil
}

func (c *Client) handleEditorInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(editorInstructions), nil
}

const editorInstructions = `PCB Editor - Complete Instructions

THE BOARD:
A board is a rectangle of cells. A cell is either empty or holds a point.
Board rows are drawn with:
• # - point
• L - locked point (erase leaves it alone)
• P - point covered by a part
• . - empty cell

COORDINATES:
(0,0) is the top-left cell, x grows to the right and y grows down. Cells just
outside the board are valid targets for extend; after growing left or up the
whole board is renumbered so the new top-left is (0,0) again. Check the
"shift" in the result.

RESHAPING:
• extend: the first corner must be an empty cell touching the board, or a
  cell just outside it on a side the board may grow. Every empty cell of the
  rectangle on a growable side becomes a point.
• erase: the first corner must be an unlocked point. Every unlocked point of
  the rectangle is removed together with any part touching it, and
  connections into removed points are cut. If the cut splits the board, only
  the largest piece stays; pieces holding a locked point make the erase fail.
  A board can never be erased completely.
• preview_reshape shows what either would do without applying it.

ETCHING:
• etch connects neighbouring points along the path from the first to the
  second corner. The path steps diagonally while both axes still differ, then
  straight. Every cell on the path must be a point.
• unetch removes the connections along the same path.
• Part pins are points too, so etch between pins to wire parts together.

PARTS:
• list_parts shows every part, its footprint and pins per configuration.
• place_part puts a part with its anchor at (x,y). Every footprint cell must be
  a free point.
• remove_part takes off the part covering (x,y).

HISTORY:
Every applied edit can be undone. Rejected edits change nothing, report a
reason and are still logged in operation_history.

SHARING:
export_board returns a short text that import_board turns back into a board.`
