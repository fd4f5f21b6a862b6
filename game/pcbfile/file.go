package pcbfile

import (
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wricardo/pcb-editor/game/pcb"
)

// Pack encodes and compresses a board for storage
func Pack(board *pcb.Board) ([]byte, error) {
	raw, err := Encode(board)
	if err != nil {
		return nil, err
	}
	return Compress(raw)
}

// Unpack reverses Pack
func Unpack(data []byte, registry *pcb.Registry) (*pcb.Board, error) {
	raw, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	return Decode(raw, registry)
}

// Marshal returns the shareable text form of a board
func Marshal(board *pcb.Board) (string, error) {
	data, err := Pack(board)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Unmarshal reads a board from its text form
func Unmarshal(s string, registry *pcb.Registry) (*pcb.Board, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Unpack(data, registry)
}

// UnmarshalOrDefault reads a board from its text form and falls back to the
// default board when the input is corrupt.
func UnmarshalOrDefault(s string, registry *pcb.Registry, logger *zap.Logger) *pcb.Board {
	board, err := Unmarshal(s, registry)
	if err != nil {
		if logger == nil {
			logger = zap.NewNop()
		}
		logger.Warn("discarding corrupt board, using default", zap.Error(err))
		return pcb.NewDefaultBoard()
	}
	return board
}
