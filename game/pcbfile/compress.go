package pcbfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// maxInflated caps decompressed input. Encoded boards are far smaller.
const maxInflated = 16 << 20

// Compress deflates raw board bytes at the best compression level
func Compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("failed to compress board: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress board: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates data produced by Compress
func Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer r.Close()

	raw, err := io.ReadAll(io.LimitReader(r, maxInflated+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(raw) > maxInflated {
		return nil, fmt.Errorf("%w: inflated data exceeds %d bytes", ErrCorrupt, maxInflated)
	}
	return raw, nil
}
