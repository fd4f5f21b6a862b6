// Package pcbfile stores boards in a compact binary form.
//
// A stored board starts with a two byte big-endian head holding the board
// width in its low fifteen bits and a flag for an empty first cell in the
// top bit. One byte of extendability flags follows. The body walks the board
// in raster order as alternating runs of empty cells and points:
//
//   - An empty run is a length byte. Runs longer than 255 cells continue
//     with a SKIP byte (CHAIN|LAST) followed by the next length.
//   - A point byte stores the four backward directions (NE, N, NW, W) in its
//     low nibble. The forward directions are restored from the neighbor that
//     is decoded later.
//   - CHAIN means another point byte follows; otherwise an empty run does.
//   - PART is set on the first cell of a placed part and is followed by the
//     part identifier and configuration index.
//   - LAST marks the final point of the board.
//   - LOCKED stores the lock flag.
//
// Raw bytes are compressed with zlib for storage, and Marshal produces a
// base64 text form suitable for sharing.
//
// Decoding is all or nothing: any malformed input yields an error wrapping
// ErrCorrupt and no board.
package pcbfile
