// Package dict loads an RLZ dictionary — an immutable, ordered sequence of
// fixed-width symbols — fully into memory and exposes it for random-access
// reads by index.
package dict

import (
	"fmt"
	"io"
	"os"

	"github.com/eax99/rlztools/rlzlog"
	"github.com/eax99/rlztools/width"
)

var log = rlzlog.Logger("dict")

// Dictionary is an immutable, random-access view of a loaded dictionary
// file: |D| symbols of width W, little-endian.
type Dictionary[T width.Unsigned] struct {
	symbols []T
}

// Load reads path fully into memory and decodes it as a sequence of
// little-endian symbols of width W. Trailing bytes that do not form a
// whole symbol are discarded with a warning, per the dictionary file
// format (raw little-endian symbols, no header, size must be a multiple
// of W/8 bytes).
func Load[T width.Unsigned](path string) (*Dictionary[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dict: open %s: %w", path, err)
	}
	defer f.Close()
	return Read[T](f)
}

// Read is the io.Reader-based counterpart of Load, reading every byte from
// r into memory before decoding.
func Read[T width.Unsigned](r io.Reader) (*Dictionary[T], error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dict: read: %w", err)
	}
	return FromBytes[T](raw), nil
}

// FromBytes decodes raw as a sequence of little-endian symbols of width W,
// discarding any trailing partial symbol with a warning.
func FromBytes[T width.Unsigned](raw []byte) *Dictionary[T] {
	sz := width.Size[T]()
	n := len(raw) / sz
	if rem := len(raw) % sz; rem != 0 {
		log.Warn().
			Int("trailing_bytes", rem).
			Int("symbol_width", sz).
			Msg("dictionary file size is not a multiple of the symbol width; discarding trailing partial symbol")
	}

	symbols := make([]T, n)
	for i := 0; i < n; i++ {
		symbols[i] = width.DecodeLE[T](raw[i*sz:])
	}
	return &Dictionary[T]{symbols: symbols}
}

// Len returns |D|, the dictionary length in symbols.
func (d *Dictionary[T]) Len() int {
	return len(d.symbols)
}

// At returns D[i]. Callers (the parser and unparser) are expected to have
// checked 0 <= i < Len(); this is a hot path and does not re-check.
func (d *Dictionary[T]) At(i int) T {
	return d.symbols[i]
}

// Slice returns D[start:end] without copying; the returned slice aliases
// the dictionary's backing array and must not be mutated.
func (d *Dictionary[T]) Slice(start, end int) []T {
	return d.symbols[start:end]
}
