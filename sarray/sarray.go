// Package sarray provides a read-only, random-access view of a suffix
// array file: |SA| little-endian unsigned integers of width V (32 or 64
// bits), each an index into a dictionary's symbols.
package sarray

import (
	"fmt"
	"io"
	"os"

	"github.com/eax99/rlztools/width"
)

// SuffixArray is a read-only view of SA[0..|SA|), each entry an index into
// the dictionary the array was built over. It carries no knowledge of the
// dictionary itself: validating the sortedness invariant against D is the
// parser's job, not this package's, since only the parser is positioned to
// detect a violation cheaply (as a side effect of its own searches).
type SuffixArray[V width.Unsigned] struct {
	entries []V
}

// Open reads path fully into memory and decodes it as a sequence of
// little-endian unsigned integers of width V.
func Open[V width.Unsigned](path string) (*SuffixArray[V], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sarray: open %s: %w", path, err)
	}
	defer f.Close()
	return Read[V](f)
}

// Read is the io.Reader-based counterpart of Open.
func Read[V width.Unsigned](r io.Reader) (*SuffixArray[V], error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("sarray: read: %w", err)
	}
	return FromBytes[V](raw), nil
}

// FromBytes decodes raw as a sequence of little-endian unsigned integers of
// width V. Unlike dict.FromBytes, a trailing partial entry here is not
// merely benign truncation of data — it means the suffix-array file itself
// is malformed. Decoding drops the remainder silently (dict.FromBytes at
// least logs a warning), and nothing downstream reports it.
func FromBytes[V width.Unsigned](raw []byte) *SuffixArray[V] {
	sz := width.Size[V]()
	n := len(raw) / sz
	entries := make([]V, n)
	for i := 0; i < n; i++ {
		entries[i] = width.DecodeLE[V](raw[i*sz:])
	}
	return &SuffixArray[V]{entries: entries}
}

// Len returns |SA|.
func (sa *SuffixArray[V]) Len() int {
	return len(sa.entries)
}

// At returns SA[k] widened to uint64 — an index, in symbols, into the
// dictionary.
func (sa *SuffixArray[V]) At(k int) uint64 {
	return width.Widen(sa.entries[k])
}
