// Package instream streams dictionary-width symbols from an input byte
// stream, with a one-symbol pushback slot.
//
// The underlying byte stream only guarantees single-byte pushback, which is
// not enough once a symbol spans more than one byte; Stream carries its own
// one-symbol buffer instead, and readers consult it before touching the
// byte stream.
package instream

import (
	"bufio"
	"io"

	"github.com/eax99/rlztools/rlzlog"
	"github.com/eax99/rlztools/width"
)

var log = rlzlog.Logger("instream")

// Stream reads width-W symbols, little-endian, from an underlying
// io.Reader, and supports ungetting exactly one symbol.
type Stream[T width.Unsigned] struct {
	r   *bufio.Reader
	buf [8]byte

	hasPending bool
	pending    T

	atEOF bool
}

// New wraps r as a Stream of width-W symbols.
func New[T width.Unsigned](r io.Reader) *Stream[T] {
	return &Stream[T]{r: bufio.NewReader(r)}
}

// Next yields the next symbol. The second return value is false at
// end-of-input (mirroring a clean termination, not an error).
func (s *Stream[T]) Next() (T, bool) {
	if s.hasPending {
		s.hasPending = false
		return s.pending, true
	}
	if s.atEOF {
		var zero T
		return zero, false
	}

	sz := width.Size[T]()
	n, err := io.ReadFull(s.r, s.buf[:sz])
	if err != nil {
		if n > 0 {
			log.Warn().
				Int("partial_bytes", n).
				Int("symbol_width", sz).
				Msg("input stream ended mid-symbol; discarding trailing partial symbol")
		}
		s.atEOF = true
		var zero T
		return zero, false
	}
	return width.DecodeLE[T](s.buf[:sz]), true
}

// Unget stashes sym as the next result of Next. Ungetting a second symbol
// before the first is consumed is a caller bug: the parser never does this,
// since it only ever holds back the symbol that ended the current token.
func (s *Stream[T]) Unget(sym T) {
	if s.hasPending {
		panic("instream: at most one symbol may be unget at a time")
	}
	s.hasPending = true
	s.pending = sym
}

// EndOfInput reports whether an earlier Next has already hit EOF on the
// underlying byte stream and no symbol is currently unget. Before any Next
// has reached EOF it returns false, even if the stream has no bytes left.
func (s *Stream[T]) EndOfInput() bool {
	return s.atEOF && !s.hasPending
}
