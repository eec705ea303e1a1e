// Package token defines the RLZ token: a (start_pos, length) pair that
// names either a copy out of the dictionary, a literal input symbol, or the
// in-process end-of-stream sentinel — and the Encoder/Decoder interfaces
// the four wire formats (32x2, 64x2, ascii, vbyte) implement.
package token

import (
	"errors"
	"fmt"
)

// Token is a (start_pos, length) pair. See the package doc for semantics:
// length > 0 is a copy, length == 0 is a literal carried in start_pos, and
// the (2^64-1, -1) pair is the in-process end sentinel.
type Token struct {
	StartPos uint64
	Length   int64
}

// End is the in-band, in-process end-of-stream marker. It is never written
// to a wire format — callers signal end-of-stream by closing the
// underlying file — but it is the value Decoder.Next produces once EOF is
// reached, and the value an adversarial ascii or 64x2 stream can forge
// (the vbyte length field tops out at 63 bits, so vbyte cannot).
var End = Token{StartPos: ^uint64(0), Length: -1}

// IsEnd reports whether t is the end sentinel.
func (t Token) IsEnd() bool {
	return t == End
}

// IsLiteral reports whether t carries a literal symbol rather than a copy.
func (t Token) IsLiteral() bool {
	return t.Length == 0 && !t.IsEnd()
}

// String renders t the way rlzexplain would: a literal prints as the
// symbol value, a copy as <start,length>.
func (t Token) String() string {
	if t.IsEnd() {
		return "<end>"
	}
	if t.IsLiteral() {
		return fmt.Sprintf("%d", t.StartPos)
	}
	return fmt.Sprintf("<%d,%d>", t.StartPos, t.Length)
}

// Format identifies one of the four interchangeable wire encodings.
type Format string

const (
	Format32x2 Format = "32x2"
	Format64x2 Format = "64x2"
	FormatASCII Format = "ascii"
	FormatVbyte Format = "vbyte"
)

// ErrFormat is returned (possibly wrapped) when a decoder encounters a
// stream it cannot interpret as the format it was built for — the "invalid
// input" error class of above, as opposed to a benign, clean EOF.
var ErrFormat = errors.New("token: invalid encoded token stream")

// Encoder appends the wire encoding of tok to dst and returns the extended
// slice. Implementations never write End explicitly: a caller closing the
// underlying file is what conveys end-of-stream on the wire.
type Encoder interface {
	Encode(dst []byte, tok Token) []byte
}

// Decoder produces tokens from a byte stream in order, ending with exactly
// one End token.
type Decoder interface {
	// Next returns the next token. Once End has been returned, every
	// subsequent call also returns End.
	Next() (Token, error)
}
