// Package fixed implements the 32x2 and 64x2 RLZ token formats: each token
// is two little-endian unsigned integers, start_pos then length, with no
// framing. End-of-stream is conveyed by a clean EOF; a short, non-full read
// also terminates as the sentinel, per this format's documented
// (and preserved) leniency about distinguishing a truncated file from a
// genuine EOF.
package fixed

import (
	"io"

	"github.com/eax99/rlztools/rlzlog"
	"github.com/eax99/rlztools/token"
)

var log = rlzlog.Logger("token/fixed")

// Width selects the integer width per field: 4 bytes for 32x2, 8 for 64x2.
type Width int

const (
	W32 Width = 4
	W64 Width = 8
)

// Encoder writes tokens in the fixed binary format selected by Width.
type Encoder struct {
	Width Width
}

// NewEncoder32 returns an Encoder for the 32x2 format.
func NewEncoder32() *Encoder { return &Encoder{Width: W32} }

// NewEncoder64 returns an Encoder for the 64x2 format.
func NewEncoder64() *Encoder { return &Encoder{Width: W64} }

// Encode appends tok's wire encoding to dst. The end sentinel is never
// written; callers convey end-of-stream by closing the file.
func (e *Encoder) Encode(dst []byte, tok token.Token) []byte {
	if tok.IsEnd() {
		return dst
	}
	w := int(e.Width)
	if w == int(W32) {
		if tok.StartPos > 0xFFFFFFFF {
			log.Warn().
				Uint64("start_pos", tok.StartPos).
				Msg("32x2 token truncates a start_pos that does not fit in 32 bits")
		}
		dst = appendUint(dst, tok.StartPos, w)
		dst = appendUint(dst, uint64(int64(uint32(tok.Length))), w)
		return dst
	}
	dst = appendUint(dst, tok.StartPos, w)
	dst = appendUint(dst, uint64(tok.Length), w)
	return dst
}

func appendUint(dst []byte, v uint64, width int) []byte {
	for i := 0; i < width; i++ {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

// Decoder reads tokens in the fixed binary format selected by Width.
type Decoder struct {
	Width Width
	r     io.Reader
	done  bool
}

// NewDecoder32 returns a Decoder for the 32x2 format reading from r.
func NewDecoder32(r io.Reader) *Decoder { return &Decoder{Width: W32, r: r} }

// NewDecoder64 returns a Decoder for the 64x2 format reading from r.
func NewDecoder64(r io.Reader) *Decoder { return &Decoder{Width: W64, r: r} }

// Next implements token.Decoder.
func (d *Decoder) Next() (token.Token, error) {
	if d.done {
		return token.End, nil
	}
	w := int(d.Width)
	buf := make([]byte, 2*w)
	n, err := io.ReadFull(d.r, buf)
	if err != nil || n != len(buf) {
		if n != 0 && n != len(buf) {
			log.Warn().
				Int("bytes_read", n).
				Int("expected", len(buf)).
				Msg("short read on fixed-width token stream; treating as clean end-of-stream")
		}
		d.done = true
		return token.End, nil
	}

	startPos := readUint(buf[:w])
	lengthRaw := readUint(buf[w:])
	var length int64
	if w == int(W32) {
		length = int64(int32(uint32(lengthRaw)))
	} else {
		length = int64(lengthRaw)
	}
	return token.Token{StartPos: startPos, Length: length}, nil
}

func readUint(b []byte) uint64 {
	var v uint64
	for i, bb := range b {
		v |= uint64(bb) << (8 * i)
	}
	return v
}
