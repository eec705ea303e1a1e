// Package vbyte implements the RLZ variable-byte (LEB128-style) token
// format: each field is encoded independently, least-significant-7-bits
// first, every byte but the last having its high bit set. Zero is a single
// 0x00 byte. A start_pos field needs at most 10 bytes to cover all of
// uint64; a length field needs at most 9, since it is semantically a
// signed 63-bit-positive value — but the decoder tolerates up to 9 bytes
// before declaring overflow, per its maximum byte-count rule.
package vbyte

import (
	"fmt"
	"io"

	"github.com/eax99/rlztools/rlzlog"
	"github.com/eax99/rlztools/token"
)

var log = rlzlog.Logger("token/vbyte")

const (
	maxStartPosBytes = 10
	maxLengthBytes    = 9
)

// Encoder writes tokens in the variable-byte format.
type Encoder struct{}

// Encode appends tok's vbyte encoding to dst: the start_pos field, then
// the length field. The end sentinel is never written.
func (Encoder) Encode(dst []byte, tok token.Token) []byte {
	if tok.IsEnd() {
		return dst
	}
	dst = encodeField(dst, tok.StartPos)
	dst = encodeField(dst, uint64(tok.Length))
	return dst
}

func encodeField(dst []byte, v uint64) []byte {
	if v == 0 {
		return append(dst, 0)
	}
	for v > 0 {
		b := byte(v & 0x7F)
		v >>= 7
		if v > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// Decoder reads vbyte-encoded tokens from r, one byte at a time.
type Decoder struct {
	r    io.ByteReader
	done bool
}

type byteReaderWrapper struct {
	io.Reader
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	if br, ok := r.(io.ByteReader); ok {
		return &Decoder{r: br}
	}
	w := byteReaderWrapper{r}
	return &Decoder{r: w}
}

func (w byteReaderWrapper) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(w.Reader, b[:])
	return b[0], err
}

// Next implements token.Decoder. It returns token.ErrFormat (wrapped) if a
// field exceeds its maximum byte count, per the overflow rule above; a clean
// EOF mid-field is treated as the ordinary end sentinel.
func (d *Decoder) Next() (token.Token, error) {
	if d.done {
		return token.End, nil
	}

	startPos, ok, err := decodeField(d.r, maxStartPosBytes)
	if err != nil {
		return token.Token{}, err
	}
	if !ok {
		d.done = true
		return token.End, nil
	}

	length, ok, err := decodeField(d.r, maxLengthBytes)
	if err != nil {
		return token.Token{}, err
	}
	if !ok {
		d.done = true
		return token.End, nil
	}

	return token.Token{StartPos: startPos, Length: int64(length)}, nil
}

// decodeField reads one vbyte field, up to maxBytes continuation+terminal
// bytes. ok is false when a read fails, whether before the field starts or
// mid-field (the sentinel case); err is non-nil if the field runs past
// maxBytes.
func decodeField(r io.ByteReader, maxBytes int) (value uint64, ok bool, err error) {
	var shift uint
	for i := 0; i < maxBytes; i++ {
		b, rerr := r.ReadByte()
		if rerr != nil {
			// EOF mid-field (or before the field starts) is a clean
			// termination, not a format error.
			return 0, false, nil
		}
		value |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return value, true, nil
		}
		shift += 7
		if i == maxBytes-1 {
			log.Warn().Int("max_bytes", maxBytes).Msg("vbyte sequence does not fit")
			return 0, false, fmt.Errorf("%w: vbyte sequence does not fit in %d bytes", token.ErrFormat, maxBytes)
		}
	}
	return value, true, nil
}

// Count scans r for the number of complete tokens it contains, without
// materializing them or touching a dictionary — mirroring the source's
// count-vbyte-tokens helper, which is strictly cheaper than a full decode.
func Count(r io.Reader) (int64, error) {
	d := NewDecoder(r)
	var n int64
	for {
		tok, err := d.Next()
		if err != nil {
			return n, err
		}
		if tok.IsEnd() {
			return n, nil
		}
		n++
	}
}
