// Package ascii implements the whitespace-separated decimal RLZ token
// format: "start_pos length\n" per token, decoded with a simple word
// scanner so any run of ASCII whitespace separates fields. EOF on the
// underlying stream is the sentinel.
package ascii

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/eax99/rlztools/token"
)

// Encoder writes tokens as "start_pos length\n".
type Encoder struct{}

// Encode appends tok's textual encoding to dst. The end sentinel is never
// written.
func (Encoder) Encode(dst []byte, tok token.Token) []byte {
	if tok.IsEnd() {
		return dst
	}
	dst = append(dst, []byte(fmt.Sprintf("%d %d\n", tok.StartPos, tok.Length))...)
	return dst
}

// Decoder reads whitespace-separated decimal pairs from r.
type Decoder struct {
	sc   *bufio.Scanner
	done bool
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &Decoder{sc: sc}
}

// Next implements token.Decoder.
func (d *Decoder) Next() (token.Token, error) {
	if d.done {
		return token.End, nil
	}
	if !d.sc.Scan() {
		d.done = true
		return token.End, nil
	}
	startField := d.sc.Text()
	if !d.sc.Scan() {
		d.done = true
		return token.End, nil
	}
	lengthField := d.sc.Text()

	startPos, err := strconv.ParseUint(startField, 10, 64)
	if err != nil {
		return token.Token{}, fmt.Errorf("%w: start_pos %q: %v", token.ErrFormat, startField, err)
	}
	length, err := strconv.ParseInt(lengthField, 10, 64)
	if err != nil {
		return token.Token{}, fmt.Errorf("%w: length %q: %v", token.ErrFormat, lengthField, err)
	}
	return token.Token{StartPos: startPos, Length: length}, nil
}
