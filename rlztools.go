// Package rlztools is the toolkit's facade: Compress and Decompress wire
// together a dictionary, a suffix array, a token codec and an optional
// outer container into the two end-to-end operations most callers want.
// It dispatches across the four symbol widths and two suffix-array widths
// at runtime, since a caller picking widths from a config value (rather
// than a Go type parameter) needs a non-generic entry point.
package rlztools

import (
	"fmt"
	"io"

	"github.com/eax99/rlztools/container"
	"github.com/eax99/rlztools/dict"
	"github.com/eax99/rlztools/instream"
	"github.com/eax99/rlztools/rlzparse"
	"github.com/eax99/rlztools/rlzunparse"
	"github.com/eax99/rlztools/sarray"
	"github.com/eax99/rlztools/token"
	"github.com/eax99/rlztools/token/ascii"
	"github.com/eax99/rlztools/token/fixed"
	"github.com/eax99/rlztools/token/vbyte"
	"github.com/eax99/rlztools/width"
)

// Options selects the per-invocation configuration surface: symbol and
// suffix-array widths, token wire format, and an optional outer container.
// It is a plain struct rather than a parsed flag/env set, matching the
// spec's configuration surface — symbol_width_bits, sa_width_bits,
// token_format and window are all in-process values, not external config.
type Options struct {
	SymbolWidthBits int // one of 8, 16, 32, 64
	SAWidthBits     int // one of 32, 64
	TokenFormat     token.Format
	Container       container.Format
}

func encoderFor(f token.Format) (token.Encoder, error) {
	switch f {
	case token.Format32x2:
		return fixed.NewEncoder32(), nil
	case token.Format64x2:
		return fixed.NewEncoder64(), nil
	case token.FormatASCII:
		return &ascii.Encoder{}, nil
	case token.FormatVbyte:
		return &vbyte.Encoder{}, nil
	default:
		return nil, fmt.Errorf("rlztools: unknown token format %q", f)
	}
}

func decoderFor(f token.Format, r io.Reader) (token.Decoder, error) {
	switch f {
	case token.Format32x2:
		return fixed.NewDecoder32(r), nil
	case token.Format64x2:
		return fixed.NewDecoder64(r), nil
	case token.FormatASCII:
		return ascii.NewDecoder(r), nil
	case token.FormatVbyte:
		return vbyte.NewDecoder(r), nil
	default:
		return nil, fmt.Errorf("rlztools: unknown token format %q", f)
	}
}

// Compress reads a dictionary from dictR, a suffix array from saR, and an
// input symbol stream from in; it writes the factorized, encoded and
// optionally container-wrapped token stream to out, returning the number
// of tokens written.
func Compress(dictR, saR, in io.Reader, out io.Writer, opts Options) (tokensWritten int64, err error) {
	switch opts.SymbolWidthBits {
	case 8:
		return compressWidth[uint8](dictR, saR, in, out, opts)
	case 16:
		return compressWidth[uint16](dictR, saR, in, out, opts)
	case 32:
		return compressWidth[uint32](dictR, saR, in, out, opts)
	case 64:
		return compressWidth[uint64](dictR, saR, in, out, opts)
	default:
		return 0, fmt.Errorf("rlztools: unsupported symbol width %d bits", opts.SymbolWidthBits)
	}
}

func compressWidth[T width.Unsigned](dictR, saR, in io.Reader, out io.Writer, opts Options) (int64, error) {
	d, err := dict.Read[T](dictR)
	if err != nil {
		return 0, err
	}
	switch opts.SAWidthBits {
	case 32:
		return compressFull[T, uint32](d, saR, in, out, opts)
	case 64:
		return compressFull[T, uint64](d, saR, in, out, opts)
	default:
		return 0, fmt.Errorf("rlztools: unsupported suffix array width %d bits", opts.SAWidthBits)
	}
}

func compressFull[T width.Unsigned, V width.Unsigned](d *dict.Dictionary[T], saR, in io.Reader, out io.Writer, opts Options) (int64, error) {
	sa, err := sarray.Read[V](saR)
	if err != nil {
		return 0, err
	}
	enc, err := encoderFor(opts.TokenFormat)
	if err != nil {
		return 0, err
	}
	cw, err := container.Wrap(out, opts.Container)
	if err != nil {
		return 0, err
	}

	p := rlzparse.New[T, V](d, sa, instream.New[T](in))
	var buf []byte
	var n int64
	for {
		tok, perr := p.Next()
		if perr != nil {
			cw.Close()
			return n, perr
		}
		if tok.IsEnd() {
			break
		}
		buf = enc.Encode(buf[:0], tok)
		if _, werr := cw.Write(buf); werr != nil {
			cw.Close()
			return n, werr
		}
		n++
	}
	return n, cw.Close()
}

// Decompress reads a dictionary from dictR and a token stream (optionally
// container-wrapped) from tokens, and writes the decoded symbols within
// the inclusive 1-based window [I, J] to out; I == 0 and J == 0 mean "from
// start" and "until end" respectively. It returns (tokens_read,
// symbols_written).
func Decompress(dictR, tokens io.Reader, out io.Writer, opts Options, I, J int64) (tokensRead, symbolsWritten int64, err error) {
	switch opts.SymbolWidthBits {
	case 8:
		return decompressWidth[uint8](dictR, tokens, out, opts, I, J)
	case 16:
		return decompressWidth[uint16](dictR, tokens, out, opts, I, J)
	case 32:
		return decompressWidth[uint32](dictR, tokens, out, opts, I, J)
	case 64:
		return decompressWidth[uint64](dictR, tokens, out, opts, I, J)
	default:
		return 0, 0, fmt.Errorf("rlztools: unsupported symbol width %d bits", opts.SymbolWidthBits)
	}
}

func decompressWidth[T width.Unsigned](dictR, tokens io.Reader, out io.Writer, opts Options, I, J int64) (int64, int64, error) {
	d, err := dict.Read[T](dictR)
	if err != nil {
		return 0, 0, err
	}
	cr, err := container.Unwrap(tokens, opts.Container)
	if err != nil {
		return 0, 0, err
	}
	dec, err := decoderFor(opts.TokenFormat, cr)
	if err != nil {
		return 0, 0, err
	}
	u := rlzunparse.New[T](dec, d, out)
	return u.RunWindow(I, J)
}
