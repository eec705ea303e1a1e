// Package rlzunparse implements the RLZ decompressor: it resolves a token
// stream against the dictionary the tokens were cut from, and writes the
// decoded output symbols, optionally restricted to an inclusive 1-based
// window [I, J] of output positions.
package rlzunparse

import (
	"fmt"
	"io"

	"github.com/eax99/rlztools/dict"
	"github.com/eax99/rlztools/rlzlog"
	"github.com/eax99/rlztools/token"
	"github.com/eax99/rlztools/width"
)

var log = rlzlog.Logger("rlzunparse")

// Unparser resolves tokens from Tokens against Dict and writes the decoded
// symbols to Out.
type Unparser[T width.Unsigned] struct {
	dict   *dict.Dictionary[T]
	tokens token.Decoder
	out    io.Writer
}

// New returns an Unparser reading tokens from tokens and resolving them
// against d, writing decoded symbols to out.
func New[T width.Unsigned](tokens token.Decoder, d *dict.Dictionary[T], out io.Writer) *Unparser[T] {
	return &Unparser[T]{dict: d, tokens: tokens, out: out}
}

// Run decodes every token up to the end sentinel and returns
// (tokens_read, symbols_written). It is equivalent to calling RunWindow
// with I=J=0 (the fully open window).
func (u *Unparser[T]) Run() (tokensRead, symbolsWritten int64, err error) {
	return u.RunWindow(0, 0)
}

// RunWindow decodes tokens and writes only output positions within the
// inclusive 1-based range [I, J]; I == 0 means "from start", J == 0 means
// "until end". It returns (tokens_read, symbols_written) and stops reading
// further tokens as soon as the window has been satisfied.
func (u *Unparser[T]) RunWindow(I, J int64) (tokensRead, symbolsWritten int64, err error) {
	if I > 0 && J > 0 && I > J {
		return 0, 0, fmt.Errorf("rlzunparse: invalid window [%d,%d]: I > J", I, J)
	}
	openEnd := J == 0

	var outputPos int64
	sz := width.Size[T]()
	buf := make([]byte, 0, 4096)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		_, werr := u.out.Write(buf)
		buf = buf[:0]
		return werr
	}
	emit := func(sym T) error {
		buf = width.EncodeLE[T](buf, sym)
		if len(buf) >= 4096-sz {
			return flush()
		}
		return nil
	}

	for {
		tok, derr := u.tokens.Next()
		if derr != nil {
			flush()
			return tokensRead, symbolsWritten, derr
		}
		if tok.IsEnd() {
			break
		}
		tokensRead++

		L := tok.Length
		if L == 0 {
			L = 1
		}
		start := outputPos + 1
		end := outputPos + L // inclusive

		if !openEnd && start > J {
			break
		}

		if end < I {
			outputPos = end
			continue
		}

		lo := int64(0)
		hi := L
		if I > start {
			lo = I - start
		}
		if !openEnd && end > J {
			hi = L - (end - J)
		}

		if lo < hi {
			n, werr := u.emitTokenRange(tok, lo, hi, emit)
			symbolsWritten += n
			if werr != nil {
				flush()
				return tokensRead, symbolsWritten, werr
			}
		}
		outputPos = end
	}

	if ferr := flush(); ferr != nil {
		return tokensRead, symbolsWritten, ferr
	}
	return tokensRead, symbolsWritten, nil
}

// emitTokenRange writes the sub-range [lo, hi) of tok's payload (0-based,
// in units of tok's effective length) via emit, returning the number of
// symbols actually written.
func (u *Unparser[T]) emitTokenRange(tok token.Token, lo, hi int64, emit func(T) error) (int64, error) {
	if tok.IsLiteral() {
		// A literal's effective length is always 1; lo==0, hi==1 here.
		if err := emit(width.Narrow[T](tok.StartPos)); err != nil {
			return 0, err
		}
		return 1, nil
	}

	dictLen := int64(u.dict.Len())
	avail := hi
	if tok.StartPos > uint64(dictLen) {
		avail = lo
	} else if int64(tok.StartPos)+hi > dictLen {
		avail = dictLen - int64(tok.StartPos)
		if avail < lo {
			avail = lo
		}
	}
	if avail < hi {
		log.Warn().
			Uint64("start_pos", tok.StartPos).
			Int64("length", tok.Length).
			Int64("dict_len", dictLen).
			Msg("token copy range exceeds the dictionary; truncating")
	}

	var n int64
	for i := lo; i < avail; i++ {
		sym := u.dict.At(int(tok.StartPos) + int(i))
		if err := emit(sym); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
