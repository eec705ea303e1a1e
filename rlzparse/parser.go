// Package rlzparse implements the RLZ compressor: repeated factorization of
// an input symbol stream against a precomputed dictionary, by two bounded
// binary searches per accepted input symbol over the dictionary's suffix
// array.
//
// It is the only component that consults the suffix array, and it is where
// the interesting engineering of the whole toolkit lives — best-partial-
// match bookkeeping, one-symbol pushback, and careful end-of-input
// handling.
package rlzparse

import (
	"fmt"

	"github.com/eax99/rlztools/dict"
	"github.com/eax99/rlztools/instream"
	"github.com/eax99/rlztools/rlzlog"
	"github.com/eax99/rlztools/sarray"
	"github.com/eax99/rlztools/token"
	"github.com/eax99/rlztools/width"
)

var log = rlzlog.Logger("rlzparse")

// notFound is the single negative sentinel both binary searches return on
// failure. The source distinguishes -(left+1) from -(right-1), and notes
// that the latter is not always negative — an open question this core
// resolves by never interpreting the numeric value of a search failure;
// only its sign (via this one constant) is meaningful.
const notFound = -1

// InvariantError reports a bounded binary search returning "not found" on a
// range search_left already proved non-empty — the dictionary/suffix-array
// inconsistency class of error from above. It should never occur against a
// correctly sorted suffix array of the supplied dictionary.
type InvariantError struct {
	Offset           int
	Leftmost         int
	OldRightmost     int
	Symbol           uint64
	MatchingSuffix   bool
	BestPos, BestLen int64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf(
		"rlzparse: invariant violation: search_right failed on a non-empty range "+
			"(offset=%d leftmost=%d old_rightmost=%d symbol=%#x match_found=%v best_pos=%d best_len=%d); "+
			"the suffix array may not be a valid sorted suffix array of the dictionary for this symbol width",
		e.Offset, e.Leftmost, e.OldRightmost, e.Symbol, e.MatchingSuffix, e.BestPos, e.BestLen)
}

// Parser factorizes an input symbol stream against Dict using SA, the
// dictionary's suffix array. T is the symbol width, V the suffix-array
// entry width; they are independent type parameters because a dictionary
// may be built once and reused with suffix arrays of either width.
type Parser[T width.Unsigned, V width.Unsigned] struct {
	dict *dict.Dictionary[T]
	sa   *sarray.SuffixArray[V]
	in   *instream.Stream[T]
}

// New returns a Parser over d and sa, reading input symbols from in.
//
// If T is 64 bits wide, callers choosing the 32x2 token format should be
// aware that the format can't represent a literal symbol value >= 2^32;
// see token/fixed and the literal-semantics note above.
func New[T width.Unsigned, V width.Unsigned](d *dict.Dictionary[T], sa *sarray.SuffixArray[V], in *instream.Stream[T]) *Parser[T, V] {
	return &Parser[T, V]{dict: d, sa: sa, in: in}
}

// Next produces the next token: the longest prefix of the remaining input
// that occurs in the dictionary, or a literal, or the end sentinel once the
// input is exhausted.
func (p *Parser[T, V]) Next() (token.Token, error) {
	c, ok := p.in.Next()
	if !ok {
		return token.End, nil
	}

	offset := 0
	leftmost, rightmost := 0, p.sa.Len()-1
	matchingSuffixFound := false
	var bestPos int
	var bestLen int64

	for {
		newLeft := p.searchLeft(c, offset, leftmost, rightmost)
		if newLeft < 0 {
			if matchingSuffixFound {
				p.in.Unget(c)
				return token.Token{StartPos: p.sa.At(bestPos), Length: bestLen}, nil
			}
			return token.Token{StartPos: width.Widen(c), Length: 0}, nil
		}
		leftmost = newLeft

		oldRightmost := rightmost
		newRight := p.searchRight(c, offset, leftmost, rightmost)
		if newRight < 0 {
			err := &InvariantError{
				Offset:         offset,
				Leftmost:       leftmost,
				OldRightmost:   oldRightmost,
				Symbol:         width.Widen(c),
				MatchingSuffix: matchingSuffixFound,
				BestPos:        int64(bestPos),
				BestLen:        bestLen,
			}
			log.Error().
				Int("offset", err.Offset).
				Int("leftmost", err.Leftmost).
				Int("old_rightmost", err.OldRightmost).
				Uint64("symbol", err.Symbol).
				Msg("search_right failed on a provably non-empty range")
			return token.Token{}, err
		}
		rightmost = newRight

		bestPos = leftmost
		bestLen = int64(offset) + 1
		matchingSuffixFound = true

		if leftmost == rightmost {
			start := p.sa.At(leftmost)
			for {
				offset++
				c2, ok := p.in.Next()
				if !ok {
					return token.Token{StartPos: start, Length: int64(offset)}, nil
				}
				matched := false
				if idx := int(start) + offset; idx < p.dict.Len() {
					matched = p.dict.At(idx) == c2
				}
				if !matched {
					p.in.Unget(c2)
					return token.Token{StartPos: start, Length: int64(offset)}, nil
				}
				c = c2
			}
		}

		offset++
		c2, ok := p.in.Next()
		if !ok {
			return token.Token{StartPos: p.sa.At(leftmost), Length: int64(offset)}, nil
		}
		c = c2
	}
}

// searchLeft narrows toward the leftmost suffix index in [left, right]
// whose offset'th character equals c, returning notFound if no such suffix
// exists. End-of-dictionary sorts below every real symbol.
func (p *Parser[T, V]) searchLeft(c T, offset, left, right int) int {
	L, R := left, right
	for L <= R {
		m := (L + R) / 2
		if int(p.sa.At(m))+offset >= p.dict.Len() {
			L = m + 1
			continue
		}
		mid := p.dict.At(int(p.sa.At(m)) + offset)
		switch {
		case mid < c:
			L = m + 1
		case mid > c:
			R = m - 1
		default:
			if m == left {
				return m
			}
			if int(p.sa.At(m-1))+offset >= p.dict.Len() {
				return m
			}
			if p.dict.At(int(p.sa.At(m-1))+offset) != c {
				return m
			}
			R = m - 1
		}
	}
	return notFound
}

// searchRight is search_left's mirror image: it narrows toward the
// rightmost matching suffix index.
func (p *Parser[T, V]) searchRight(c T, offset, left, right int) int {
	L, R := left, right
	for L <= R {
		m := (L + R) / 2
		if int(p.sa.At(m))+offset >= p.dict.Len() {
			L = m + 1
			continue
		}
		mid := p.dict.At(int(p.sa.At(m)) + offset)
		switch {
		case mid < c:
			L = m + 1
		case mid > c:
			R = m - 1
		default:
			if m == right {
				return m
			}
			if int(p.sa.At(m+1))+offset >= p.dict.Len() {
				return m
			}
			if p.dict.At(int(p.sa.At(m+1))+offset) != c {
				return m
			}
			L = m + 1
		}
	}
	return notFound
}
