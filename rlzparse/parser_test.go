package rlzparse

import (
	"strings"
	"testing"

	"github.com/eax99/rlztools/dict"
	"github.com/eax99/rlztools/instream"
	"github.com/eax99/rlztools/sarray"
	"github.com/eax99/rlztools/token"
)

// buildSA computes the naive O(n^2 log n) suffix array of a byte dictionary,
// good enough for small test fixtures; production callers load a
// precomputed array instead.
func buildSA(d string) []uint32 {
	n := len(d)
	sa := make([]uint32, n)
	for i := range sa {
		sa[i] = uint32(i)
	}
	less := func(i, j int) bool { return d[sa[i]:] < d[sa[j]:] }
	// insertion sort; n is tiny in these fixtures
	for i := 1; i < n; i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			sa[j], sa[j-1] = sa[j-1], sa[j]
		}
	}
	return sa
}

func newFixture(t *testing.T, dictStr, input string) *Parser[uint8, uint32] {
	t.Helper()
	d := dict.FromBytes[uint8]([]byte(dictStr))
	saEntries := buildSA(dictStr)
	raw := make([]byte, 0, len(saEntries)*4)
	for _, e := range saEntries {
		raw = append(raw, byte(e), byte(e>>8), byte(e>>16), byte(e>>24))
	}
	sa := sarray.FromBytes[uint32](raw)
	in := instream.New[uint8](strings.NewReader(input))
	return New[uint8, uint32](d, sa, in)
}

func TestScenarioFullMatch(t *testing.T) {
	// D="abracadabra", input="abrac" -> a single token (0,5).
	p := newFixture(t, "abracadabra", "abrac")
	tok, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok != (token.Token{StartPos: 0, Length: 5}) {
		t.Fatalf("got %+v, want (0,5)", tok)
	}
	end, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !end.IsEnd() {
		t.Fatalf("expected end sentinel, got %+v", end)
	}
}

func TestScenarioPartialMatchThenLiteral(t *testing.T) {
	// D="abc", input="abd" -> (0,2) then literal('d',0).
	p := newFixture(t, "abc", "abd")
	tok, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok != (token.Token{StartPos: 0, Length: 2}) {
		t.Fatalf("got %+v, want (0,2)", tok)
	}
	tok, err = p.Next()
	if err != nil {
		t.Fatal(err)
	}
	want := token.Token{StartPos: 'd', Length: 0}
	if tok != want {
		t.Fatalf("got %+v, want %+v", tok, want)
	}
	if !tok.IsLiteral() {
		t.Fatal("expected a literal token")
	}
	end, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !end.IsEnd() {
		t.Fatalf("expected end sentinel, got %+v", end)
	}
}

func TestScenarioNoMatchAtAll(t *testing.T) {
	// D="xy", input="z" -> literal('z',0) immediately: z never matches even
	// at offset 0, so search_left fails before any suffix is ever accepted.
	p := newFixture(t, "xy", "z")
	tok, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	want := token.Token{StartPos: 'z', Length: 0}
	if tok != want {
		t.Fatalf("got %+v, want %+v", tok, want)
	}
	end, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !end.IsEnd() {
		t.Fatalf("expected end sentinel, got %+v", end)
	}
}

func TestScenarioAmbiguousMatchResolvesToAPrefixOccurrence(t *testing.T) {
	// "abra" occurs twice in "abracadabra" (at 0 and at 7); the second
	// occurrence is also a suffix of the dictionary, so the candidate range
	// narrows to two tied entries and input EOF settles the tie.
	p := newFixture(t, "abracadabra", "abra")
	tok, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Length != 4 {
		t.Fatalf("got length %d, want 4", tok.Length)
	}
	if string([]byte("abracadabra")[tok.StartPos:tok.StartPos+uint64(tok.Length)]) != "abra" {
		t.Fatalf("token %+v does not resolve to the matched text", tok)
	}
}

func TestScenarioEmptyInput(t *testing.T) {
	p := newFixture(t, "abracadabra", "")
	tok, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !tok.IsEnd() {
		t.Fatalf("empty input should immediately yield the end sentinel, got %+v", tok)
	}
}

func TestParserTokensReconstructInput(t *testing.T) {
	dictStr := "abracadabra"
	input := "cadabraabracad"
	p := newFixture(t, dictStr, input)

	var out strings.Builder
	for {
		tok, err := p.Next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.IsEnd() {
			break
		}
		if tok.IsLiteral() {
			out.WriteByte(byte(tok.StartPos))
			continue
		}
		out.WriteString(dictStr[tok.StartPos : tok.StartPos+uint64(tok.Length)])
	}
	if out.String() != input {
		t.Fatalf("reconstructed %q, want %q", out.String(), input)
	}
}
