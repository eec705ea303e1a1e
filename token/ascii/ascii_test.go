package ascii

import (
	"bytes"
	"testing"

	"github.com/eax99/rlztools/token"
)

func TestRoundTrip(t *testing.T) {
	toks := []token.Token{
		{StartPos: 0, Length: 5},
		{StartPos: 300, Length: 2},
		{StartPos: 'q', Length: 0},
	}
	var enc Encoder
	var buf []byte
	for _, tok := range toks {
		buf = enc.Encode(buf, tok)
	}

	dec := NewDecoder(bytes.NewReader(buf))
	for _, want := range toks {
		got, err := dec.Next()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	}
	end, err := dec.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !end.IsEnd() {
		t.Fatalf("expected end sentinel, got %+v", end)
	}
}

func TestWhitespaceTolerance(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte("  12\t\n  34  \n")))
	got, err := dec.Next()
	if err != nil {
		t.Fatal(err)
	}
	want := token.Token{StartPos: 12, Length: 34}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMalformedField(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte("notanumber 5")))
	_, err := dec.Next()
	if err == nil {
		t.Fatal("expected format error for non-numeric field")
	}
}
