package token

import "testing"

func TestIsEnd(t *testing.T) {
	if !End.IsEnd() {
		t.Fatal("End should report IsEnd")
	}
	if (Token{StartPos: 1, Length: 2}).IsEnd() {
		t.Fatal("non-sentinel token should not report IsEnd")
	}
}

func TestIsLiteral(t *testing.T) {
	lit := Token{StartPos: 'z', Length: 0}
	if !lit.IsLiteral() {
		t.Fatal("length-0 token should be a literal")
	}
	if End.IsLiteral() {
		t.Fatal("end sentinel must never be treated as a literal")
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{StartPos: 100, Length: 0}, "100"},
		{Token{StartPos: 0, Length: 5}, "<0,5>"},
		{End, "<end>"},
	}
	for _, c := range cases {
		if got := c.tok.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
