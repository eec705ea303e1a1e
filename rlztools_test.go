package rlztools

import (
	"bytes"
	"testing"

	"github.com/eax99/rlztools/container"
	"github.com/eax99/rlztools/token"
)

// naiveSuffixArray builds a 32-bit little-endian suffix array file for a
// small byte dictionary, good enough for facade-level tests; production
// callers supply a precomputed one.
func naiveSuffixArray(d string) []byte {
	n := len(d)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	less := func(i, j int) bool { return d[idx[i]:] < d[idx[j]:] }
	for i := 1; i < n; i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	raw := make([]byte, 0, n*4)
	for _, v := range idx {
		u := uint32(v)
		raw = append(raw, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
	}
	return raw
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	dictStr := "abracadabraabracadabramississippi"
	input := "abracadabramississippithequickbrownfox"
	saBytes := naiveSuffixArray(dictStr)

	formats := []token.Format{token.Format32x2, token.Format64x2, token.FormatASCII, token.FormatVbyte}
	containers := []container.Format{container.None, container.Gzip, container.Snappy, container.LZ4, container.Brotli, container.Zstd}

	for _, tf := range formats {
		for _, cf := range containers {
			opts := Options{SymbolWidthBits: 8, SAWidthBits: 32, TokenFormat: tf, Container: cf}

			var encoded bytes.Buffer
			nTok, err := Compress(bytes.NewReader([]byte(dictStr)), bytes.NewReader(saBytes), bytes.NewReader([]byte(input)), &encoded, opts)
			if err != nil {
				t.Fatalf("format %s/%s: Compress: %v", tf, cf, err)
			}
			if nTok == 0 {
				t.Fatalf("format %s/%s: expected at least one token", tf, cf)
			}

			var out bytes.Buffer
			nRead, nWritten, err := Decompress(bytes.NewReader([]byte(dictStr)), &encoded, &out, opts, 0, 0)
			if err != nil {
				t.Fatalf("format %s/%s: Decompress: %v", tf, cf, err)
			}
			if nRead != nTok {
				t.Fatalf("format %s/%s: tokens_read=%d, want %d", tf, cf, nRead, nTok)
			}
			if out.String() != input {
				t.Fatalf("format %s/%s: got %q, want %q", tf, cf, out.String(), input)
			}
			if nWritten != int64(len(input)) {
				t.Fatalf("format %s/%s: symbols_written=%d, want %d", tf, cf, nWritten, len(input))
			}
		}
	}
}

func TestCompressWindowedDecompress(t *testing.T) {
	dictStr := "abracadabra"
	input := "abracadabraabracadabra"
	saBytes := naiveSuffixArray(dictStr)
	opts := Options{SymbolWidthBits: 8, SAWidthBits: 32, TokenFormat: token.FormatVbyte, Container: container.None}

	var encoded bytes.Buffer
	if _, err := Compress(bytes.NewReader([]byte(dictStr)), bytes.NewReader(saBytes), bytes.NewReader([]byte(input)), &encoded, opts); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	_, _, err := Decompress(bytes.NewReader([]byte(dictStr)), bytes.NewReader(encoded.Bytes()), &out, opts, 3, 8)
	if err != nil {
		t.Fatal(err)
	}
	want := input[2:8]
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestUnsupportedWidthIsRejected(t *testing.T) {
	opts := Options{SymbolWidthBits: 24, SAWidthBits: 32, TokenFormat: token.FormatVbyte}
	_, err := Compress(bytes.NewReader(nil), bytes.NewReader(nil), bytes.NewReader(nil), &bytes.Buffer{}, opts)
	if err == nil {
		t.Fatal("expected an error for an unsupported symbol width")
	}
}
