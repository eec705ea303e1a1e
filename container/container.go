// Package container wraps an already-encoded RLZ token stream in an
// optional general-purpose compressor, for at-rest storage. It sits
// strictly outside the token codec: rlzparse and rlzunparse read and write
// exactly the bytes the wire formats specify, and a container is applied or
// removed at the file-open boundary, the same way flate.NewWriter wraps an
// arbitrary io.Writer without its caller's encoding logic knowing about it.
package container

import (
	"fmt"
	"hash/crc32"
	"io"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format selects an outer compressor for a token stream.
type Format string

const (
	// None passes bytes through unchanged — the default, unwrapped
	// behavior of the token codec on its own.
	None   Format = "none"
	Gzip   Format = "gzip"
	Snappy Format = "snappy"
	LZ4    Format = "lz4"
	Brotli Format = "brotli"
	Zstd   Format = "zstd"
)

// ErrUnknownFormat is returned by Wrap/Unwrap for a Format other than the
// six named constants (or the empty string, which means None).
var ErrUnknownFormat = fmt.Errorf("container: unknown format")

// Wrap returns an io.WriteCloser that applies f to everything written to it
// before forwarding the compressed bytes to w. Callers must Close the
// returned writer to flush trailing compressed data; closing it does not
// close w.
func Wrap(w io.Writer, f Format) (io.WriteCloser, error) {
	switch f {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		return newGzipWriter(w), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case Brotli:
		return brotli.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Unwrap returns an io.Reader that decompresses f-encoded bytes read from r.
func Unwrap(r io.Reader, f Format) (io.Reader, error) {
	switch f {
	case None, "":
		return r, nil
	case Gzip:
		return newGzipReader(r), nil
	case Snappy:
		return snappy.NewReader(r), nil
	case LZ4:
		return lz4.NewReader(r), nil
	case Brotli:
		return brotli.NewReader(r), nil
	case Zstd:
		return zstd.NewReader(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// gzipWriter writes the gzip container framing — a 10-byte header, then a
// deflate stream, then an 8-byte CRC32+length trailer — delegating the
// deflate work itself to klauspost/compress/flate rather than re-deriving a
// compressor.
type gzipWriter struct {
	dst  io.Writer
	fw   *flate.Writer
	crc  uint32
	size uint32
	err  error
}

func newGzipWriter(w io.Writer) *gzipWriter {
	fw, _ := flate.NewWriter(w, flate.DefaultCompression)
	g := &gzipWriter{dst: w, fw: fw}
	g.err = g.writeHeader()
	return g
}

func (g *gzipWriter) writeHeader() error {
	header := make([]byte, 0, 10)
	header = append(header, 0x1f, 0x8b, 8, 0)
	header = appendUint32(header, uint32(time.Now().Unix()))
	header = append(header, 0, 255)
	_, err := g.dst.Write(header)
	return err
}

func (g *gzipWriter) Write(p []byte) (int, error) {
	if g.err != nil {
		return 0, g.err
	}
	n, err := g.fw.Write(p)
	g.crc = crc32.Update(g.crc, crc32.IEEETable, p[:n])
	g.size += uint32(n)
	return n, err
}

func (g *gzipWriter) Close() error {
	if g.err != nil {
		return g.err
	}
	if err := g.fw.Close(); err != nil {
		return err
	}
	trailer := appendUint32(appendUint32(nil, g.crc), g.size)
	_, err := g.dst.Write(trailer)
	return err
}

// gzipReader is the mirror image of gzipWriter: it discards the fixed
// 10-byte header this package always writes, decompresses the deflate body
// with klauspost/compress/flate, and validates the CRC32+length trailer
// once the body is exhausted.
type gzipReader struct {
	src        io.Reader
	fr         io.ReadCloser
	headerRead bool
	headerErr  error
	crc        uint32
	size       uint32
	done       bool
}

func newGzipReader(r io.Reader) *gzipReader {
	return &gzipReader{src: r}
}

func (g *gzipReader) readHeader() error {
	header := make([]byte, 10)
	if _, err := io.ReadFull(g.src, header); err != nil {
		return fmt.Errorf("container: gzip header: %w", err)
	}
	if header[0] != 0x1f || header[1] != 0x8b || header[2] != 8 {
		return fmt.Errorf("container: not a recognized gzip container")
	}
	g.fr = flate.NewReader(g.src)
	return nil
}

func (g *gzipReader) Read(p []byte) (int, error) {
	if !g.headerRead {
		g.headerRead = true
		g.headerErr = g.readHeader()
	}
	if g.headerErr != nil {
		return 0, g.headerErr
	}
	if g.done {
		return 0, io.EOF
	}

	n, err := g.fr.Read(p)
	g.crc = crc32.Update(g.crc, crc32.IEEETable, p[:n])
	g.size += uint32(n)
	if err == io.EOF {
		g.done = true
		if verr := g.verifyTrailer(); verr != nil {
			return n, verr
		}
	}
	return n, err
}

func (g *gzipReader) verifyTrailer() error {
	trailer := make([]byte, 8)
	if _, err := io.ReadFull(g.src, trailer); err != nil {
		return fmt.Errorf("container: gzip trailer: %w", err)
	}
	wantCRC := readUint32(trailer[:4])
	wantSize := readUint32(trailer[4:])
	if wantCRC != g.crc || wantSize != g.size {
		return fmt.Errorf("container: gzip trailer mismatch: crc %08x/%08x size %d/%d",
			g.crc, wantCRC, g.size, wantSize)
	}
	return nil
}

func appendUint32(dst []byte, n uint32) []byte {
	return append(dst, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
}

func readUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
