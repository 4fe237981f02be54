package core

// streaming.go wraps upload readers so the parser sees clean UTF-8:
//
//   - bomSkipper drops a leading UTF-8 byte-order mark (0xEF 0xBB 0xBF)
//   - UTF8Sanitizer replaces invalid bytes with '?'
//   - CountingReader records how many bytes the parser consumed
//
// NewImportReader applies all three in order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomSkipper discards a leading BOM on first read.
type bomSkipper struct {
	r       *bufio.Reader
	checked bool
}

// NewBOMSkippingReader returns a reader that drops a leading UTF-8 BOM.
func NewBOMSkippingReader(r io.Reader) io.Reader {
	return &bomSkipper{r: bufio.NewReader(r)}
}

func (b *bomSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, err := b.r.Peek(len(utf8BOM))
		if err != nil && err != io.EOF {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := b.r.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return b.r.Read(p)
}

// UTF8Sanitizer replaces invalid UTF-8 bytes with '?' while streaming.
// A multi-byte sequence split across underlying reads is held back until the
// rest arrives.
type UTF8Sanitizer struct {
	reader  io.Reader
	scratch []byte
	raw     []byte // undecoded input, at most one incomplete sequence between reads
	out     []byte // sanitized bytes not yet returned
	outBuf  []byte
	err     error
}

// NewUTF8Sanitizer creates a sanitizer over r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{
		reader:  r,
		scratch: make([]byte, 4096),
	}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(s.out) == 0 && s.err == nil {
		n, err := s.reader.Read(s.scratch)
		s.raw = append(s.raw, s.scratch[:n]...)
		s.err = err
		s.out = s.drain(err != nil)
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	if len(s.out) == 0 && s.err != nil {
		return n, s.err
	}
	return n, nil
}

// drain sanitizes the buffered input. Unless atEOF, an incomplete trailing
// sequence stays in raw for the next read.
func (s *UTF8Sanitizer) drain(atEOF bool) []byte {
	data := s.raw
	if isASCII(data) {
		s.outBuf = append(s.outBuf[:0], data...)
		s.raw = s.raw[:0]
		return s.outBuf
	}

	out := s.outBuf[:0]
	read := 0
	for read < len(data) {
		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && utf8.RuneStart(data[read]) && !utf8.FullRune(data[read:]) {
				break
			}
			out = append(out, '?')
			read++
			continue
		}
		out = append(out, data[read:read+size]...)
		read += size
	}

	s.raw = append(s.raw[:0], data[read:]...)
	s.outBuf = out
	return out
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// CountingReader tracks bytes read through it.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// NewImportReader strips the BOM, sanitizes UTF-8 and counts bytes.
func NewImportReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: NewUTF8Sanitizer(NewBOMSkippingReader(r))}
}
