package cstyle

import (
	"bytes"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies the detected text encoding of a source file
type Encoding string

const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingUTF8BOM Encoding = "utf-8-bom"
	EncodingUTF16LE Encoding = "utf-16le"
	EncodingUTF16BE Encoding = "utf-16be"
	EncodingLatin1  Encoding = "latin-1"
)

// LineEnding identifies the detected line-ending style of a source file
type LineEnding string

const (
	EndingLF   LineEnding = "\n"
	EndingCRLF LineEnding = "\r\n"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// SourceFile holds the decoded line sequence of one file together with
// everything needed to write it back byte-for-byte outside of edited
// regions: encoding, line-ending style and final-newline presence.
type SourceFile struct {
	Path     string
	Lines    []string
	Encoding Encoding
	Ending   LineEnding

	mode            os.FileMode
	trailingNewline bool
	modified        bool
}

// ReadSource reads and decodes a file into a SourceFile.
// Decoding tries UTF-8 first, then BOM-signalled encodings, then falls back
// to a statistical Latin-1 heuristic. Undecodable content is an encoding
// error; an unreadable path is a filesystem error.
func ReadSource(fs afero.Fs, path string) (*SourceFile, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, WithFile(NewFSError("failed to read file", err), path)
	}

	mode := os.FileMode(0o644)
	if info, statErr := fs.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	enc, text, err := decodeBytes(raw)
	if err != nil {
		return nil, WithFile(err, path)
	}

	ending := EndingLF
	if strings.Contains(text, "\r\n") {
		ending = EndingCRLF
	}

	trailing := strings.HasSuffix(text, "\n")
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.TrimSuffix(normalized, "\n")

	var lines []string
	if len(raw) > 0 {
		lines = strings.Split(normalized, "\n")
	}

	return &SourceFile{
		Path:            path,
		Lines:           lines,
		Encoding:        enc,
		Ending:          ending,
		mode:            mode,
		trailingNewline: trailing,
	}, nil
}

// decodeBytes detects the encoding of raw content and decodes it to a string
func decodeBytes(raw []byte) (Encoding, string, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return EncodingUTF8BOM, string(raw[len(bomUTF8):]), nil
	case bytes.HasPrefix(raw, bomUTF16LE):
		return decodeWith(EncodingUTF16LE, raw)
	case bytes.HasPrefix(raw, bomUTF16BE):
		return decodeWith(EncodingUTF16BE, raw)
	}

	if utf8.Valid(raw) {
		return EncodingUTF8, string(raw), nil
	}

	if looksLikeLatin1(raw) {
		return decodeWith(EncodingLatin1, raw)
	}

	return "", "", NewEncodingError("content is not valid UTF-8 and no fallback encoding matched", nil)
}

func decodeWith(enc Encoding, raw []byte) (Encoding, string, error) {
	decoded, err := transformerFor(enc).NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", NewEncodingError("failed to decode content as "+string(enc), err)
	}
	return enc, string(decoded), nil
}

// transformerFor maps a detected encoding to its x/text implementation
func transformerFor(enc Encoding) encoding.Encoding {
	switch enc {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case EncodingLatin1:
		return charmap.ISO8859_1
	default:
		return unicode.UTF8
	}
}

// looksLikeLatin1 is the statistical fallback: text with no NUL bytes and a
// low fraction of non-text control characters is treated as Latin-1.
func looksLikeLatin1(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}

	control := 0
	for _, b := range raw {
		if b == 0x00 {
			return false
		}
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			control++
		}
	}

	return float64(control)/float64(len(raw)) < 0.05
}

// SetLines replaces the line sequence and marks the file as modified
func (f *SourceFile) SetLines(lines []string) {
	f.Lines = lines
	f.modified = true
	if len(lines) > 0 {
		f.trailingNewline = true
	}
}

// InsertLines inserts lines before index i and marks the file as modified
func (f *SourceFile) InsertLines(i int, lines ...string) {
	if i < 0 {
		i = 0
	}
	if i > len(f.Lines) {
		i = len(f.Lines)
	}
	updated := make([]string, 0, len(f.Lines)+len(lines))
	updated = append(updated, f.Lines[:i]...)
	updated = append(updated, lines...)
	updated = append(updated, f.Lines[i:]...)
	f.SetLines(updated)
}

// RemoveLines removes the half-open line range [from, to) and marks the file
// as modified
func (f *SourceFile) RemoveLines(from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(f.Lines) {
		to = len(f.Lines)
	}
	if from >= to {
		return
	}
	updated := make([]string, 0, len(f.Lines)-(to-from))
	updated = append(updated, f.Lines[:from]...)
	updated = append(updated, f.Lines[to:]...)
	f.SetLines(updated)
}

// ReplaceLine replaces the line at index i and marks the file as modified
func (f *SourceFile) ReplaceLine(i int, line string) {
	if i < 0 || i >= len(f.Lines) {
		return
	}
	f.Lines[i] = line
	f.modified = true
}

// Modified reports whether the in-memory content diverged from disk
func (f *SourceFile) Modified() bool {
	return f.modified
}

// Content renders the current line sequence in the file's original
// line-ending style, without re-encoding.
func (f *SourceFile) Content() string {
	if len(f.Lines) == 0 {
		return ""
	}
	text := strings.Join(f.Lines, string(f.Ending))
	if f.trailingNewline {
		text += string(f.Ending)
	}
	return text
}

// Write flushes the line sequence back to disk in the original encoding and
// line-ending style. The write is whole-file, not transactional.
func (f *SourceFile) Write(fs afero.Fs) error {
	text := f.Content()

	var raw []byte
	switch f.Encoding {
	case EncodingUTF8:
		raw = []byte(text)
	case EncodingUTF8BOM:
		raw = append(append([]byte{}, bomUTF8...), text...)
	default:
		encoded, err := transformerFor(f.Encoding).NewEncoder().Bytes([]byte(text))
		if err != nil {
			return WithFile(NewEncodingError("failed to encode content as "+string(f.Encoding), err), f.Path)
		}
		raw = encoded
	}

	if err := afero.WriteFile(fs, f.Path, raw, f.mode); err != nil {
		return WithFile(NewFSError("failed to write file", err), f.Path)
	}

	f.modified = false
	return nil
}
