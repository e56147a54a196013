// Package source provides the primitives shared by every stage of the
// generator for reporting diagnostics against the original schema text: a
// read-only File, byte Spans within it, and a SyntaxError that can locate
// itself back to a physical line.
package source

import "fmt"

// Span represents a contiguous slice of the original schema text. The
// physical indices are retained (rather than a string slice) so that a
// later stage can still recover the enclosing line for a diagnostic.
type Span struct {
	start int
	end   int
}

// NewSpan constructs a span, panicking if the bounds are nonsensical.
func NewSpan(start, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Start returns the first rune index covered by this span.
func (s Span) Start() int { return s.start }

// End returns one past the last rune index covered by this span.
func (s Span) End() int { return s.end }

// Length returns the number of runes covered by this span.
func (s Span) Length() int { return s.end - s.start }

// Line identifies a single physical line within a File.
type Line struct {
	text   []rune
	span   Span
	number int
}

// Number returns the 1-indexed line number.
func (l Line) Number() int { return l.number }

// String returns the text of this line.
func (l Line) String() string { return string(l.text[l.span.start:l.span.end]) }

// File is a single schema document, held as runes so spans index by
// character rather than by (variable-width) byte.
type File struct {
	filename string
	contents []rune
}

// NewFile constructs a source file from raw bytes.
func NewFile(filename string, contents []byte) *File {
	return &File{filename, []rune(string(contents))}
}

// Filename returns the name this file was constructed with.
func (f *File) Filename() string { return f.filename }

// Contents returns the full rune sequence of this file.
func (f *File) Contents() []rune { return f.contents }

// SyntaxError constructs an error anchored to a span of this file.
func (f *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{f, span, msg}
}

// FindFirstEnclosingLine locates the first line enclosing the start of span.
// If span lies beyond the end of the file, the last line is returned.
func (f *File) FindFirstEnclosingLine(span Span) Line {
	index := span.start
	num := 1
	start := 0

	for i := 0; i < len(f.contents); i++ {
		if i == index {
			return Line{f.contents, Span{start, endOfLine(index, f.contents)}, num}
		} else if f.contents[i] == '\n' {
			num++
			start = i + 1
		}
	}

	return Line{f.contents, Span{start, len(f.contents)}, num}
}

func endOfLine(index int, text []rune) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}

	return len(text)
}

// SyntaxError is a diagnostic anchored to a span of a particular File.
// Stage 1 (the schema parser) returns these directly; later stages use their
// own error kinds (see pkg/analyzer and pkg/lower/shared), and a lowering
// error names its item but carries no span.
type SyntaxError struct {
	file *File
	span Span
	msg  string
}

// File returns the source file this error was raised against.
func (e *SyntaxError) File() *File { return e.file }

// Span returns the offending span.
func (e *SyntaxError) Span() Span { return e.span }

// Message returns the human-readable diagnostic.
func (e *SyntaxError) Message() string { return e.msg }

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	line := e.file.FindFirstEnclosingLine(e.span)
	return fmt.Sprintf("%s:%d: %s", e.file.Filename(), line.Number(), e.msg)
}
