// Package position provides stream position tracking for lexemes handed
// out by the input system. Offsets are absolute within the input stream,
// independent of where the bytes currently sit in the staging buffer.
package position

import (
	"fmt"
	"path/filepath"
)

// Position represents a single point in an input stream
type Position struct {
	Filename string // Stream name ("" or "<stdin>" for standard input)
	Line     int    // 1-based line number
	Offset   int64  // 0-based byte offset in the stream
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d@%d", filepath.Base(p.Filename), p.Line, p.Offset)
	}
	return fmt.Sprintf("%d@%d", p.Line, p.Offset)
}

// Before returns true if this position comes before other
func (p Position) Before(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename < other.Filename
	}
	return p.Offset < other.Offset
}

// After returns true if this position comes after other
func (p Position) After(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename > other.Filename
	}
	return p.Offset > other.Offset
}

// Span represents a range of the stream between two positions
type Span struct {
	Start Position // Starting position (inclusive)
	End   Position // Ending position (exclusive)
}

// IsValid returns true if the span is valid
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		s.Start.Offset <= s.End.Offset
}

// String returns a string representation of the span
func (s Span) String() string {
	prefix := ""
	if s.Start.Filename != "" {
		prefix = filepath.Base(s.Start.Filename) + ":"
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s%d@%d-%d", prefix, s.Start.Line, s.Start.Offset, s.End.Offset)
	}
	return fmt.Sprintf("%s%d@%d-%d@%d", prefix, s.Start.Line, s.Start.Offset, s.End.Line, s.End.Offset)
}

// Contains returns true if the span contains the given position
func (s Span) Contains(pos Position) bool {
	if !s.IsValid() || !pos.IsValid() {
		return false
	}
	if s.Start.Filename != pos.Filename {
		return false
	}
	return s.Start.Offset <= pos.Offset && pos.Offset < s.End.Offset
}

// Length returns the length of the span in bytes
func (s Span) Length() int {
	if !s.IsValid() {
		return 0
	}
	return int(s.End.Offset - s.Start.Offset)
}

// Error represents a scanning problem with position information
type Error struct {
	Pos     Position // Position where the error occurred
	Message string   // Error message
	Kind    string   // Error kind (e.g., "lexeme", "io")
}

// String returns a formatted error message
func (e Error) String() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos.String(), e.Kind, e.Message)
}
