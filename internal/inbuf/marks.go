package inbuf

import (
	"github.com/orizon-lang/inbuf/internal/position"
)

// MarkStart starts a new lexeme at the cursor and returns its offset.
func (b *Buffer) MarkStart() int {
	b.mline = b.lineno
	b.sLine = b.lineno
	b.sMark = b.next
	b.eMark = b.next
	b.pinned = true
	return b.sMark
}

// MarkEnd ends the current lexeme at the cursor and returns its offset.
func (b *Buffer) MarkEnd() int {
	b.mline = b.lineno
	b.eMark = b.next
	b.ended = true
	return b.eMark
}

// MoveStart drops the first byte of the current lexeme. It reports false,
// leaving the lexeme alone, when the lexeme is empty.
func (b *Buffer) MoveStart() (int, bool) {
	if b.sMark >= b.eMark {
		return b.sMark, false
	}
	if b.buf[b.sMark] == '\n' {
		b.sLine++
	}
	b.sMark++
	return b.sMark, true
}

// ToMark rewinds the cursor and line counter to the last end mark.
func (b *Buffer) ToMark() int {
	b.lineno = b.mline
	b.next = b.eMark
	return b.next
}

// MarkPrev snapshots the current lexeme as the previous lexeme. A refill
// never discards text right of the previous mark voluntarily, so callers
// that use it must call it again every time they move on; it is never
// advanced automatically.
func (b *Buffer) MarkPrev() int {
	b.pMark = b.sMark
	b.pLineno = b.lineno
	b.pSLine = b.sLine
	b.pELine = b.mline
	b.pLength = b.eMark - b.sMark
	b.pinned = true
	return b.pMark
}

// Text returns the current lexeme. The slice aliases the store and is only
// valid until the next refill.
func (b *Buffer) Text() []byte {
	return b.buf[b.sMark:b.eMark:b.eMark]
}

// Lexeme returns a copy of the current lexeme.
func (b *Buffer) Lexeme() string {
	return string(b.buf[b.sMark:b.eMark])
}

// Length returns the current lexeme length.
func (b *Buffer) Length() int { return b.eMark - b.sMark }

// Line returns the current line number.
func (b *Buffer) Line() int { return b.lineno }

// PrevText returns the previous lexeme, nil if MarkPrev was never called.
func (b *Buffer) PrevText() []byte {
	if b.pMark < 0 {
		return nil
	}
	end := b.pMark + b.pLength
	return b.buf[b.pMark:end:end]
}

// PrevLength returns the previous lexeme length.
func (b *Buffer) PrevLength() int { return b.pLength }

// PrevLine returns the line number recorded by MarkPrev.
func (b *Buffer) PrevLine() int { return b.pLineno }

// Name returns the name of the current stream.
func (b *Buffer) Name() string { return b.name }

// Pos returns the stream position of the cursor.
func (b *Buffer) Pos() position.Position {
	return b.posAt(b.next, b.lineno)
}

// Span returns the stream extent of the current lexeme.
func (b *Buffer) Span() position.Span {
	return position.Span{
		Start: b.posAt(b.sMark, b.sLine),
		End:   b.posAt(b.eMark, b.mline),
	}
}

// PrevSpan returns the stream extent of the previous lexeme.
func (b *Buffer) PrevSpan() position.Span {
	if b.pMark < 0 {
		return position.Span{}
	}
	return position.Span{
		Start: b.posAt(b.pMark, b.pSLine),
		End:   b.posAt(b.pMark+b.pLength, b.pELine),
	}
}

func (b *Buffer) posAt(off, line int) position.Position {
	return position.Position{Filename: b.name, Line: line, Offset: b.base + int64(off)}
}
