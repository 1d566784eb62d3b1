package inbuf

import (
	ierrors "github.com/orizon-lang/inbuf/internal/errors"
)

// FlushResult describes what a Flush did.
type FlushResult int

const (
	// FlushIdle: nothing to do, the cursor is clear of the danger zone or
	// the rest of the stream is already buffered.
	FlushIdle FlushResult = iota
	// FlushEOF: the stream is exhausted and fully consumed.
	FlushEOF
	// FlushShifted: live text moved to the front and the tail was refilled.
	FlushShifted
	// FlushDiscarded: like FlushShifted, but the current and previous
	// lexeme marks were dropped to make room. PrevText no longer refers to
	// the lexeme last passed to MarkPrev.
	FlushDiscarded
)

func (r FlushResult) String() string {
	switch r {
	case FlushIdle:
		return "idle"
	case FlushEOF:
		return "eof"
	case FlushShifted:
		return "shifted"
	case FlushDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Flush refills the store when the cursor is in the danger zone, or
// unconditionally when force is set. Text from the leftmost live mark
// (start of the current or previous lexeme, or an end mark set on its own)
// onward moves to the front of the store and the freed tail is read from
// the stream.
//
// When less than MaxLexeme bytes precede the left edge the refill would not
// leave room for a full lexeme: an unforced flush returns ErrBufferFull and
// changes nothing; a forced flush collapses both marks onto the cursor and
// reports FlushDiscarded.
//
// Do not flush while a terminator is pending unless it is meant to travel
// with the text; FlushBuf removes it first.
func (b *Buffer) Flush(force bool) (FlushResult, error) {
	if b.noMoreChars() {
		return FlushEOF, nil
	}
	if b.eofRead {
		return FlushIdle, nil
	}
	if b.next < b.danger() && !force {
		return FlushIdle, nil
	}

	result := FlushShifted
	leftEdge := b.leftEdge()

	if (b.pinned || b.ended) && leftEdge < b.cfg.MaxLexeme {
		if !force {
			return FlushIdle, ErrBufferFull
		}

		b.log.Warn("%s: forced flush discards lexeme %d:%d and previous lexeme", b.name, b.sMark, b.eMark)
		leftEdge = b.MarkStart()
		b.MarkPrev()
		result = FlushDiscarded
	}

	if !b.pinned {
		// No lexeme has been started, so the start mark sits on the end
		// mark. With no end mark either, only the unread bytes matter.
		if !b.ended {
			b.eMark = b.next
			b.mline = b.lineno
		}
		b.sMark = b.eMark
		b.sLine = b.mline
	}

	b.compact(leftEdge)
	return result, nil
}

// FlushBuf removes a pending terminator and forces a flush.
func (b *Buffer) FlushBuf() (FlushResult, error) {
	b.Unterminate()
	return b.Flush(true)
}

// leftEdge is the leftmost offset that must survive a compaction.
func (b *Buffer) leftEdge() int {
	if !b.pinned {
		if b.ended {
			return b.eMark
		}
		return b.next
	}
	edge := b.sMark
	if b.pMark >= 0 && b.pMark < edge {
		edge = b.pMark
	}
	return edge
}

// compact moves [leftEdge, endBuf) to the front, refills the tail and
// rebases every offset.
func (b *Buffer) compact(leftEdge int) {
	capacity := b.cfg.Capacity()
	oldEnd := b.endBuf
	copied := oldEnd - leftEdge

	if capacity-copied < b.cfg.MaxLexeme {
		b.die(ierrors.FlushNoRoom(leftEdge, b.cfg.MaxLexeme))
	}

	copy(b.buf, b.buf[leftEdge:oldEnd])
	got := b.fill(copied)

	shift := leftEdge
	if b.pMark >= 0 {
		b.pMark -= shift
	}
	b.sMark -= shift
	b.eMark -= shift
	b.next -= shift
	b.base += int64(shift)
	b.rebaseOverlay(shift, leftEdge, oldEnd)

	b.log.Debug("%s: flush shift=%d copied=%d read=%d eof=%v", b.name, shift, copied, got, b.eofRead)
}

// rebaseOverlay keeps a pending terminator attached to the same stream
// byte. A terminator inside the moved text travels with it. One past the
// old data, the slot now holds freshly read input, which is saved and
// re-covered. Left of the edge the byte is gone and the overlay is dropped.
func (b *Buffer) rebaseOverlay(shift, leftEdge, oldEnd int) {
	if !b.term.pending {
		return
	}

	switch pos := b.term.pos; {
	case pos < leftEdge:
		b.term = overlay{}
	case pos < oldEnd:
		b.term.pos = pos - shift
	default:
		b.term.pos = pos - shift
		b.term.saved = b.buf[b.term.pos]
		b.buf[b.term.pos] = 0
	}
}
