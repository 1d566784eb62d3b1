package inbuf

import "io"

// Look returns the nth byte of lookahead (n == 1 is the byte Advance would
// return next) without consuming it. It returns io.EOF past the end of the
// stream and ErrLookRange outside the buffered window. Only MaxLook bytes
// are guaranteed to be buffered.
func (b *Buffer) Look(n int) (byte, error) {
	p := b.next + n - 1

	if b.eofRead && p >= b.endBuf {
		return 0, io.EOF
	}
	if p < 0 || p >= b.endBuf {
		return 0, ErrLookRange
	}
	return b.buf[p], nil
}

// Pushback un-consumes up to n bytes, never moving the cursor left of the
// start of the current lexeme. Each newline pushed back, and a pending
// terminator sentinel, decrements the line counter. The end mark follows
// the cursor if it is passed. Pushback reports whether all n bytes were
// pushed back.
func (b *Buffer) Pushback(n int) bool {
	moved := 0
	for moved < n && b.next > b.sMark {
		b.next--
		if b.buf[b.next] == '\n' || b.isSentinel(b.next) {
			b.lineno--
		}
		moved++
	}

	if b.next < b.eMark {
		b.eMark = b.next
		b.mline = b.lineno
	}

	return moved >= n
}
