package inbuf

import "io"

// Advance returns the next input byte and moves past it. It returns io.EOF
// once the stream is exhausted and ErrBufferFull when a refill is due but
// would drop marked text; Flush(true) recovers from the latter at the cost
// of the marks.
//
// The first call on a stream yields a synthetic '\n' so start-of-line
// anchors match the first real line. The line counter is pre-decremented
// so that line still reports as 1.
func (b *Buffer) Advance() (byte, error) {
	if !b.primed {
		b.prime()
	}

	if b.noMoreChars() {
		return 0, io.EOF
	}

	if !b.eofRead {
		if _, err := b.Flush(false); err != nil {
			return 0, err
		}
		if b.noMoreChars() {
			return 0, io.EOF
		}
	}

	c := b.buf[b.next]
	if c == '\n' {
		b.lineno++
	}
	b.next++
	return c, nil
}

func (b *Buffer) prime() {
	end := b.cfg.Capacity()
	b.next = end - 1
	b.sMark = b.next
	b.eMark = b.next
	b.buf[b.next] = '\n'
	b.lineno--
	b.mline--
	b.sLine = b.mline
	b.primed = true
}
