package inbuf

// Terminate replaces the byte at the cursor with 0 so the text up to the
// cursor reads as a NUL-terminated string in place. The replaced byte is
// kept until Unterminate. A terminator already pending is restored first.
func (b *Buffer) Terminate() {
	if b.term.pending {
		b.Unterminate()
	}
	b.term = overlay{pos: b.next, saved: b.buf[b.next], pending: true}
	b.buf[b.next] = 0
}

// Unterminate restores the byte replaced by Terminate. It does nothing when
// no terminator is pending.
func (b *Buffer) Unterminate() {
	if !b.term.pending {
		return
	}
	b.buf[b.term.pos] = b.term.saved
	b.term = overlay{}
}

// Terminated reports whether a terminator is pending.
func (b *Buffer) Terminated() bool { return b.term.pending }

func (b *Buffer) isSentinel(off int) bool {
	return b.term.pending && b.term.pos == off
}

// Input is Advance for callers keeping the lexeme terminated: it lifts a
// pending terminator, advances, extends the end mark to the cursor and
// terminates again.
func (b *Buffer) Input() (byte, error) {
	pending := b.term.pending
	if pending {
		b.Unterminate()
	}

	c, err := b.Advance()
	b.MarkEnd()

	if pending {
		b.Terminate()
	}
	return c, err
}

// Uninput pushes one byte back and overwrites it with c, keeping a pending
// terminator in place at the new cursor. It reports false when the cursor
// is already at the start of the lexeme.
func (b *Buffer) Uninput(c byte) bool {
	pending := b.term.pending
	if pending {
		b.Unterminate()
	}

	ok := b.Pushback(1)
	if ok {
		b.buf[b.next] = c
	}

	if pending {
		b.Terminate()
	}
	return ok
}

// Lookahead is Look that sees through a pending terminator.
func (b *Buffer) Lookahead(n int) (byte, error) {
	c, err := b.Look(n)
	if err == nil && b.isSentinel(b.next+n-1) {
		return b.term.saved, nil
	}
	return c, err
}
