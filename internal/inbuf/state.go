package inbuf

// State is a snapshot of the engine's offsets, for diagnostics and tests.
type State struct {
	Stream      string
	Capacity    int
	EndValid    int
	Cursor      int
	StartMark   int
	EndMark     int
	PrevMark    int // -1 when unset
	PrevLength  int
	PrevLine    int
	Line        int
	LineAtMark  int
	EOFSeen     bool
	Pinned      bool
	TermPending bool
	TermPos     int
	TermSaved   byte
	StreamBase  int64
}

// State returns a snapshot of the current offsets.
func (b *Buffer) State() State {
	return State{
		Stream:      b.name,
		Capacity:    b.cfg.Capacity(),
		EndValid:    b.endBuf,
		Cursor:      b.next,
		StartMark:   b.sMark,
		EndMark:     b.eMark,
		PrevMark:    b.pMark,
		PrevLength:  b.pLength,
		PrevLine:    b.pLineno,
		Line:        b.lineno,
		LineAtMark:  b.mline,
		EOFSeen:     b.eofRead,
		Pinned:      b.pinned,
		TermPending: b.term.pending,
		TermPos:     b.term.pos,
		TermSaved:   b.term.saved,
		StreamBase:  b.base,
	}
}
