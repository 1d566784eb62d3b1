package inbuf

import (
	"errors"
	"io"

	ierrors "github.com/orizon-lang/inbuf/internal/errors"
)

// Source is the byte stream a Buffer reads from.
type Source interface {
	Read(p []byte) (int, error)
	Close() error
}

// fill reads into the store from start to the end of capacity, in whole
// units of MaxLexeme. It keeps reading until the request is satisfied, so a
// short fill always means end of stream. A read error is fatal.
func (b *Buffer) fill(start int) int {
	capacity := b.cfg.Capacity()
	if start < 0 || start > capacity {
		b.die(ierrors.FillNoRoom(start, capacity))
	}

	need := ((capacity - start) / b.cfg.MaxLexeme) * b.cfg.MaxLexeme
	if need == 0 {
		b.die(ierrors.FillNoRoom(start, capacity))
	}

	got, err := io.ReadFull(b.src, b.buf[start:start+need])
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		b.eofRead = true
	default:
		b.die(ierrors.ReadFailed(b.name, err))
	}

	b.endBuf = start + got
	return got
}
