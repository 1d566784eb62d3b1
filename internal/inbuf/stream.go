package inbuf

import (
	"errors"
	"fmt"
)

// NewFile switches to the named file, or to standard input when path is
// empty. The previous stream is closed only after the new one opened, and
// never when it is standard input. On failure nothing changes and the
// returned error wraps the OS error.
func (b *Buffer) NewFile(path string) error {
	if path == "" {
		b.switchTo(StdinName, b.stdin, true)
		return nil
	}

	src, err := openFile(path)
	if err != nil {
		return fmt.Errorf("inbuf: %w", err)
	}
	b.switchTo(path, src, false)
	return nil
}

// NewSource switches to an already open stream. The Buffer takes ownership
// and closes src on the next switch or Close.
func (b *Buffer) NewSource(name string, src Source) error {
	if src == nil {
		return errors.New("inbuf: nil source")
	}
	b.switchTo(name, src, false)
	return nil
}

// Close releases the current stream. Bytes already buffered can still be
// scanned; no further reads happen until the next NewFile or NewSource.
func (b *Buffer) Close() error {
	b.eofRead = true
	if b.src == nil || b.srcIsStdin {
		return nil
	}
	err := b.src.Close()
	b.src = nil
	return err
}

func (b *Buffer) switchTo(name string, src Source, isStdin bool) {
	if b.src != nil && !b.srcIsStdin {
		if err := b.src.Close(); err != nil {
			b.log.Warn("%s: close: %v", b.name, err)
		}
	}

	b.src = src
	b.srcIsStdin = isStdin
	b.name = name
	b.reset()

	b.log.Info("reading %s", name)
}
