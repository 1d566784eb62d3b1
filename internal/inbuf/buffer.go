// Package inbuf implements the input system used by generated lexical
// analyzers: a fixed-size staging buffer for one input stream that tracks
// the lexeme being recognized, supports bounded lookahead and pushback, and
// refills itself from the stream without invalidating marked lexemes.
//
// The store holds 3*MaxLexeme + 2*MaxLook bytes. Every position (cursor,
// lexeme marks, previous-lexeme mark, terminator overlay) is an offset into
// the store; compaction shifts the live region to the front and subtracts
// the shift from each of them.
//
// A Buffer is not safe for concurrent use. Independent Buffers may be used
// from different goroutines.
package inbuf

import (
	"errors"

	"github.com/orizon-lang/inbuf/internal/cli"
	ierrors "github.com/orizon-lang/inbuf/internal/errors"
)

const (
	DefaultMaxLook   = 16   // maximum amount of lookahead
	DefaultMaxLexeme = 1024 // maximum lexeme size
)

// StdinName is the stream name reported while reading standard input.
const StdinName = "<stdin>"

var (
	// ErrBufferFull is returned when a voluntary refill would have to drop
	// marked text. Flush(true) or FlushBuf discards the marks and makes room.
	ErrBufferFull = errors.New("inbuf: buffer too full to flush")

	// ErrLookRange is returned by Look for positions outside the buffered window.
	ErrLookRange = errors.New("inbuf: lookahead outside buffered window")
)

// Config fixes the buffer geometry for the lifetime of a Buffer.
type Config struct {
	MaxLexeme int // L: longest lexeme guaranteed to survive a refill
	MaxLook   int // K: lookahead guaranteed to be buffered past the cursor
}

// DefaultConfig returns the standard geometry (L=1024, K=16).
func DefaultConfig() Config {
	return Config{MaxLexeme: DefaultMaxLexeme, MaxLook: DefaultMaxLook}
}

// Capacity is the store size, 3L + 2K.
func (c Config) Capacity() int {
	return 3*c.MaxLexeme + 2*c.MaxLook
}

// Validate rejects geometries the refill engine cannot honor.
func (c Config) Validate() error {
	if c.MaxLexeme < 1 {
		return ierrors.InvalidConfig("max_lexeme", c.MaxLexeme, "must be at least 1")
	}
	if c.MaxLook < 1 {
		return ierrors.InvalidConfig("max_look", c.MaxLook, "must be at least 1")
	}
	if c.MaxLook > c.MaxLexeme {
		return ierrors.InvalidConfig("max_look", c.MaxLook, "must not exceed max_lexeme")
	}
	return nil
}

// overlay is a pending terminator: the byte at pos was replaced by 0.
type overlay struct {
	pos     int
	saved   byte
	pending bool
}

// Buffer is the input engine for a single stream.
type Buffer struct {
	cfg Config
	buf []byte // capacity bytes plus one guard byte

	endBuf int // one past the last valid byte
	next   int // next input byte
	sMark  int // start of current lexeme
	eMark  int // end of current lexeme
	pMark  int // start of previous lexeme, -1 when unset

	pLineno int
	pSLine  int // start and end lines of the previous lexeme
	pELine  int
	pLength int
	lineno  int
	mline   int // line number when the end mark was set
	sLine   int // line number when the start mark was set

	eofRead bool
	primed  bool // synthetic leading newline delivered
	pinned  bool // a start or previous mark has been set on this stream
	ended   bool // an end mark has been set on this stream

	term overlay
	base int64 // stream offset of buf[0]

	src        Source
	srcIsStdin bool
	name       string
	stdin      Source

	log   *cli.Logger
	fatal func(error)
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithLogger routes engine diagnostics to l.
func WithLogger(l *cli.Logger) Option {
	return func(b *Buffer) { b.log = l }
}

// WithFatalHandler replaces the handler invoked on unrecoverable errors.
// The default prints the diagnostic and exits. If fn returns, the engine
// panics with the same error.
func WithFatalHandler(fn func(error)) Option {
	return func(b *Buffer) { b.fatal = fn }
}

// WithStdin replaces the standard input stream.
func WithStdin(src Source) Option {
	return func(b *Buffer) { b.stdin = src }
}

func defaultFatal(err error) {
	cli.ExitWithError("%v", err)
}

// New returns a Buffer reading standard input.
func New(cfg Config, opts ...Option) (*Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Buffer{
		cfg:   cfg,
		buf:   make([]byte, cfg.Capacity()+1),
		fatal: defaultFatal,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.stdin == nil {
		b.stdin = stdinSource()
	}

	b.src = b.stdin
	b.srcIsStdin = true
	b.name = StdinName
	b.reset()
	return b, nil
}

// Config returns the geometry the Buffer was built with.
func (b *Buffer) Config() Config { return b.cfg }

// reset empties the store. Marks collapse to the end so the first Advance
// forces a refill.
func (b *Buffer) reset() {
	end := b.cfg.Capacity()

	b.eofRead = false
	b.endBuf = end
	b.next = end
	b.sMark = end
	b.eMark = end
	b.pMark = -1
	b.pLineno = 0
	b.pSLine = 0
	b.pELine = 0
	b.pLength = 0
	b.lineno = 1
	b.mline = 1
	b.sLine = 1
	b.primed = false
	b.pinned = false
	b.ended = false
	b.term = overlay{}
	b.base = -int64(end)
}

func (b *Buffer) noMoreChars() bool {
	return b.eofRead && b.next >= b.endBuf
}

// danger is the offset past which the cursor triggers a refill.
func (b *Buffer) danger() int {
	return b.endBuf - b.cfg.MaxLook
}

func (b *Buffer) die(err error) {
	b.log.Error("%v", err)
	b.fatal(err)
	panic(err)
}
