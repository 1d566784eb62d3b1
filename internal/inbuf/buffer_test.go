package inbuf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierrors "github.com/orizon-lang/inbuf/internal/errors"
)

// newBuffer returns a Buffer over input whose fatal handler returns, so
// fatal conditions surface as panics that catchFatal can recover.
func newBuffer(t *testing.T, maxLexeme, maxLook int, input string, opts ...Option) *Buffer {
	t.Helper()
	opts = append([]Option{WithFatalHandler(func(error) {})}, opts...)
	b, err := New(Config{MaxLexeme: maxLexeme, MaxLook: maxLook}, opts...)
	require.NoError(t, err)
	require.NoError(t, b.NewSource("test", io.NopCloser(strings.NewReader(input))))
	return b
}

func catchFatal(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	f()
	return nil
}

func advanceN(t *testing.T, b *Buffer, n int) []byte {
	t.Helper()
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		c, err := b.Advance()
		require.NoError(t, err, "advance %d", i)
		out = append(out, c)
	}
	return out
}

func randomInput(seed int64, n int) string {
	r := rand.New(rand.NewSource(seed))
	alphabet := []byte("abcdefghijklmnopqrstuvwxyz0123456789 \t\n\n\x00{}")
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"small", Config{MaxLexeme: 8, MaxLook: 2}, true},
		{"minimal", Config{MaxLexeme: 1, MaxLook: 1}, true},
		{"zero lexeme", Config{MaxLexeme: 0, MaxLook: 1}, false},
		{"zero look", Config{MaxLexeme: 8, MaxLook: 0}, false},
		{"look exceeds lexeme", Config{MaxLexeme: 4, MaxLook: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ierrors.ErrInvalidConfig)

			_, err = New(tt.cfg)
			assert.ErrorIs(t, err, ierrors.ErrInvalidConfig)
		})
	}

	assert.Equal(t, 3*1024+2*16, DefaultConfig().Capacity())
	assert.Equal(t, 28, Config{MaxLexeme: 8, MaxLook: 2}.Capacity())
}

func TestAdvance_Scenario(t *testing.T) {
	b := newBuffer(t, 8, 2, "ab\ncd")

	c, err := b.Advance()
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), c, "synthetic leading newline")
	assert.Equal(t, 1, b.Line())

	b.MarkStart()
	assert.Equal(t, []byte("ab"), advanceN(t, b, 2))
	b.MarkEnd()

	assert.Equal(t, "ab", string(b.Text()))
	assert.Equal(t, "ab", b.Lexeme())
	assert.Equal(t, 2, b.Length())
	assert.Equal(t, 1, b.Line())

	span := b.Span()
	assert.Equal(t, int64(0), span.Start.Offset)
	assert.Equal(t, int64(2), span.End.Offset)
	assert.Equal(t, 1, span.Start.Line)
	assert.Equal(t, "test", span.Start.Filename)

	c, err = b.Advance()
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), c)
	assert.Equal(t, 2, b.Line())

	assert.Equal(t, []byte("cd"), advanceN(t, b, 2))

	_, err = b.Advance()
	assert.ErrorIs(t, err, io.EOF)
	_, err = b.Advance()
	assert.ErrorIs(t, err, io.EOF, "end of stream is sticky")
}

func TestAdvance_EmptyStream(t *testing.T) {
	b := newBuffer(t, 8, 2, "")

	c, err := b.Advance()
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), c)

	_, err = b.Advance()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, b.Line())
}

// Without marks every byte comes back exactly once, in order, across any
// number of compactions; the line counter and stream offset stay in step.
func TestAdvance_StreamsWholeInput(t *testing.T) {
	geometries := []Config{
		{MaxLexeme: 1, MaxLook: 1},
		{MaxLexeme: 8, MaxLook: 2},
		{MaxLexeme: 16, MaxLook: 4},
		{MaxLexeme: 64, MaxLook: 64},
		DefaultConfig(),
	}
	sizes := []int{0, 1, 7, 8, 24, 25, 100, 1000, 5000}

	for _, cfg := range geometries {
		for _, size := range sizes {
			t.Run(fmt.Sprintf("L%d_K%d_n%d", cfg.MaxLexeme, cfg.MaxLook, size), func(t *testing.T) {
				input := randomInput(int64(size), size)
				b := newBuffer(t, cfg.MaxLexeme, cfg.MaxLook, input)

				c, err := b.Advance()
				require.NoError(t, err)
				require.Equal(t, byte('\n'), c)

				var got bytes.Buffer
				lines := 1
				for {
					require.Equal(t, int64(got.Len()), b.Pos().Offset)

					c, err := b.Advance()
					if errors.Is(err, io.EOF) {
						break
					}
					require.NoError(t, err)
					got.WriteByte(c)
					if c == '\n' {
						lines++
					}
					require.Equal(t, lines, b.Line(), "line after byte %d", got.Len()-1)
				}

				assert.Equal(t, input, got.String())
			})
		}
	}
}

func TestMarks_MoveStartAndToMark(t *testing.T) {
	b := newBuffer(t, 8, 2, "ab\ncd")
	advanceN(t, b, 1)

	b.MarkStart()
	advanceN(t, b, 2)
	b.MarkEnd()
	assert.Equal(t, []byte("\nc"), advanceN(t, b, 2))
	assert.Equal(t, 2, b.Line())

	b.ToMark()
	assert.Equal(t, 1, b.Line())
	assert.Equal(t, []byte("\n"), advanceN(t, b, 1), "rescans from the end mark")

	b.ToMark()
	_, ok := b.MoveStart()
	assert.True(t, ok)
	assert.Equal(t, "b", b.Lexeme())
	_, ok = b.MoveStart()
	assert.True(t, ok)
	assert.Equal(t, "", b.Lexeme())
	_, ok = b.MoveStart()
	assert.False(t, ok, "cannot shrink an empty lexeme")
	assert.Equal(t, 0, b.Length())
}

func TestMarks_PrevIsExplicit(t *testing.T) {
	b := newBuffer(t, 8, 2, "one two")
	advanceN(t, b, 1)

	assert.Nil(t, b.PrevText())

	b.MarkStart()
	advanceN(t, b, 3)
	b.MarkEnd()
	b.MarkPrev()

	advanceN(t, b, 1)
	b.MarkStart()
	advanceN(t, b, 3)
	b.MarkEnd()

	assert.Equal(t, "two", b.Lexeme())
	assert.Equal(t, "one", string(b.PrevText()), "not advanced without MarkPrev")
	assert.Equal(t, 3, b.PrevLength())
	assert.Equal(t, 1, b.PrevLine())
	assert.Equal(t, int64(0), b.PrevSpan().Start.Offset)

	b.MarkPrev()
	assert.Equal(t, "two", string(b.PrevText()))
}

func TestText_DoesNotAliasPastLexeme(t *testing.T) {
	b := newBuffer(t, 8, 2, "abcdef")
	advanceN(t, b, 1)
	b.MarkStart()
	advanceN(t, b, 2)
	b.MarkEnd()

	text := append(b.Text(), 'Z')
	assert.Equal(t, "abZ", string(text))

	c, err := b.Advance()
	require.NoError(t, err)
	assert.Equal(t, byte('c'), c, "appending to Text must not clobber the store")
}

func TestMarks_PrevSpanAcrossLines(t *testing.T) {
	b := newBuffer(t, 8, 2, "a\nb c")
	advanceN(t, b, 1)

	b.MarkStart()
	advanceN(t, b, 3)
	b.MarkEnd()
	b.MarkPrev()

	span := b.PrevSpan()
	assert.Equal(t, 1, span.Start.Line)
	assert.Equal(t, 2, span.End.Line)
	assert.Equal(t, int64(0), span.Start.Offset)
	assert.Equal(t, int64(3), span.End.Offset)
	assert.Equal(t, 2, b.PrevLine())
}

// Every lexeme of up to L bytes comes back intact wherever it starts,
// including when a refill lands inside it.
func TestMarks_TextIsConsumedBytes(t *testing.T) {
	const maxLexeme = 8
	stream := "\n" + longInput

	for start := 0; start+maxLexeme <= len(stream); start++ {
		for k := 1; k <= maxLexeme; k++ {
			b := newBuffer(t, maxLexeme, 2, longInput)
			advanceN(t, b, start)

			b.MarkStart()
			got := advanceN(t, b, k)
			b.MarkEnd()

			want := stream[start : start+k]
			if string(got) != want || string(b.Text()) != want || b.Length() != k {
				t.Fatalf("start=%d k=%d - text wrong. expected=%q, got=%q (consumed %q)",
					start, k, want, b.Text(), got)
			}
		}
	}
}
