package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/orizon-lang/inbuf/internal/inbuf"
	"github.com/orizon-lang/inbuf/internal/position"
)

// Kind classifies a token.
type Kind int

const (
	KindEOF Kind = iota
	KindIdent
	KindNumber
	KindString
	KindOperator
	KindPunct
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindIdent:
		return "IDENT"
	case KindNumber:
		return "NUMBER"
	case KindString:
		return "STRING"
	case KindOperator:
		return "OP"
	case KindPunct:
		return "PUNCT"
	default:
		return fmt.Sprintf("KIND(%d)", int(k))
	}
}

// Token is one lexeme together with the lexeme recognized before it.
type Token struct {
	Kind Kind
	Text string
	Prev string
	Span position.Span
}

var twoByteOps = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true,
	"->": true, "&&": true, "||": true, ":=": true,
}

// Scanner is a small hand-written lexer driving an inbuf.Buffer the way a
// generated analyzer does: mark the start, advance, push back the byte that
// ended the match, mark the end.
type Scanner struct {
	b       *inbuf.Buffer
	inToken bool
	diags   []position.Error
}

// NewScanner scans the stream currently open in b.
func NewScanner(b *inbuf.Buffer) *Scanner {
	return &Scanner{b: b}
}

// Diagnostics returns the problems found so far.
func (s *Scanner) Diagnostics() []position.Error { return s.diags }

// advance wraps Buffer.Advance. When a refill would drop the lexeme in
// progress the buffer is flushed anyway and the loss reported.
func (s *Scanner) advance() (byte, error) {
	c, err := s.b.Advance()
	if !errors.Is(err, inbuf.ErrBufferFull) {
		return c, err
	}

	if s.inToken {
		s.diags = append(s.diags, position.Error{
			Pos:     s.b.Span().Start,
			Kind:    "lexeme",
			Message: fmt.Sprintf("lexeme longer than %d bytes truncated", s.b.Config().MaxLexeme),
		})
	}
	if _, err := s.b.FlushBuf(); err != nil {
		return 0, err
	}
	return s.b.Advance()
}

// Next returns the next token; at end of input it returns a KindEOF token.
func (s *Scanner) Next() (Token, error) {
	for {
		s.inToken = false
		s.b.MarkStart()

		c, err := s.advance()
		if errors.Is(err, io.EOF) {
			s.b.MarkEnd()
			return s.emit(KindEOF), nil
		}
		if err != nil {
			return Token{}, err
		}

		s.inToken = true
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == 0:
			continue
		case c == '#':
			s.inToken = false
			if err := s.skipComment(); err != nil {
				return Token{}, err
			}
			continue
		case isLetter(c):
			err = s.ident()
			return s.emitOrFail(KindIdent, err)
		case isDigit(c):
			err = s.number()
			return s.emitOrFail(KindNumber, err)
		case c == '"':
			err = s.str()
			return s.emitOrFail(KindString, err)
		case isOperator(c):
			err = s.operator(c)
			return s.emitOrFail(KindOperator, err)
		default:
			s.b.MarkEnd()
			return s.emit(KindPunct), nil
		}
	}
}

func (s *Scanner) emitOrFail(kind Kind, err error) (Token, error) {
	if err != nil {
		return Token{}, err
	}
	return s.emit(kind), nil
}

func (s *Scanner) emit(kind Kind) Token {
	tok := Token{Kind: kind, Text: s.b.Lexeme(), Span: s.b.Span()}
	if prev := s.b.PrevText(); prev != nil {
		tok.Prev = string(prev)
	}
	if kind != KindEOF {
		s.b.MarkPrev()
	}
	return tok
}

// takeWhile consumes bytes matching ok and pushes back the first one that
// does not.
func (s *Scanner) takeWhile(ok func(byte) bool) error {
	for {
		c, err := s.advance()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !ok(c) {
			s.b.Pushback(1)
			return nil
		}
	}
}

func (s *Scanner) skipComment() error {
	return s.takeWhile(func(c byte) bool { return c != '\n' })
}

func (s *Scanner) ident() error {
	err := s.takeWhile(func(c byte) bool { return isLetter(c) || isDigit(c) })
	s.b.MarkEnd()
	return err
}

// number matches digits with an optional fraction. A '.' not followed by a
// digit is given back with ToMark.
func (s *Scanner) number() error {
	if err := s.takeWhile(isDigit); err != nil {
		return err
	}
	s.b.MarkEnd()

	if c, err := s.b.Look(1); err != nil || c != '.' {
		return nil
	}
	if _, err := s.advance(); err != nil {
		return err
	}
	if c, err := s.b.Look(1); err != nil || !isDigit(c) {
		s.b.ToMark()
		return nil
	}
	if err := s.takeWhile(isDigit); err != nil {
		return err
	}
	s.b.MarkEnd()
	return nil
}

func (s *Scanner) str() error {
	escaped := false
	for {
		c, err := s.advance()
		if errors.Is(err, io.EOF) || (err == nil && c == '\n') {
			if err == nil {
				s.b.Pushback(1)
			}
			s.b.MarkEnd()
			s.diags = append(s.diags, position.Error{
				Pos:     s.b.Span().Start,
				Kind:    "string",
				Message: "unterminated string literal",
			})
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			s.b.MarkEnd()
			return nil
		}
	}
}

func (s *Scanner) operator(first byte) error {
	s.b.MarkEnd()
	c, err := s.b.Look(1)
	if err != nil || !twoByteOps[string([]byte{first, c})] {
		return nil
	}
	if _, err := s.advance(); err != nil {
		return err
	}
	s.b.MarkEnd()
	return nil
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isOperator(c byte) bool {
	switch c {
	case '=', '!', '<', '>', '-', '&', '|', ':', '+', '*', '/', '%':
		return true
	}
	return false
}
