package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"syster/internal/source"
)

// Cursor is a byte position inside a text snapshot.
type Cursor struct {
	Text *source.Text
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(Text.Content).
	Limit uint32
}

// NewCursor creates a cursor at the start of the snapshot.
func NewCursor(txt *source.Text) Cursor {
	limit, err := safecast.Conv[uint32](len(txt.Content))
	if err != nil {
		panic(fmt.Errorf("text content length overflow: %w", err))
	}
	return Cursor{
		Text:  txt,
		Off:   0,
		Limit: limit,
	}
}

func (c *Cursor) limit() uint32 {
	if c.Limit != 0 {
		return c.Limit
	}
	n, err := safecast.Conv[uint32](len(c.Text.Content))
	if err != nil {
		panic(fmt.Errorf("text content length overflow: %w", err))
	}
	return n
}

// EOF reports whether the cursor has reached the end of the snapshot.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Text.Content[c.Off]
}

// Peek2 returns the current and next byte when both exist.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.limit() {
		return 0, 0, false
	}
	return c.Text.Content[c.Off], c.Text.Content[c.Off+1], true
}

// Bump advances past the current byte and returns it, or 0 at EOF.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Text.Content[c.Off]
	c.Off++
	return b
}

// Mark is a saved cursor position for building spans.
type Mark uint32

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom builds the span covering mark..current.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.Text.File,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset moves the cursor back to a saved mark.
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Text.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
