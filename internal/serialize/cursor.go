// Package serialize implements the text serialization format of spec
// §4.8: every Var, Bytecode, Program, Genotype, GenotypeList, TraitList
// and Trait gets a human-readable "TAG field field …" text form, written
// and read back through a fixed-capacity Cursor.
package serialize

import (
	"strings"

	"github.com/indy/sen/errs"
)

// Cursor is a fixed-capacity text buffer: Write* appends fail once the
// buffer would exceed its capacity, and Token reads back whitespace-
// delimited fields in the order they were written. The same abstraction
// backs both serialization (write side) and deserialization (read side),
// matching spec §4.8's single Cursor description.
type Cursor struct {
	buf []byte
	cap int
	pos int
}

// NewCursor returns an empty Cursor for serializing into, failing any
// write once the written text would exceed capacity bytes.
func NewCursor(capacity int) *Cursor {
	return &Cursor{buf: make([]byte, 0, capacity), cap: capacity}
}

// NewCursorFromString returns a Cursor positioned at the start of s, for
// deserializing a previously-serialized text form.
func NewCursorFromString(s string) *Cursor {
	return &Cursor{buf: []byte(s), cap: len(s)}
}

// String returns everything written to the cursor so far.
func (c *Cursor) String() string { return string(c.buf) }

func (c *Cursor) writeRaw(s string) error {
	if len(c.buf)+len(s) > c.cap {
		return errs.New(errs.SerializeOverflow, "cursor overflow: %d byte write exceeds capacity %d", len(s), c.cap)
	}
	c.buf = append(c.buf, s...)
	return nil
}

// WriteToken appends s as one token, preceded by a separating space unless
// the buffer is empty. The space and token are checked against capacity
// together, so a would-be overflow never leaves a dangling trailing space.
func (c *Cursor) WriteToken(s string) error {
	sep := ""
	if len(c.buf) > 0 {
		sep = " "
	}
	return c.writeRaw(sep + s)
}

// Token reads the next whitespace-delimited token, advancing the read
// position past it. It fails once the cursor is exhausted.
func (c *Cursor) Token() (string, error) {
	for c.pos < len(c.buf) && c.buf[c.pos] == ' ' {
		c.pos++
	}
	if c.pos >= len(c.buf) {
		return "", errs.New(errs.SerializeMalformed, "cursor exhausted reading next token")
	}
	start := c.pos
	for c.pos < len(c.buf) && c.buf[c.pos] != ' ' {
		c.pos++
	}
	return string(c.buf[start:c.pos]), nil
}

// Done reports whether every byte written to the cursor has been
// consumed by Token (ignoring trailing whitespace), the deserialization
// analogue of the unparser's "no genes left" check.
func (c *Cursor) Done() bool {
	return len(strings.TrimSpace(string(c.buf[c.pos:]))) == 0
}
