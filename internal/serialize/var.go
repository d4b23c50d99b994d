package serialize

import (
	"strconv"

	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// Var tags as they appear in text form (spec §4.8's persisted-state
// layout). VAR_VECTOR is intentionally absent: Vector serialization is
// unsupported, since a VectorHead is only meaningful relative to the
// heap.Pool that owns it and this format is not pool-aware.
const (
	tagInt     = "INT"
	tagFloat   = "FLOAT"
	tagBoolean = "BOOLEAN"
	tagLong    = "LONG"
	tagName    = "NAME"
	tagColour  = "COLOUR"
	tagPair2D  = "2D"
)

// WriteVar appends v's text form to c: "TAG field field …".
func WriteVar(c *Cursor, v value.Var) error {
	switch v.Tag {
	case value.Int:
		return writeAll(c, tagInt, strconv.FormatInt(int64(v.I), 10))
	case value.Float:
		return writeAll(c, tagFloat, strconv.FormatFloat(float64(v.F), 'g', -1, 32))
	case value.Bool:
		b := "0"
		if v.I != 0 {
			b = "1"
		}
		return writeAll(c, tagBoolean, b)
	case value.Long:
		return writeAll(c, tagLong, strconv.FormatUint(v.L, 10))
	case value.Name:
		return writeAll(c, tagName, strconv.FormatInt(int64(v.Sym), 10))
	case value.Colour:
		return writeAll(c, tagColour,
			strconv.FormatInt(int64(v.Format), 10),
			strconv.FormatFloat(float64(v.Channels[0]), 'g', -1, 32),
			strconv.FormatFloat(float64(v.Channels[1]), 'g', -1, 32),
			strconv.FormatFloat(float64(v.Channels[2]), 'g', -1, 32),
			strconv.FormatFloat(float64(v.Channels[3]), 'g', -1, 32),
		)
	case value.Pair2D:
		return writeAll(c, tagPair2D,
			strconv.FormatFloat(float64(v.Channels[0]), 'g', -1, 32),
			strconv.FormatFloat(float64(v.Channels[1]), 'g', -1, 32),
		)
	default:
		return errs.New(errs.SerializeMalformed, "var serialization unsupported for tag %s", v.Tag)
	}
}

func writeAll(c *Cursor, tokens ...string) error {
	for _, t := range tokens {
		if err := c.WriteToken(t); err != nil {
			return err
		}
	}
	return nil
}

// ReadVar parses one Var's text form back from c.
func ReadVar(c *Cursor) (value.Var, error) {
	tag, err := c.Token()
	if err != nil {
		return value.Var{}, err
	}
	switch tag {
	case tagInt:
		i, err := readInt32(c)
		if err != nil {
			return value.Var{}, err
		}
		return value.NewInt(i), nil
	case tagFloat:
		f, err := readFloat32(c)
		if err != nil {
			return value.Var{}, err
		}
		return value.NewFloat(f), nil
	case tagBoolean:
		tok, err := c.Token()
		if err != nil {
			return value.Var{}, err
		}
		return value.NewBool(tok == "1"), nil
	case tagLong:
		tok, err := c.Token()
		if err != nil {
			return value.Var{}, err
		}
		l, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return value.Var{}, errs.New(errs.SerializeMalformed, "malformed LONG field %q", tok)
		}
		return value.NewLong(l), nil
	case tagName:
		tok, err := c.Token()
		if err != nil {
			return value.Var{}, err
		}
		n, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return value.Var{}, errs.New(errs.SerializeMalformed, "malformed NAME field %q", tok)
		}
		return value.NewName(symtab.Sym(n)), nil
	case tagColour:
		formatTok, err := c.Token()
		if err != nil {
			return value.Var{}, err
		}
		formatN, err := strconv.ParseInt(formatTok, 10, 32)
		if err != nil {
			return value.Var{}, errs.New(errs.SerializeMalformed, "malformed COLOUR format field %q", formatTok)
		}
		c0, err := readFloat32(c)
		if err != nil {
			return value.Var{}, err
		}
		c1, err := readFloat32(c)
		if err != nil {
			return value.Var{}, err
		}
		c2, err := readFloat32(c)
		if err != nil {
			return value.Var{}, err
		}
		c3, err := readFloat32(c)
		if err != nil {
			return value.Var{}, err
		}
		return value.NewColour(value.ColourFormat(formatN), c0, c1, c2, c3), nil
	case tagPair2D:
		x, err := readFloat32(c)
		if err != nil {
			return value.Var{}, err
		}
		y, err := readFloat32(c)
		if err != nil {
			return value.Var{}, err
		}
		return value.NewPair2D(x, y), nil
	default:
		return value.Var{}, errs.New(errs.SerializeMalformed, "unrecognized Var tag %q", tag)
	}
}

func readInt32(c *Cursor) (int32, error) {
	tok, err := c.Token()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, errs.New(errs.SerializeMalformed, "malformed integer field %q", tok)
	}
	return int32(n), nil
}

func readFloat32(c *Cursor) (float32, error) {
	tok, err := c.Token()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, errs.New(errs.SerializeMalformed, "malformed float field %q", tok)
	}
	return float32(f), nil
}
