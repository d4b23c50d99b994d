package serialize

import (
	"strconv"

	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/symtab"
)

// WriteBytecode appends b's text form: "OP <var> <var>".
func WriteBytecode(c *Cursor, b bytecode.Bytecode) error {
	if err := c.WriteToken(b.Op.String()); err != nil {
		return err
	}
	if err := WriteVar(c, b.Arg0); err != nil {
		return err
	}
	return WriteVar(c, b.Arg1)
}

var opByName = func() map[string]bytecode.Op {
	m := make(map[string]bytecode.Op)
	for op := bytecode.Load; op <= bytecode.Stop; op++ {
		m[op.String()] = op
	}
	return m
}()

// ReadBytecode parses one Bytecode's text form back from c.
func ReadBytecode(c *Cursor) (bytecode.Bytecode, error) {
	opTok, err := c.Token()
	if err != nil {
		return bytecode.Bytecode{}, err
	}
	op, ok := opByName[opTok]
	if !ok {
		return bytecode.Bytecode{}, errs.New(errs.SerializeMalformed, "unrecognized opcode %q", opTok)
	}
	arg0, err := ReadVar(c)
	if err != nil {
		return bytecode.Bytecode{}, err
	}
	arg1, err := ReadVar(c)
	if err != nil {
		return bytecode.Bytecode{}, err
	}
	return bytecode.Inst(op, arg0, arg1), nil
}

// WriteProgram appends prog's text form: "<code_max_size> <code_size>"
// followed by each bytecode in order. codeMaxSize is the compiler's
// configured code-segment capacity, not anything Program itself stores;
// callers pass their own code-size limit. fn_info is
// never serialized (spec §4.8): only trait programs round-trip through
// this path, and a trait program never defines or calls a user-level
// top-level fn.
func WriteProgram(c *Cursor, prog *bytecode.Program, codeMaxSize int) error {
	if err := c.WriteToken(strconv.Itoa(codeMaxSize)); err != nil {
		return err
	}
	if err := c.WriteToken(strconv.Itoa(len(prog.Code))); err != nil {
		return err
	}
	for _, b := range prog.Code {
		if err := WriteBytecode(c, b); err != nil {
			return err
		}
	}
	return nil
}

// ReadProgram parses a Program's text form back from c, binding the
// result to lut (its FnInfo table starts empty, since none was
// serialized).
func ReadProgram(c *Cursor, lut *symtab.WordLut, maxTopLevelFunctions int) (*bytecode.Program, error) {
	maxTok, err := c.Token()
	if err != nil {
		return nil, err
	}
	codeMaxSize, err := strconv.Atoi(maxTok)
	if err != nil {
		return nil, errs.New(errs.SerializeMalformed, "malformed code_max_size field %q", maxTok)
	}
	sizeTok, err := c.Token()
	if err != nil {
		return nil, err
	}
	codeSize, err := strconv.Atoi(sizeTok)
	if err != nil {
		return nil, errs.New(errs.SerializeMalformed, "malformed code_size field %q", sizeTok)
	}
	if codeSize > codeMaxSize {
		return nil, errs.New(errs.SerializeMalformed, "code_size %d exceeds code_max_size %d", codeSize, codeMaxSize)
	}

	prog := bytecode.NewProgram(lut, maxTopLevelFunctions)
	for i := 0; i < codeSize; i++ {
		b, err := ReadBytecode(c)
		if err != nil {
			return nil, err
		}
		prog.Emit(b)
	}
	return prog, nil
}
