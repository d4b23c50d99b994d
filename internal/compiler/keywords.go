package compiler

import "github.com/indy/sen/internal/symtab"

// Keywords holds the Sym ids for every form and named parameter the
// compiler recognizes, interned once into the keyword table at engine
// startup and shared by every subsequent compile.
type Keywords struct {
	Define        symtab.Sym
	If            symtab.Sym
	Fn            symtab.Sym
	FnCall        symtab.Sym
	Loop          symtab.Sym
	Fence         symtab.Sym
	OnMatrixStack symtab.Sym
	Quote         symtab.Sym
	AddressOf     symtab.Sym
	VectorAppend  symtab.Sym
	Not           symtab.Sym
	Sqrt          symtab.Sym

	Add symtab.Sym
	Sub symtab.Sym
	Mul symtab.Sym
	Div symtab.Sym
	Mod symtab.Sym
	Eq  symtab.Sym
	Lt  symtab.Sym
	Gt  symtab.Sym
	And symtab.Sym
	Or  symtab.Sym

	// Named parameters used by built-in forms.
	From  symtab.Sym
	To    symtab.Sym
	Upto  symtab.Sym
	Inc   symtab.Sym
	Num   symtab.Sym
	Steps symtab.Sym

	GenInitial symtab.Sym
}

// RegisterKeywords interns every keyword and named-parameter symbol the
// compiler needs into lut, returning the table of resolved Syms. Called
// once during engine startup, before the preamble is compiled.
func RegisterKeywords(lut *symtab.WordLut) *Keywords {
	return &Keywords{
		Define:        lut.AddKeyword("define"),
		If:            lut.AddKeyword("if"),
		Fn:            lut.AddKeyword("fn"),
		FnCall:        lut.AddKeyword("fn-call"),
		Loop:          lut.AddKeyword("loop"),
		Fence:         lut.AddKeyword("fence"),
		OnMatrixStack: lut.AddKeyword("on-matrix-stack"),
		Quote:         lut.AddKeyword("quote"),
		AddressOf:     lut.AddKeyword("address-of"),
		VectorAppend:  lut.AddKeyword("vector/append"),
		Not:           lut.AddKeyword("not"),
		Sqrt:          lut.AddKeyword("sqrt"),

		Add: lut.AddKeyword("+"),
		Sub: lut.AddKeyword("-"),
		Mul: lut.AddKeyword("*"),
		Div: lut.AddKeyword("/"),
		Mod: lut.AddKeyword("mod"),
		Eq:  lut.AddKeyword("="),
		Lt:  lut.AddKeyword("<"),
		Gt:  lut.AddKeyword(">"),
		And: lut.AddKeyword("and"),
		Or:  lut.AddKeyword("or"),

		From:  lut.AddKeyword("from"),
		To:    lut.AddKeyword("to"),
		Upto:  lut.AddKeyword("upto"),
		Inc:   lut.AddKeyword("inc"),
		Num:   lut.AddKeyword("num"),
		Steps: lut.AddKeyword("steps"),

		GenInitial: lut.AddKeyword("gen/initial"),
	}
}

// specialForm reports whether sym is one of the form-introducing keywords
// (as opposed to a named-parameter-only keyword like `from`).
func (k *Keywords) specialForm(sym symtab.Sym) bool {
	switch sym {
	case k.Define, k.If, k.Fn, k.FnCall, k.Loop, k.Fence, k.OnMatrixStack,
		k.Quote, k.AddressOf, k.VectorAppend, k.Not, k.Sqrt,
		k.Add, k.Sub, k.Mul, k.Div, k.Mod, k.Eq, k.Lt, k.Gt, k.And, k.Or:
		return true
	default:
		return false
	}
}

func (k *Keywords) binaryOp(sym symtab.Sym) bool {
	switch sym {
	case k.Add, k.Sub, k.Mul, k.Div, k.Mod, k.Eq, k.Lt, k.Gt, k.And, k.Or:
		return true
	default:
		return false
	}
}
