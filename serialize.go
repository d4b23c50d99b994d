package sen

import (
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/genotype"
	"github.com/indy/sen/internal/serialize"
	"github.com/indy/sen/internal/trait"
)

// SerializeProgram writes prog to its spec §4.8 text form, for storing a
// compiled trait program outside the process.
func (e *Engine) SerializeProgram(prog *bytecode.Program) (string, error) {
	c := serialize.NewCursor(e.Options.SerializeCapacity)
	if err := serialize.WriteProgram(c, prog, e.Options.CodeMaxSize); err != nil {
		return "", logAndWrap(e.Log, err, "serialize program")
	}
	return c.String(), nil
}

// DeserializeProgram parses s back into a Program, binding it to e's word
// table. The returned Program's FnInfo is always empty: serialized
// programs are trait programs, which never use user-defined functions.
func (e *Engine) DeserializeProgram(s string) (*bytecode.Program, error) {
	c := serialize.NewCursorFromString(s)
	prog, err := serialize.ReadProgram(c, e.Lut, e.Options.MaxTopLevelFunctions)
	if err != nil {
		return nil, logAndWrap(e.Log, err, "deserialize program")
	}
	return prog, nil
}

// SerializeTraitList writes list to its spec §4.8 text form.
func (e *Engine) SerializeTraitList(list *trait.List) (string, error) {
	c := serialize.NewCursor(e.Options.SerializeCapacity)
	if err := serialize.WriteTraitList(c, list, e.Options.CodeMaxSize); err != nil {
		return "", logAndWrap(e.Log, err, "serialize trait list")
	}
	return c.String(), nil
}

// DeserializeTraitList parses s back into a List, binding every trait
// program to e's word table.
func (e *Engine) DeserializeTraitList(s string) (*trait.List, error) {
	c := serialize.NewCursorFromString(s)
	list, err := serialize.ReadTraitList(c, e.Lut, e.Options.MaxTopLevelFunctions)
	if err != nil {
		return nil, logAndWrap(e.Log, err, "deserialize trait list")
	}
	return list, nil
}

// SerializeGenotype writes g to its spec §4.8 text form.
func (e *Engine) SerializeGenotype(g *genotype.Genotype) (string, error) {
	c := serialize.NewCursor(e.Options.SerializeCapacity)
	if err := serialize.WriteGenotype(c, g); err != nil {
		return "", logAndWrap(e.Log, err, "serialize genotype")
	}
	return c.String(), nil
}

// DeserializeGenotype parses s back into a Genotype.
func (e *Engine) DeserializeGenotype(s string) (*genotype.Genotype, error) {
	c := serialize.NewCursorFromString(s)
	g, err := serialize.ReadGenotype(c)
	if err != nil {
		return nil, logAndWrap(e.Log, err, "deserialize genotype")
	}
	return g, nil
}

// SerializeGenotypeList writes gl to its spec §4.8 text form.
func (e *Engine) SerializeGenotypeList(gl *genotype.GenotypeList) (string, error) {
	c := serialize.NewCursor(e.Options.SerializeCapacity)
	if err := serialize.WriteGenotypeList(c, gl); err != nil {
		return "", logAndWrap(e.Log, err, "serialize genotype list")
	}
	return c.String(), nil
}

// DeserializeGenotypeList parses s back into a GenotypeList.
func (e *Engine) DeserializeGenotypeList(s string) (*genotype.GenotypeList, error) {
	c := serialize.NewCursorFromString(s)
	gl, err := serialize.ReadGenotypeList(c)
	if err != nil {
		return nil, logAndWrap(e.Log, err, "deserialize genotype list")
	}
	return gl, nil
}
