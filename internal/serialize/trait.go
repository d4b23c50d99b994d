package serialize

import (
	"strconv"

	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/trait"
)

// WriteTrait appends t's text form: "<id> <within_vector> <index>
// <initial_value_var> <program>". codeMaxSize is forwarded to
// WriteProgram for t.Program.
func WriteTrait(c *Cursor, t *trait.Trait, codeMaxSize int) error {
	if err := c.WriteToken(strconv.Itoa(t.ID)); err != nil {
		return err
	}
	withinVector := "0"
	if t.WithinVector {
		withinVector = "1"
	}
	if err := c.WriteToken(withinVector); err != nil {
		return err
	}
	if err := c.WriteToken(strconv.FormatInt(int64(t.Index), 10)); err != nil {
		return err
	}
	if err := WriteVar(c, t.InitialValue); err != nil {
		return err
	}
	return WriteProgram(c, t.Program, codeMaxSize)
}

// ReadTrait parses one Trait's text form back from c, binding its
// program to lut.
func ReadTrait(c *Cursor, lut *symtab.WordLut, maxTopLevelFunctions int) (*trait.Trait, error) {
	idTok, err := c.Token()
	if err != nil {
		return nil, err
	}
	id, err := strconv.Atoi(idTok)
	if err != nil {
		return nil, errs.New(errs.SerializeMalformed, "malformed trait id field %q", idTok)
	}
	withinVectorTok, err := c.Token()
	if err != nil {
		return nil, err
	}
	indexTok, err := c.Token()
	if err != nil {
		return nil, err
	}
	index, err := strconv.ParseInt(indexTok, 10, 32)
	if err != nil {
		return nil, errs.New(errs.SerializeMalformed, "malformed trait index field %q", indexTok)
	}
	initial, err := ReadVar(c)
	if err != nil {
		return nil, err
	}
	prog, err := ReadProgram(c, lut, maxTopLevelFunctions)
	if err != nil {
		return nil, err
	}
	return &trait.Trait{
		ID:           id,
		WithinVector: withinVectorTok == "1",
		Index:        int32(index),
		InitialValue: initial,
		Program:      prog,
	}, nil
}

// WriteTraitList appends list's text form: "<seed> <count> <trait>
// <trait> …".
func WriteTraitList(c *Cursor, list *trait.List, codeMaxSize int) error {
	if err := c.WriteToken(strconv.FormatUint(list.Seed, 10)); err != nil {
		return err
	}
	if err := c.WriteToken(strconv.Itoa(len(list.Traits))); err != nil {
		return err
	}
	for i := range list.Traits {
		if err := WriteTrait(c, &list.Traits[i], codeMaxSize); err != nil {
			return err
		}
	}
	return nil
}

// ReadTraitList parses a TraitList's text form back from c.
func ReadTraitList(c *Cursor, lut *symtab.WordLut, maxTopLevelFunctions int) (*trait.List, error) {
	seedTok, err := c.Token()
	if err != nil {
		return nil, err
	}
	seed, err := strconv.ParseUint(seedTok, 10, 64)
	if err != nil {
		return nil, errs.New(errs.SerializeMalformed, "malformed seed field %q", seedTok)
	}
	countTok, err := c.Token()
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(countTok)
	if err != nil {
		return nil, errs.New(errs.SerializeMalformed, "malformed trait count field %q", countTok)
	}
	traits := make([]trait.Trait, count)
	for i := 0; i < count; i++ {
		t, err := ReadTrait(c, lut, maxTopLevelFunctions)
		if err != nil {
			return nil, err
		}
		traits[i] = *t
	}
	return &trait.List{Traits: traits, Seed: seed}, nil
}
