package serialize

import (
	"strconv"

	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/genotype"
)

// WriteGenotype appends g's text form: "<gene_count> <var> <var> …".
func WriteGenotype(c *Cursor, g *genotype.Genotype) error {
	if err := c.WriteToken(strconv.Itoa(len(g.Genes))); err != nil {
		return err
	}
	for _, gene := range g.Genes {
		if err := WriteVar(c, gene.Var); err != nil {
			return err
		}
	}
	return nil
}

// ReadGenotype parses a Genotype's text form back from c.
func ReadGenotype(c *Cursor) (*genotype.Genotype, error) {
	countTok, err := c.Token()
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(countTok)
	if err != nil {
		return nil, errs.New(errs.SerializeMalformed, "malformed gene_count field %q", countTok)
	}
	genes := make([]genotype.Gene, count)
	for i := 0; i < count; i++ {
		v, err := ReadVar(c)
		if err != nil {
			return nil, err
		}
		genes[i] = genotype.Gene{Var: v}
	}
	return &genotype.Genotype{Genes: genes}, nil
}

// WriteGenotypeList appends gl's text form: "<genotype_count> <genotype>
// <genotype> …".
func WriteGenotypeList(c *Cursor, gl *genotype.GenotypeList) error {
	if err := c.WriteToken(strconv.Itoa(len(gl.Genotypes))); err != nil {
		return err
	}
	for i := range gl.Genotypes {
		if err := WriteGenotype(c, &gl.Genotypes[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadGenotypeList parses a GenotypeList's text form back from c.
func ReadGenotypeList(c *Cursor) (*genotype.GenotypeList, error) {
	countTok, err := c.Token()
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(countTok)
	if err != nil {
		return nil, errs.New(errs.SerializeMalformed, "malformed genotype_count field %q", countTok)
	}
	genotypes := make([]genotype.Genotype, count)
	for i := 0; i < count; i++ {
		g, err := ReadGenotype(c)
		if err != nil {
			return nil, err
		}
		genotypes[i] = *g
	}
	return &genotype.GenotypeList{Genotypes: genotypes}, nil
}
