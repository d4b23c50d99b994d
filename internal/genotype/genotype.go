// Package genotype implements the genetic operations of spec §4.6:
// building genotypes from a trait list (either canonically, from each
// trait's initial value, or by running trait programs under a seeded
// PRNG), crossover, mutation, and the initial/next generation builders.
package genotype

import (
	"github.com/indy/sen/internal/heap"
	"github.com/indy/sen/internal/mtx"
	"github.com/indy/sen/internal/prng"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/trait"
	"github.com/indy/sen/internal/value"
	"github.com/indy/sen/internal/vm"
)

// Gene is one runtime value bound to one alterable node.
type Gene struct {
	Var value.Var
}

// Genotype is an ordered sequence of genes matching the order alterable
// nodes appear in the AST (the same order trait.List.Traits uses). A plain
// slice stands in for the original's doubly-linked gene list plus
// current_gene cursor: callers consuming it in order (compiler.AssignGenes,
// the unparser) already work against a []value.Var/index cursor, so no
// extra cursor type earns its keep here.
type Genotype struct {
	Genes []Gene
}

// GenotypeList is an ordered set of genotypes, e.g. one generation of a
// population.
type GenotypeList struct {
	Genotypes []Genotype
}

// Vars returns g's genes as the plain []value.Var compiler.AssignGenes and
// the unparser consume.
func (g *Genotype) Vars() []value.Var {
	out := make([]value.Var, len(g.Genes))
	for i, gene := range g.Genes {
		out[i] = gene.Var
	}
	return out
}

// Clone returns an independent copy of g (Var is always copied by value,
// so a shallow slice copy suffices).
func Clone(g *Genotype) *Genotype {
	out := make([]Gene, len(g.Genes))
	copy(out, g.Genes)
	return &Genotype{Genes: out}
}

// BuildFromInitialValues returns the canonical genotype: one gene per
// trait, cloned from that trait's initial_value, with no PRNG draws
// consumed at all.
func BuildFromInitialValues(list *trait.List) *Genotype {
	genes := make([]Gene, len(list.Traits))
	for i, t := range list.Traits {
		genes[i] = Gene{Var: t.InitialValue}
	}
	return &Genotype{Genes: genes}
}

// BuildFromTraitPrograms seeds a VM's PRNG from seed and runs every
// trait's program against it in trait order, so the PRNG sequence one
// script sees is the same sequence running its expanded, genotype-applied
// form later will reproduce for the same seed. heapPool is reset before
// the first trait program runs, since each genotype build owns the heap
// exclusively for its duration.
func BuildFromTraitPrograms(list *trait.List, seed uint64, heapPool *heap.Pool, matrix *mtx.Stack, natives map[symtab.Sym]vm.NativeFunc) (*Genotype, error) {
	if len(list.Traits) == 0 {
		return &Genotype{}, nil
	}
	heapPool.Reset()
	matrix.Reset()
	machine := vm.New(list.Traits[0].Program, heapPool, matrix, prng.NewState(seed), natives)

	genes := make([]Gene, 0, len(list.Traits))
	for _, t := range list.Traits {
		machine.BuildingWithinVector = t.WithinVector
		machine.TraitWithinVectorIndex = t.Index
		result, err := machine.RunProgram(t.Program)
		if err != nil {
			return nil, err
		}
		genes = append(genes, Gene{Var: result})
	}
	return &Genotype{Genes: genes}, nil
}

// Crossover returns a genotype whose first k genes come from a and whose
// remaining genes come from b, matching a's/b's shared trait order. Per
// spec §8's symmetry property, k == 0 is clone(b) and k == len(a.Genes) is
// clone(a).
func Crossover(a, b *Genotype, k int) *Genotype {
	out := make([]Gene, len(a.Genes))
	for i := range out {
		if i < k {
			out[i] = a.Genes[i]
		} else {
			out[i] = b.Genes[i]
		}
	}
	return &Genotype{Genes: out}
}

// Mutate walks g's genes in trait order, drawing one float from p per
// position; a draw below mutationRate regenerates that gene by running
// its trait's program against the same p, so the coin-flip draws and the
// regeneration draws share one continuous PRNG sequence (spec §4.6).
// heapPool/matrix back a VM built lazily, only if at least one position
// mutates.
func Mutate(g *Genotype, list *trait.List, p *prng.State, mutationRate float32, heapPool *heap.Pool, matrix *mtx.Stack, natives map[symtab.Sym]vm.NativeFunc) (*Genotype, error) {
	out := make([]Gene, len(g.Genes))
	copy(out, g.Genes)

	var machine *vm.VM
	for i, t := range list.Traits {
		if i >= len(out) {
			break
		}
		r := p.F32()
		if r >= mutationRate {
			continue
		}
		if machine == nil {
			machine = vm.New(t.Program, heapPool, matrix, p, natives)
		}
		machine.BuildingWithinVector = t.WithinVector
		machine.TraitWithinVectorIndex = t.Index
		result, err := machine.RunProgram(t.Program)
		if err != nil {
			return nil, err
		}
		out[i] = Gene{Var: result}
	}
	return &Genotype{Genes: out}, nil
}

// InitialGeneration builds the first population: genotype 0 is the
// canonical build_from_initial_values output; genotypes 1..populationSize-1
// each get their own sub-seed drawn from a PRNG started at seed.
func InitialGeneration(list *trait.List, populationSize int, seed uint64, heapPool *heap.Pool, matrix *mtx.Stack, natives map[symtab.Sym]vm.NativeFunc) (*GenotypeList, error) {
	if populationSize < 1 {
		populationSize = 1
	}
	out := make([]Genotype, 0, populationSize)
	out = append(out, *BuildFromInitialValues(list))

	sub := prng.NewState(seed)
	for i := 1; i < populationSize; i++ {
		g, err := BuildFromTraitPrograms(list, sub.NextU64(), heapPool, matrix, natives)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return &GenotypeList{Genotypes: out}, nil
}

// NextGeneration keeps every parent, then fills the rest of the
// population by repeatedly picking two distinct parent indices (retrying
// up to 10 times before falling back to the next sibling index),
// crossing them over at a random point and mutating the result.
func NextGeneration(list *trait.List, parents *GenotypeList, populationSize int, seed uint64, mutationRate float32, heapPool *heap.Pool, matrix *mtx.Stack, natives map[symtab.Sym]vm.NativeFunc) (*GenotypeList, error) {
	n := len(parents.Genotypes)
	out := make([]Genotype, n, populationSize)
	copy(out, parents.Genotypes)
	if n == 0 || populationSize <= n {
		return &GenotypeList{Genotypes: out}, nil
	}

	geneLen := len(parents.Genotypes[0].Genes)
	p := prng.NewState(seed)
	for len(out) < populationSize {
		ai := int(p.I32Range(0, int32(n)))
		bi := ai
		for attempt := 0; attempt < 10 && bi == ai; attempt++ {
			bi = int(p.I32Range(0, int32(n)))
		}
		if bi == ai {
			bi = (ai + 1) % n
		}
		k := int(p.I32Range(0, int32(geneLen)+1))
		child := Crossover(&parents.Genotypes[ai], &parents.Genotypes[bi], k)
		mutated, err := Mutate(child, list, p, mutationRate, heapPool, matrix, natives)
		if err != nil {
			return nil, err
		}
		out = append(out, *mutated)
	}
	return &GenotypeList{Genotypes: out}, nil
}
