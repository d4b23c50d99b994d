package compiler

import (
	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/value"
)

// AssignGenes walks the sibling chain rooted at n, binding one gene from
// genes to each alterable node it encounters and returning the unconsumed
// remainder. An alterable vector of exactly two meaningful children is
// treated as a single 2D gene (matching the compiler's Squish2 shortcut);
// any other alterable vector binds one gene per meaningful child instead
// of one gene to the vector as a whole.
func AssignGenes(n *ast.Node, genes []value.Var) ([]value.Var, error) {
	for cur := n; cur != nil; cur = cur.Next {
		if cur.Alterable {
			if cur.Kind == ast.KindVector && meaningfulCount(cur) != 2 {
				rest, err := assignChildGenes(cur, genes)
				if err != nil {
					return nil, err
				}
				genes = rest
				continue
			}
			if len(genes) == 0 {
				return nil, errs.New(errs.NullGene, "no gene available for alterable node")
			}
			g := genes[0]
			genes = genes[1:]
			cur.Gene = &g
			continue
		}
		if cur.Kind == ast.KindList || cur.Kind == ast.KindVector {
			rest, err := AssignGenes(cur.FirstChild, genes)
			if err != nil {
				return nil, err
			}
			genes = rest
		}
	}
	return genes, nil
}

func assignChildGenes(vec *ast.Node, genes []value.Var) ([]value.Var, error) {
	for c := vec.FirstChild; c != nil; c = c.Next {
		if !c.IsMeaningful() {
			continue
		}
		if len(genes) == 0 {
			return nil, errs.New(errs.NullGene, "no gene available for alterable vector child")
		}
		g := genes[0]
		genes = genes[1:]
		c.Gene = &g
	}
	return genes, nil
}

func meaningfulCount(n *ast.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.IsMeaningful() {
			count++
		}
	}
	return count
}

func meaningfulChildren(n *ast.Node) []*ast.Node {
	var out []*ast.Node
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.IsMeaningful() {
			out = append(out, c)
		}
	}
	return out
}
