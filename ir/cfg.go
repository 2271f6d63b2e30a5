package ir

import (
	"github.com/pkg/errors"
)

// Successors returns the blocks control can reach directly from b.
func Successors(b *BasicBlock) []*BasicBlock {
	switch t := b.Terminator().(type) {
	case *Jump:
		return []*BasicBlock{t.Target}
	case *Branch:
		if t.Then == t.Else {
			return []*BasicBlock{t.Then}
		}
		return []*BasicBlock{t.Then, t.Else}
	default:
		return nil
	}
}

// Predecessors maps every attached block to the blocks that jump or branch into it.
func Predecessors(p *Procedure) map[*BasicBlock][]*BasicBlock {
	preds := make(map[*BasicBlock][]*BasicBlock, len(p.Blocks()))
	for _, b := range p.Blocks() {
		for _, s := range Successors(b) {
			preds[s] = append(preds[s], b)
		}
	}
	return preds
}

// Reachable returns the set of blocks reachable from the entry block.
func Reachable(p *Procedure) map[*BasicBlock]bool {
	seen := map[*BasicBlock]bool{}
	if p.Entry == nil {
		return seen
	}
	work := []*BasicBlock{p.Entry}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[b] {
			continue
		}
		seen[b] = true
		work = append(work, Successors(b)...)
	}
	return seen
}

// IsBackEdge reports whether the edge from -> to goes backwards in block order.
func IsBackEdge(from, to *BasicBlock) bool {
	return to.Index <= from.Index
}

// Verify checks the structural invariants of a finished procedure:
// the entry block comes first, every reachable block ends in exactly one terminator,
// and every jump target is attached to the same procedure.
func Verify(p *Procedure) []error {
	var errs []error
	addError := func(format string, args ...interface{}) {
		errs = append(errs, errors.Errorf("%s: "+format, append([]interface{}{p.Name}, args...)...))
	}

	blocks := p.Blocks()
	if len(blocks) == 0 || blocks[0] != p.Entry {
		addError("entry block is not the first attached block")
	}
	reachable := Reachable(p)
	for _, b := range blocks {
		for i, instr := range b.Instructions {
			if instr.Opcode().IsTerminator() && i != len(b.Instructions)-1 {
				addError("%s: %s is followed by %d instruction(s)", b.Name(), instr.Opcode(), len(b.Instructions)-1-i)
			}
		}
		if reachable[b] && b.Terminator() == nil {
			addError("%s: reachable block has no terminator", b.Name())
		}
		for _, s := range Successors(b) {
			if s.Procedure != p || s.Index < 0 {
				addError("%s: jump target %s is not attached to this procedure", b.Name(), s.Name())
			}
		}
	}
	return errs
}
