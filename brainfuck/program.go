package brainfuck

import (
	"strings"
)

// Instruction is a single operation. Body is only set for OP_WHILE, which
// owns the instructions of its loop.
type Instruction struct {
	Op   OP
	Body []Instruction
}

// Program is a parsed, well formed instruction tree. It is never modified
// after Parse returns it.
type Program struct {
	instructions []Instruction
}

// Instructions returns a copy of the top level instructions.
func (p *Program) Instructions() []Instruction {
	return cloneInstructions(p.instructions)
}

// Len is the number of operators in the program, counting both loop
// markers of every loop.
func (p *Program) Len() int {
	return countOps(p.instructions)
}

func (p *Program) Empty() bool {
	return len(p.instructions) == 0
}

// String prints the program back to source form.
func (p *Program) String() string {
	var sb strings.Builder
	sb.Grow(p.Len())
	writeInstructions(&sb, p.instructions)
	return sb.String()
}

func (i Instruction) String() string {
	var sb strings.Builder
	writeInstructions(&sb, []Instruction{i})
	return sb.String()
}

func writeInstructions(sb *strings.Builder, ins []Instruction) {
	for _, in := range ins {
		sb.WriteRune(rune(in.Op))
		if in.Op == OP_WHILE {
			writeInstructions(sb, in.Body)
			sb.WriteRune(rune(OP_WHILE_END))
		}
	}
}

func countOps(ins []Instruction) int {
	count := 0
	for _, in := range ins {
		count++
		if in.Op == OP_WHILE {
			count += countOps(in.Body) + 1
		}
	}
	return count
}

func cloneInstructions(ins []Instruction) []Instruction {
	if ins == nil {
		return nil
	}
	clone := make([]Instruction, len(ins))
	for i, in := range ins {
		clone[i] = Instruction{Op: in.Op, Body: cloneInstructions(in.Body)}
	}
	return clone
}
