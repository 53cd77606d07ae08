package brainfuck

import (
	"math/rand"
	"strings"
)

// The OPs for Brainfuck. Only the eight canonical operators are recognised;
// everything else is rejected by the parser.

type OP rune
type OPS string

const (
	OP_POINTER_RIGHT = OP('>')
	OP_POINTER_LEFT  = OP('<')
	OP_INC           = OP('+')
	OP_DEC           = OP('-')
	OP_OUTPUT        = OP('.')
	OP_INPUT         = OP(',')
	OP_WHILE         = OP('[')
	OP_WHILE_END     = OP(']')
)

// Prefab op sets. Each one is balanced, so any concatenation of them parses.
const (
	SET_TO_ZERO     = OPS(`[-]`)
	FIND_ZERO_RIGHT = OPS(`[>]`)
	FIND_ZERO_LEFT  = OPS(`[<]`)
	MOVE_RIGHT      = OPS(`[->+<]`)
	MOVE_LEFT       = OPS(`[-<+>]`)
	COPY_RIGHT      = OPS(`[->+>+<<]>>[-<<+>>]<<`)
	ECHO            = OPS(`,.`)
)

var OP_SET = [...]OP{
	OP_POINTER_RIGHT,
	OP_POINTER_LEFT,
	OP_INC,
	OP_DEC,
	OP_OUTPUT,
	OP_INPUT,
	OP_WHILE,
	OP_WHILE_END,
}

var PREFAB_OPSETS = [...]OPS{
	SET_TO_ZERO,
	FIND_ZERO_RIGHT,
	FIND_ZERO_LEFT,
	MOVE_RIGHT,
	MOVE_LEFT,
	COPY_RIGHT,
	ECHO,
}

func (o OP) Valid() bool {
	switch o {
	case OP_POINTER_RIGHT, OP_POINTER_LEFT, OP_INC, OP_DEC,
		OP_OUTPUT, OP_INPUT, OP_WHILE, OP_WHILE_END:
		return true
	}
	return false
}

func (o OP) String() string {
	return string(rune(o))
}

func (o OPS) ToOPs() []OP {
	ops := []OP{}
	for _, r := range o {
		ops = append(ops, OP(r))
	}
	return ops
}

// RandomSource strings together count prefab op sets picked with r. The
// result is always a well formed program.
func RandomSource(r *rand.Rand, count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.WriteString(string(PREFAB_OPSETS[r.Intn(len(PREFAB_OPSETS))]))
	}
	return sb.String()
}
