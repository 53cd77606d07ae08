package brainfuck

// loopFrame is a loop that has been opened but not yet closed.
type loopFrame struct {
	position int
	body     []Instruction
}

// Parse turns source into a Program. The first malformed spot, scanning left
// to right, is reported as a *ParseError.
func Parse(source string) (*Program, error) {
	var top []Instruction
	var stack []*loopFrame

	// current returns the body that new instructions are appended to.
	current := func() *[]Instruction {
		if len(stack) == 0 {
			return &top
		}
		return &stack[len(stack)-1].body
	}

	position := 0
	for _, r := range source {
		switch op := OP(r); op {
		case OP_POINTER_RIGHT, OP_POINTER_LEFT, OP_INC, OP_DEC, OP_OUTPUT, OP_INPUT:
			body := current()
			*body = append(*body, Instruction{Op: op})
		case OP_WHILE:
			stack = append(stack, &loopFrame{position: position, body: []Instruction{}})
		case OP_WHILE_END:
			if len(stack) == 0 {
				return nil, &ParseError{Kind: ErrUnmatchedLoop, Position: position}
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			body := current()
			*body = append(*body, Instruction{Op: OP_WHILE, Body: frame.body})
		default:
			return nil, &ParseError{Kind: ErrUnknownInstruction, Position: position, Character: r}
		}
		position++
	}

	if len(stack) > 0 {
		return nil, &ParseError{Kind: ErrUnmatchedLoop, Position: stack[len(stack)-1].position}
	}

	return &Program{instructions: top}, nil
}

// MustParse is Parse for sources known to be valid. It panics otherwise.
func MustParse(source string) *Program {
	p, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return p
}
