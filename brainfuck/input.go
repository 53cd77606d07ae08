package brainfuck

// Input is the byte stream read by OP_INPUT. The cursor only moves forward.
type Input struct {
	Bytes       []byte
	InputCursor int
}

func NewInput(b []byte) *Input {
	return &Input{
		Bytes:       b,
		InputCursor: 0,
	}
}

func (in *Input) Remaining() int {
	return len(in.Bytes) - in.InputCursor
}

// Next returns the next byte and advances the cursor. ok is false once the
// stream is exhausted.
func (in *Input) Next() (b byte, ok bool) {
	if in.InputCursor >= len(in.Bytes) {
		return 0, false
	}
	b = in.Bytes[in.InputCursor]
	in.InputCursor++
	return b, true
}
