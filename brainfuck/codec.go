package brainfuck

import (
	"bytes"
	bin "encoding/binary"
	"fmt"
	"strings"
)

// Programs are stored eight operators to a big endian uint32, four bits per
// operator. Symbol 0 is padding, symbols 1-8 index OP_SET.

const opsPerWord = 8

func symbolFor(op OP) uint32 {
	for i, o := range OP_SET {
		if o == op {
			return uint32(i + 1)
		}
	}
	return 0
}

// Pack encodes p into its compact storage form.
func Pack(p *Program) []byte {
	return packSource(p.String())
}

func packSource(source string) []byte {
	ops := OPS(source).ToOPs()
	buffer := bytes.NewBuffer(make([]byte, 0, (len(ops)+opsPerWord-1)/opsPerWord*4))

	for start := 0; start < len(ops); start += opsPerWord {
		var packed uint32
		for i := 0; i < opsPerWord && start+i < len(ops); i++ {
			shift := uint(28 - 4*i)
			packed |= symbolFor(ops[start+i]) << shift
		}
		bin.Write(buffer, bin.BigEndian, packed)
	}

	return buffer.Bytes()
}

// Unpack decodes b and parses the result, so a corrupt encoding comes back
// as an error rather than as a malformed Program.
func Unpack(b []byte) (*Program, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("packed program length [%d] is not a multiple of 4", len(b))
	}

	var sb strings.Builder
	padded := false
	for word := 0; word < len(b); word += 4 {
		packed := bin.BigEndian.Uint32(b[word : word+4])
		for i := 0; i < opsPerWord; i++ {
			shift := uint(28 - 4*i)
			symbol := (packed >> shift) & 0xF
			switch {
			case symbol == 0:
				padded = true
			case padded:
				// Padding only ever trails the last operator.
				return nil, fmt.Errorf("symbol [%d] after padding in packed word [%d]", symbol, word/4)
			case int(symbol) <= len(OP_SET):
				sb.WriteRune(rune(OP_SET[symbol-1]))
			default:
				return nil, fmt.Errorf("unknown symbol [%d] in packed word [%d]", symbol, word/4)
			}
		}
	}

	return Parse(sb.String())
}
