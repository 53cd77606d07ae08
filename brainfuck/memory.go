package brainfuck

import (
	"fmt"
)

// Memory is the data tape and the pointer into it. Cells wrap on overflow.
type Memory struct {
	Cells         []uint8
	MemoryPointer int
}

func NewMemory(cellCount uint) *Memory {
	return NewMemoryFromCells(make([]uint8, cellCount))
}

// NewMemoryFromCells uses cells as the tape without copying it.
func NewMemoryFromCells(cells []uint8) *Memory {
	return &Memory{
		Cells:         cells,
		MemoryPointer: 0,
	}
}

func (m *Memory) Reset() {
	for i := range m.Cells {
		m.Cells[i] = 0
	}
	m.MemoryPointer = 0
}

func (m *Memory) InBounds(index int) bool {
	return index >= 0 && index < len(m.Cells)
}

func (m *Memory) GetCurrentCell() (uint8, error) {
	if !m.InBounds(m.MemoryPointer) {
		return 0, fmt.Errorf("%w: memory pointer [%d] out of bounds (memory length: [%d])", ErrTapeBoundsExceeded, m.MemoryPointer, len(m.Cells))
	}
	return m.Cells[m.MemoryPointer], nil
}

func (m *Memory) SetCurrentCell(val uint8) error {
	if !m.InBounds(m.MemoryPointer) {
		return fmt.Errorf("%w: memory pointer [%d] out of bounds (memory length: [%d])", ErrTapeBoundsExceeded, m.MemoryPointer, len(m.Cells))
	}
	m.Cells[m.MemoryPointer] = val
	return nil
}

func (m *Memory) MovePointerLeft() error {
	if m.MemoryPointer == 0 {
		return fmt.Errorf("%w: failed to move memory pointer [%d] left (memory length: [%d])", ErrTapeBoundsExceeded, m.MemoryPointer, len(m.Cells))
	}
	m.MemoryPointer--
	return nil
}

func (m *Memory) MovePointerRight() error {
	if m.MemoryPointer >= len(m.Cells)-1 {
		return fmt.Errorf("%w: failed to move memory pointer [%d] right (memory length: [%d])", ErrTapeBoundsExceeded, m.MemoryPointer, len(m.Cells))
	}
	m.MemoryPointer++
	return nil
}

func (m *Memory) Increment() error {
	val, err := m.GetCurrentCell()
	if err != nil {
		return err
	}
	m.Cells[m.MemoryPointer] = val + 1
	return nil
}

func (m *Memory) Decrement() error {
	val, err := m.GetCurrentCell()
	if err != nil {
		return err
	}
	m.Cells[m.MemoryPointer] = val - 1
	return nil
}
