package bytecode

import (
	"encoding/binary"
	"fmt"
)

// Program holds a translated bytecode image: a flat code section plus the
// table of primitive names referenced by OpPushProto operands.
//
// The code section is untyped bytes. Readers must know the layout of each
// instruction; the typed Read helpers decode operands at a cursor and
// advance it past what they consumed.
type Program struct {
	// Code section
	Code []byte

	// Primitive name table - names referenced by OpPushProto
	Primitives []string
}

// NewProgram creates a new empty program.
func NewProgram() *Program {
	return &Program{
		Code: make([]byte, 0, 64),
	}
}

// AddPrimitive adds a primitive name to the table and returns its index.
// If the name already exists, returns the existing index.
func (p *Program) AddPrimitive(name string) uint32 {
	for i, s := range p.Primitives {
		if s == name {
			return uint32(i)
		}
	}
	idx := uint32(len(p.Primitives))
	p.Primitives = append(p.Primitives, name)
	return idx
}

// PrimitiveName returns the primitive name at the given index.
func (p *Program) PrimitiveName(index uint32) (string, error) {
	if int(index) >= len(p.Primitives) {
		return "", fmt.Errorf("primitive index %d out of range (table has %d entries)", index, len(p.Primitives))
	}
	return p.Primitives[index], nil
}

// Emit appends a single-byte opcode to the code section and returns its
// offset.
func (p *Program) Emit(op Opcode) int {
	offset := len(p.Code)
	p.Code = append(p.Code, byte(op))
	return offset
}

// EmitUint32 appends a big-endian u32 operand and returns its offset.
func (p *Program) EmitUint32(v uint32) int {
	offset := len(p.Code)
	p.Code = binary.BigEndian.AppendUint32(p.Code, v)
	return offset
}

// EmitInt64 appends a big-endian i64 operand and returns its offset.
func (p *Program) EmitInt64(v int64) int {
	offset := len(p.Code)
	p.Code = binary.BigEndian.AppendUint64(p.Code, uint64(v))
	return offset
}

// PatchUint32 overwrites a previously emitted u32 operand in place.
// Panics if the offset is out of range.
func (p *Program) PatchUint32(offset int, v uint32) {
	if offset < 0 || offset+4 > len(p.Code) {
		panic(fmt.Sprintf("bytecode: patch offset %d out of range (code is %d bytes)", offset, len(p.Code)))
	}
	binary.BigEndian.PutUint32(p.Code[offset:], v)
}

// ReadOpcode decodes the opcode at *pc and advances the cursor past it.
func (p *Program) ReadOpcode(pc *int) (Opcode, error) {
	if *pc < 0 || *pc >= len(p.Code) {
		return 0, fmt.Errorf("code offset %d out of range (code is %d bytes)", *pc, len(p.Code))
	}
	op := Opcode(p.Code[*pc])
	*pc++
	return op, nil
}

// ReadUint32 decodes a big-endian u32 operand at *pc and advances the
// cursor past it.
func (p *Program) ReadUint32(pc *int) (uint32, error) {
	if *pc < 0 || *pc+4 > len(p.Code) {
		return 0, fmt.Errorf("truncated u32 operand at offset %d (code is %d bytes)", *pc, len(p.Code))
	}
	v := binary.BigEndian.Uint32(p.Code[*pc:])
	*pc += 4
	return v, nil
}

// ReadInt64 decodes a big-endian i64 operand at *pc and advances the
// cursor past it.
func (p *Program) ReadInt64(pc *int) (int64, error) {
	if *pc < 0 || *pc+8 > len(p.Code) {
		return 0, fmt.Errorf("truncated i64 operand at offset %d (code is %d bytes)", *pc, len(p.Code))
	}
	v := int64(binary.BigEndian.Uint64(p.Code[*pc:]))
	*pc += 8
	return v, nil
}

// CurrentOffset returns the current offset in the code section.
func (p *Program) CurrentOffset() int {
	return len(p.Code)
}

// CodeLen returns the length of the code section.
func (p *Program) CodeLen() int {
	return len(p.Code)
}

// PrimitiveCount returns the number of entries in the primitive table.
func (p *Program) PrimitiveCount() int {
	return len(p.Primitives)
}
