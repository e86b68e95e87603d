package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable bytecode listing for the program.
func (p *Program) Disassemble() string {
	var sb strings.Builder

	if len(p.Primitives) > 0 {
		sb.WriteString("; Primitives:\n")
		for i, name := range p.Primitives {
			sb.WriteString(fmt.Sprintf(";   [%3d] %s\n", i, name))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("; Code:\n")
	offset := 0
	for offset < len(p.Code) {
		line, instrLen := p.disassembleInstruction(offset)
		sb.WriteString(fmt.Sprintf("%04X  %s\n", offset, line))
		if instrLen == 0 {
			break
		}
		offset += instrLen
	}

	return sb.String()
}

// disassembleInstruction disassembles a single instruction at the given offset.
// Returns the formatted string and the instruction length.
func (p *Program) disassembleInstruction(offset int) (string, int) {
	if offset >= len(p.Code) {
		return "<end of code>", 0
	}

	op := Opcode(p.Code[offset])
	info := GetOpcodeInfo(op)

	pc := offset + 1
	switch op {
	case OpPushInt:
		v, err := p.ReadInt64(&pc)
		if err != nil {
			return "PUSH_INT <truncated>", len(p.Code) - offset
		}
		return fmt.Sprintf("PUSH_INT %d", v), 9

	case OpPushFunc:
		addr, err := p.ReadUint32(&pc)
		if err != nil {
			return "PUSH_FUNC <truncated>", len(p.Code) - offset
		}
		return fmt.Sprintf("PUSH_FUNC %04X", addr), 5

	case OpPushProto:
		idx, err := p.ReadUint32(&pc)
		if err != nil {
			return "PUSH_PROTO <truncated>", len(p.Code) - offset
		}
		name := ""
		if int(idx) < len(p.Primitives) {
			name = p.Primitives[idx]
		}
		return fmt.Sprintf("PUSH_PROTO %d ; %s", idx, name), 5

	case OpPeek:
		n, err := p.ReadUint32(&pc)
		if err != nil {
			return "PEEK <truncated>", len(p.Code) - offset
		}
		return fmt.Sprintf("PEEK %d", n), 5

	case OpJump:
		addr, err := p.ReadUint32(&pc)
		if err != nil {
			return "JUMP <truncated>", len(p.Code) - offset
		}
		return fmt.Sprintf("JUMP -> %04X", addr), 5

	case OpJumpFalse:
		addr, err := p.ReadUint32(&pc)
		if err != nil {
			return "JUMP_FALSE <truncated>", len(p.Code) - offset
		}
		return fmt.Sprintf("JUMP_FALSE -> %04X", addr), 5

	case OpRet:
		depth, err := p.ReadUint32(&pc)
		if err != nil {
			return "RET <truncated>", len(p.Code) - offset
		}
		nargs, err := p.ReadUint32(&pc)
		if err != nil {
			return "RET <truncated>", len(p.Code) - offset
		}
		return fmt.Sprintf("RET depth=%d nargs=%d", depth, nargs), 9

	default:
		return info.Name, op.InstructionLen()
	}
}

// DisassembleInstruction returns a human-readable representation of a single instruction.
func (p *Program) DisassembleInstruction(offset int) string {
	line, _ := p.disassembleInstruction(offset)
	return line
}

// DisassembleToLines returns the disassembly of the code section as a slice of lines.
func (p *Program) DisassembleToLines() []string {
	var lines []string
	offset := 0
	for offset < len(p.Code) {
		line, instrLen := p.disassembleInstruction(offset)
		lines = append(lines, fmt.Sprintf("%04X  %s", offset, line))
		if instrLen == 0 {
			break
		}
		offset += instrLen
	}
	return lines
}

// InstructionCount returns the number of instructions in the program.
// Note: This iterates through all code, so it's O(n).
func (p *Program) InstructionCount() int {
	count := 0
	offset := 0
	for offset < len(p.Code) {
		op := Opcode(p.Code[offset])
		offset += op.InstructionLen()
		count++
	}
	return count
}
