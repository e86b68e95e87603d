package bytecode

import "fmt"

// Opcode represents a bytecode instruction.
// Opcodes are organized into ranges by category for easy identification.
type Opcode byte

const (
	// ========================================================================
	// Stack manipulation (0x00-0x0F)
	// ========================================================================

	OpPushInt   Opcode = 0x01 // Push integer constant: OpPushInt <value:i64>
	OpPushFunc  Opcode = 0x02 // Push code address: OpPushFunc <addr:u32>
	OpPushProto Opcode = 0x03 // Push primitive handle: OpPushProto <prim:u32>
	OpPeek      Opcode = 0x04 // Copy n-th value below top to top: OpPeek <n:u32>
	OpPop       Opcode = 0x05 // Pop top of stack

	// ========================================================================
	// Arithmetic (0x10-0x1F)
	// ========================================================================

	OpAdd Opcode = 0x10 // Pop two, push sum

	// ========================================================================
	// Control flow (0x20-0x2F)
	// ========================================================================

	OpJump      Opcode = 0x20 // Unconditional jump: OpJump <addr:u32>
	OpJumpFalse Opcode = 0x21 // Pop condition, jump if falsy: OpJumpFalse <addr:u32>

	// ========================================================================
	// Calls (0x30-0x3F)
	// ========================================================================

	OpCall Opcode = 0x30 // Pop callee, invoke it
	OpRet  Opcode = 0x31 // Return from function: OpRet <depth:u32> <nargs:u32>

	// ========================================================================
	// Halt (0xF0-0xFF)
	// ========================================================================

	OpStop Opcode = 0xF0 // Stop execution
)

// OpcodeInfo provides metadata about each opcode for debugging and validation.
type OpcodeInfo struct {
	Name       string // Human-readable name
	StackPop   int    // How many values popped from stack (-1 = variable)
	StackPush  int    // How many values pushed to stack (-1 = variable)
	OperandLen int    // Number of operand bytes following the opcode
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpPushInt:   {"PUSH_INT", 0, 1, 8},
	OpPushFunc:  {"PUSH_FUNC", 0, 1, 4},
	OpPushProto: {"PUSH_PROTO", 0, 1, 4},
	OpPeek:      {"PEEK", 0, 1, 4},
	OpPop:       {"POP", 1, 0, 0},

	OpAdd: {"ADD", 2, 1, 0},

	OpJump:      {"JUMP", 0, 0, 4},
	OpJumpFalse: {"JUMP_FALSE", 1, 0, 4},

	OpCall: {"CALL", -1, -1, 0}, // Pops callee, then behaves per callee
	OpRet:  {"RET", -1, 1, 8},  // Pops result, temps, return address, args

	OpStop: {"STOP", 0, 0, 0},
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op)), StackPop: 0, StackPush: 0, OperandLen: 0}
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// OperandLen returns the number of operand bytes for this opcode.
func (op Opcode) OperandLen() int {
	return GetOpcodeInfo(op).OperandLen
}

// InstructionLen returns the total length of an instruction (1 + operand bytes).
func (op Opcode) InstructionLen() int {
	return 1 + op.OperandLen()
}

// IsJump returns true if this opcode is a jump instruction.
func (op Opcode) IsJump() bool {
	return op >= OpJump && op <= OpJumpFalse
}

// IsTerminator returns true if this opcode ends straight-line execution.
func (op Opcode) IsTerminator() bool {
	return op == OpRet || op == OpStop || op == OpJump
}

// AllOpcodes returns a slice of all defined opcodes.
// Useful for testing that all opcodes have metadata.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
