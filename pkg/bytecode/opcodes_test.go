package bytecode

import (
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("opcode 0x%02X has no metadata", byte(op))
		}
	}
}

func TestOpcodeNamesUnique(t *testing.T) {
	seen := make(map[string]Opcode)
	for _, op := range AllOpcodes() {
		name := op.String()
		if prev, ok := seen[name]; ok {
			t.Errorf("opcodes 0x%02X and 0x%02X share name %q", byte(prev), byte(op), name)
		}
		seen[name] = op
	}
}

func TestUnknownOpcode(t *testing.T) {
	info := GetOpcodeInfo(Opcode(0xEE))
	if !strings.HasPrefix(info.Name, "UNKNOWN") {
		t.Errorf("name = %q, want UNKNOWN prefix", info.Name)
	}
}

func TestInstructionLen(t *testing.T) {
	tests := []struct {
		op   Opcode
		want int
	}{
		{OpPushInt, 9},
		{OpPushFunc, 5},
		{OpPushProto, 5},
		{OpPeek, 5},
		{OpPop, 1},
		{OpAdd, 1},
		{OpJump, 5},
		{OpJumpFalse, 5},
		{OpCall, 1},
		{OpRet, 9},
		{OpStop, 1},
	}

	for _, tc := range tests {
		if got := tc.op.InstructionLen(); got != tc.want {
			t.Errorf("%s: instruction length = %d, want %d", tc.op, got, tc.want)
		}
	}
}

func TestIsJump(t *testing.T) {
	if !OpJump.IsJump() || !OpJumpFalse.IsJump() {
		t.Error("jump opcodes not classified as jumps")
	}
	if OpCall.IsJump() || OpRet.IsJump() {
		t.Error("non-jump opcodes classified as jumps")
	}
}
