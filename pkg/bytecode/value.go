package bytecode

import "fmt"

// ValueKind discriminates the runtime value representations.
type ValueKind uint8

const (
	// ValueInt is a 64-bit signed integer.
	ValueInt ValueKind = iota

	// ValueAddr is a code address produced by OpPushFunc.
	ValueAddr

	// ValueProto is a resolved primitive handle produced by OpPushProto.
	ValueProto
)

// String returns a human-readable name for ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	case ValueAddr:
		return "addr"
	case ValueProto:
		return "proto"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Value is a tagged operand stack slot. Exactly one of the payload fields
// is meaningful, selected by Kind.
type Value struct {
	Kind  ValueKind
	Int   int64
	Addr  uint32
	Proto uint32
}

// IntValue creates an integer value.
func IntValue(v int64) Value {
	return Value{Kind: ValueInt, Int: v}
}

// AddrValue creates a code address value.
func AddrValue(addr uint32) Value {
	return Value{Kind: ValueAddr, Addr: addr}
}

// ProtoValue creates a primitive handle value.
func ProtoValue(index uint32) Value {
	return Value{Kind: ValueProto, Proto: index}
}

// Truthy reports whether the value is considered true in a condition.
// Integers are true when nonzero; addresses and primitive handles are
// always true.
func (v Value) Truthy() bool {
	if v.Kind == ValueInt {
		return v.Int != 0
	}
	return true
}

// String formats the value for traces and error messages.
func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return fmt.Sprintf("%d", v.Int)
	case ValueAddr:
		return fmt.Sprintf("addr:%04x", v.Addr)
	case ValueProto:
		return fmt.Sprintf("proto:%d", v.Proto)
	default:
		return fmt.Sprintf("?%d", v.Kind)
	}
}
