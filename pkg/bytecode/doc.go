// Package bytecode translates verified imp modules to bytecode and
// executes them on a stack-based virtual machine.
//
// The bytecode format is designed for:
//   - Compact representation (a one-byte opcode plus fixed-width operands)
//   - Fast decoding (big-endian operands, no variable-length encodings)
//   - Easy serialization (programs round-trip through a CBOR image)
//
// # Architecture Overview
//
// The system consists of several components:
//
//   - Program: A flat code section plus the table of primitive names the
//     code refers to. Typed readers decode operands at a cursor.
//
//   - Translator: Lowers the AST to bytecode in a single pass, using
//     labels with fixups for forward references and a static depth
//     counter to locate arguments relative to the stack top.
//
//   - Runtime: The registry of host primitives. Programs name primitives
//     symbolically; the VM resolves the names when it is constructed, so
//     an image compiled on one host runs on another with the same
//     registry.
//
//   - VM: Stack-based interpreter. There are no call frames: a call
//     pushes the resumption address onto the operand stack, and return
//     unwinds the result, temporaries, return address, and arguments in
//     one step.
//
// # Calling Convention
//
// Arguments are pushed right to left, so the leftmost argument is
// closest to the top when the callee starts. Every callable, bytecode
// function or host primitive, consumes its declared arguments and leaves
// exactly one result. Functions locate their arguments with PEEK, whose
// operand skips the temporaries and return address above them.
package bytecode
