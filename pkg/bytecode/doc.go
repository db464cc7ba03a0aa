// Package bytecode compiles type-declaration syntax trees into a compact
// bytecode program executed by the type VM. It is the backend of the
// compiler: the frontend produces the AST (see pkg/ast), this package lowers
// it, and the VM resolves and checks types against the resulting binary.
//
// The bytecode format is designed for:
//   - Compact representation (most instructions are 1-5 bytes)
//   - Fast decoding (fixed-width operands, single-byte opcodes)
//   - Relocatability (one self-contained blob, executable from offset 0)
//
// # Architecture Overview
//
// The package consists of several components:
//
//   - Opcodes: the instruction set of the type VM, with a metadata table
//     describing operand widths. The widths are a fixed contract shared with
//     the VM and the relocation pass.
//
//   - Program: the compilation aggregate. It owns the lexical frame chain
//     with its symbols, the subroutine registry, the literal storage table
//     and the active-emission stack that redirects instruction output into
//     whichever subroutine is currently being populated.
//
//   - Subroutines: independently buffered units of instructions, one per
//     type alias, function or variable type slot. They are registered before
//     their bodies are compiled, so forward references and mutual recursion
//     resolve against a stable registry index.
//
//   - Build: the two-pass layout step. It concatenates storage, subroutine
//     bodies and the main body into one blob and rewrites every Call operand
//     from a registry index to the subroutine's final byte address.
//
//   - Compiler: the AST lowering dispatch, keyed on node kind. Fatal errors
//     indicate the lowering called the Program API incorrectly; user-level
//     issues (duplicate declarations, unnamed functions) are collected as
//     recoverable diagnostics instead.
//
// # Binary Layout
//
// All multi-byte operands are little-endian:
//
//	[Jump][target:u32]        present iff storage or subroutines exist
//	[storage entries]         each: u16 length, then raw bytes
//	[subroutine bodies]       concatenated in registry order
//	[main program body]
//
// Executing the blob from offset 0 therefore skips all declarations and
// starts at the main program.
package bytecode
