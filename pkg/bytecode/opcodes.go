package bytecode

import "fmt"

// Opcode represents a single type-VM instruction.
// Opcodes are organized into ranges by category for easy identification.
type Opcode byte

const (
	// ========================================================================
	// Control flow (0x00-0x0F)
	// ========================================================================

	OpNoop   Opcode = 0x00 // No operation
	OpJump   Opcode = 0x01 // Jump to absolute offset: Jump <target:u32>
	OpCall   Opcode = 0x02 // Call subroutine: Call <address:u32>
	OpReturn Opcode = 0x03 // Return from subroutine
	OpFrame  Opcode = 0x04 // Materialize a new runtime scope

	// ========================================================================
	// Variables (0x10-0x1F)
	// ========================================================================

	OpVar    Opcode = 0x10 // Bind a type variable in the current frame
	OpLoads  Opcode = 0x11 // Load symbol: Loads <frame:u16> <symbol:u16>
	OpAssign Opcode = 0x12 // Assign popped value to popped target

	// ========================================================================
	// Primitive types (0x20-0x2F)
	// ========================================================================

	OpBoolean Opcode = 0x20 // Push the boolean type
	OpString  Opcode = 0x21 // Push the string type
	OpNumber  Opcode = 0x22 // Push the number type
	OpUnknown Opcode = 0x23 // Push the unknown type

	// ========================================================================
	// Literal types (0x30-0x3F)
	// ========================================================================

	OpTrue          Opcode = 0x30 // Push the literal type true
	OpFalse         Opcode = 0x31 // Push the literal type false
	OpNumberLiteral Opcode = 0x32 // Push number literal: <address:u32> into storage
	OpBigIntLiteral Opcode = 0x33 // Push bigint literal: <address:u32> into storage
	OpStringLiteral Opcode = 0x34 // Push string literal: <address:u32> into storage

	// ========================================================================
	// Composite types (0x40-0x4F)
	// ========================================================================

	OpUnion    Opcode = 0x40 // Collapse current frame into a union type
	OpFunction Opcode = 0x41 // Collapse parameters and return type into a function type
)

// OpcodeInfo provides metadata about each opcode for disassembly and for the
// relocation pass, which must skip operand bytes it does not rewrite.
type OpcodeInfo struct {
	Name       string // Human-readable mnemonic
	OperandLen int    // Number of operand bytes following the opcode
}

// opcodeInfoTable maps opcodes to their metadata. The operand widths here are
// a wire contract shared with the type VM; changing one breaks relocation.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpNoop:   {"NOOP", 0},
	OpJump:   {"JUMP", 4},
	OpCall:   {"CALL", 4},
	OpReturn: {"RETURN", 0},
	OpFrame:  {"FRAME", 0},

	OpVar:    {"VAR", 0},
	OpLoads:  {"LOADS", 4}, // u16 frame id + u16 symbol index
	OpAssign: {"ASSIGN", 0},

	OpBoolean: {"BOOLEAN", 0},
	OpString:  {"STRING", 0},
	OpNumber:  {"NUMBER", 0},
	OpUnknown: {"UNKNOWN", 0},

	OpTrue:          {"TRUE", 0},
	OpFalse:         {"FALSE", 0},
	OpNumberLiteral: {"NUMBER_LITERAL", 4},
	OpBigIntLiteral: {"BIGINT_LITERAL", 4},
	OpStringLiteral: {"STRING_LITERAL", 4},

	OpUnion:    {"UNION", 0},
	OpFunction: {"FUNCTION", 0},
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNDEFINED" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNDEFINED(0x%02X)", byte(op)), OperandLen: 0}
}

// String returns the human-readable mnemonic of an opcode.
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

// IsLiteral returns true if this opcode carries a storage address operand.
func (op Opcode) IsLiteral() bool {
	return op >= OpNumberLiteral && op <= OpStringLiteral
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
