package bytecode

import "testing"

func TestOpcodeMetadata(t *testing.T) {
	tests := []struct {
		op         Opcode
		name       string
		operandLen int
	}{
		{OpNoop, "NOOP", 0},
		{OpJump, "JUMP", 4},
		{OpCall, "CALL", 4},
		{OpReturn, "RETURN", 0},
		{OpFrame, "FRAME", 0},
		{OpVar, "VAR", 0},
		{OpLoads, "LOADS", 4},
		{OpAssign, "ASSIGN", 0},
		{OpBoolean, "BOOLEAN", 0},
		{OpString, "STRING", 0},
		{OpNumber, "NUMBER", 0},
		{OpUnknown, "UNKNOWN", 0},
		{OpTrue, "TRUE", 0},
		{OpFalse, "FALSE", 0},
		{OpNumberLiteral, "NUMBER_LITERAL", 4},
		{OpBigIntLiteral, "BIGINT_LITERAL", 4},
		{OpStringLiteral, "STRING_LITERAL", 4},
		{OpUnion, "UNION", 0},
		{OpFunction, "FUNCTION", 0},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.name {
			t.Errorf("%s.String() = %q, want %q", tt.name, got, tt.name)
		}
		if got := tt.op.OperandLen(); got != tt.operandLen {
			t.Errorf("%s.OperandLen() = %d, want %d", tt.name, got, tt.operandLen)
		}
		if got := tt.op.InstructionLen(); got != 1+tt.operandLen {
			t.Errorf("%s.InstructionLen() = %d, want %d", tt.name, got, 1+tt.operandLen)
		}
	}

	if len(tests) != OpcodeCount() {
		t.Errorf("test covers %d opcodes, table defines %d", len(tests), OpcodeCount())
	}
}

func TestUndefinedOpcode(t *testing.T) {
	op := Opcode(0xEE)
	if got := op.String(); got != "UNDEFINED(0xEE)" {
		t.Errorf("String() = %q, want UNDEFINED(0xEE)", got)
	}
	if got := op.OperandLen(); got != 0 {
		t.Errorf("OperandLen() = %d, want 0", got)
	}
}

func TestIsLiteral(t *testing.T) {
	for _, op := range AllOpcodes() {
		want := op == OpNumberLiteral || op == OpBigIntLiteral || op == OpStringLiteral
		if got := op.IsLiteral(); got != want {
			t.Errorf("%s.IsLiteral() = %v, want %v", op, got, want)
		}
	}
}
