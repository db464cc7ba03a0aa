package bytecode

import (
	"encoding/binary"
	"testing"
)

func TestBuildEmptyProgram(t *testing.T) {
	p := NewProgram()
	p.PushOp(OpString)

	bin := p.Build()

	// No storage, no subroutines: no leading jump either.
	want := []byte{byte(OpString)}
	if string(bin) != string(want) {
		t.Errorf("binary = %v, want %v", bin, want)
	}
}

func TestBuildJumpTargetsMain(t *testing.T) {
	p := NewProgram()
	p.PushRoutineSymbol("A", SymbolType, 0, nil)
	if _, err := p.PushSubroutine("A"); err != nil {
		t.Fatalf("PushSubroutine failed: %v", err)
	}
	p.PushOp(OpString)
	if err := p.PopSubroutine(); err != nil {
		t.Fatalf("PopSubroutine failed: %v", err)
	}
	p.PushOp(OpNumber) // main body

	bin := p.Build()

	if Opcode(bin[0]) != OpJump {
		t.Fatalf("binary does not start with JUMP: %v", bin)
	}
	target := binary.LittleEndian.Uint32(bin[1:])
	// Main starts right after the 2-byte subroutine body at offset 5.
	if target != 7 {
		t.Errorf("jump target = %d, want 7", target)
	}
	if Opcode(bin[target]) != OpNumber {
		t.Errorf("instruction at jump target = %s, want NUMBER", Opcode(bin[target]))
	}
	if len(bin) != 8 {
		t.Errorf("binary length = %d, want 8", len(bin))
	}
}

func TestBuildRelocatesCalls(t *testing.T) {
	p := NewProgram()

	// A: [STRING RETURN]
	p.PushRoutineSymbol("A", SymbolType, 0, nil)
	if _, err := p.PushSubroutine("A"); err != nil {
		t.Fatalf("PushSubroutine(A) failed: %v", err)
	}
	p.PushOp(OpString)
	if err := p.PopSubroutine(); err != nil {
		t.Fatalf("PopSubroutine(A) failed: %v", err)
	}

	// B: [FRAME CALL &0 NUMBER UNION RETURN]
	p.PushRoutineSymbol("B", SymbolType, 10, nil)
	if _, err := p.PushSubroutine("B"); err != nil {
		t.Fatalf("PushSubroutine(B) failed: %v", err)
	}
	p.PushOp(OpFrame)
	p.PushOp(OpCall)
	p.PushAddress(0)
	p.PushOp(OpNumber)
	p.PushOp(OpUnion)
	if err := p.PopSubroutine(); err != nil {
		t.Fatalf("PopSubroutine(B) failed: %v", err)
	}

	bin := p.Build()

	a, b := p.Subroutines[0], p.Subroutines[1]
	if a.Address != 5 {
		t.Errorf("A.Address = %d, want 5", a.Address)
	}
	if b.Address != 7 {
		t.Errorf("B.Address = %d, want 7", b.Address)
	}

	// B's call operand must now be A's final byte address, not its
	// registry index, and jumping there must land on A's first instruction.
	operand := binary.LittleEndian.Uint32(bin[b.Address+2:])
	if int(operand) != a.Address {
		t.Errorf("call operand = %d, want %d", operand, a.Address)
	}
	if Opcode(bin[operand]) != OpString {
		t.Errorf("instruction at call target = %s, want STRING", Opcode(bin[operand]))
	}

	target := binary.LittleEndian.Uint32(bin[1:])
	if int(target) != len(bin) {
		t.Errorf("jump target = %d, want %d (start of empty main)", target, len(bin))
	}
}

func TestBuildRelocatesMainBuffer(t *testing.T) {
	p := NewProgram()

	p.PushRoutineSymbol("x", SymbolVariable, 0, nil)
	index, err := p.PushSubroutine("x")
	if err != nil {
		t.Fatalf("PushSubroutine failed: %v", err)
	}
	p.PushOp(OpNumber)
	if err := p.PopSubroutine(); err != nil {
		t.Fatalf("PopSubroutine failed: %v", err)
	}

	// Main: initializer, call the type slot, assign.
	p.PushOp(OpTrue)
	p.PushOp(OpCall)
	p.PushAddress(uint32(index))
	p.PushOp(OpAssign)

	bin := p.Build()

	sub := p.Subroutines[0]
	mainStart := int(binary.LittleEndian.Uint32(bin[1:]))
	operand := binary.LittleEndian.Uint32(bin[mainStart+2:])
	if int(operand) != sub.Address {
		t.Errorf("call operand in main = %d, want %d", operand, sub.Address)
	}
	if Opcode(bin[operand]) != OpNumber {
		t.Errorf("instruction at call target = %s, want NUMBER", Opcode(bin[operand]))
	}
}

func TestBuildStorageLayout(t *testing.T) {
	p := NewProgram()
	p.PushRoutineSymbol("A", SymbolType, 0, nil)
	if _, err := p.PushSubroutine("A"); err != nil {
		t.Fatalf("PushSubroutine failed: %v", err)
	}
	p.PushOp(OpStringLiteral)
	p.PushStorage("hello")
	if err := p.PopSubroutine(); err != nil {
		t.Fatalf("PopSubroutine failed: %v", err)
	}

	bin := p.Build()

	// The interned literal must be reconstructable from the blob at its
	// assigned address: u16 length, then the raw bytes.
	address := 5
	length := int(binary.LittleEndian.Uint16(bin[address:]))
	if length != len("hello") {
		t.Fatalf("length prefix = %d, want %d", length, len("hello"))
	}
	if got := string(bin[address+2 : address+2+length]); got != "hello" {
		t.Errorf("stored literal = %q, want %q", got, "hello")
	}

	// The subroutine body follows the storage section.
	sub := p.Subroutines[0]
	if sub.Address != address+2+length {
		t.Errorf("subroutine address = %d, want %d", sub.Address, address+2+length)
	}
	if Opcode(bin[sub.Address]) != OpStringLiteral {
		t.Errorf("instruction at subroutine address = %s, want STRING_LITERAL", Opcode(bin[sub.Address]))
	}

	// The literal instruction's operand is the storage address.
	operand := binary.LittleEndian.Uint32(bin[sub.Address+1:])
	if int(operand) != address {
		t.Errorf("literal operand = %d, want %d", operand, address)
	}
}

func TestRelocateBadIndexPanics(t *testing.T) {
	p := NewProgram()
	p.PushOp(OpCall)
	p.PushAddress(7) // registry is empty

	defer func() {
		if recover() == nil {
			t.Error("Build with a malformed call index did not panic")
		}
	}()
	p.Build()
}
