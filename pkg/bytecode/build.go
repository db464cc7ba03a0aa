package bytecode

import (
	"encoding/binary"
	"fmt"
)

// jumpHeaderLen is the size of the leading Jump instruction plus its target.
const jumpHeaderLen = 5

// Build lays the program out as one relocatable binary blob:
//
//	[Jump][target:u32]  iff storage or subroutines exist
//	[storage entries]
//	[subroutine bodies] in registry order
//	[main program body]
//
// Subroutines receive their final byte addresses here, and every Call
// operand in every buffer is rewritten from registry index to that final
// address. The leading jump is patched to land on the first instruction of
// the main body, so execution from offset 0 skips all declarations.
func (p *Program) Build() []byte {
	var bin []byte
	address := 0

	if len(p.storage) > 0 || len(p.Subroutines) > 0 {
		address = jumpHeaderLen
		bin = append(bin, byte(OpJump))
		bin = binary.LittleEndian.AppendUint32(bin, 0) // patched below
	}

	for _, item := range p.storage {
		bin = binary.LittleEndian.AppendUint16(bin, uint16(len(item.Value)))
		bin = append(bin, item.Value...)
		address += 2 + len(item.Value)
	}

	// First pass: assign final addresses in registry order.
	routineAddress := address
	for _, sub := range p.Subroutines {
		sub.Address = routineAddress
		routineAddress += len(sub.Ops)
	}

	// Second pass: rewrite Call operands everywhere.
	p.relocate(p.Ops)
	for _, sub := range p.Subroutines {
		p.relocate(sub.Ops)
	}

	for _, sub := range p.Subroutines {
		bin = append(bin, sub.Ops...)
		address += len(sub.Ops)
	}

	if len(bin) > 0 && Opcode(bin[0]) == OpJump {
		binary.LittleEndian.PutUint32(bin[1:], uint32(address))
	}

	return append(bin, p.Ops...)
}

// relocate rewrites every Call operand in one buffer from compile-time
// registry index to final byte address. All other instructions are skipped
// over by their fixed operand widths. A registry index out of range is a
// compiler bug, not a user error, and panics.
func (p *Program) relocate(ops []byte) {
	for i := 0; i < len(ops); i++ {
		op := Opcode(ops[i])
		if op == OpCall {
			index := binary.LittleEndian.Uint32(ops[i+1:])
			if int(index) >= len(p.Subroutines) {
				panic(fmt.Sprintf("bytecode: call to subroutine %d, registry holds %d", index, len(p.Subroutines)))
			}
			binary.LittleEndian.PutUint32(ops[i+1:], uint32(p.Subroutines[index].Address))
		}
		i += op.OperandLen()
	}
}
