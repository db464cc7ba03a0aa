package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the whole program: every
// subroutine in registry order, then the main body. Intended for debugging;
// the VM never consumes this.
func (p *Program) Disassemble() string {
	var sb strings.Builder

	for _, sub := range p.Subroutines {
		sb.WriteString(fmt.Sprintf("; === %s &%d (%s, %d bytes) ===\n",
			sub.Name, sub.Index, sub.Kind, len(sub.Ops)))
		p.disassembleOps(&sb, sub.Ops)
	}

	sb.WriteString(fmt.Sprintf("; === main (%d bytes) ===\n", len(p.Ops)))
	p.disassembleOps(&sb, p.Ops)

	return sb.String()
}

func (p *Program) disassembleOps(sb *strings.Builder, ops []byte) {
	offset := 0
	for offset < len(ops) {
		line, instrLen := p.disassembleInstruction(ops, offset)
		sb.WriteString(fmt.Sprintf("%04X  %s\n", offset, line))
		offset += instrLen
	}
}

// disassembleInstruction formats a single instruction at the given offset.
// Returns the formatted string and the instruction length.
func (p *Program) disassembleInstruction(ops []byte, offset int) (string, int) {
	op := Opcode(ops[offset])
	info := GetOpcodeInfo(op)

	if offset+1+info.OperandLen > len(ops) {
		return fmt.Sprintf("%s <truncated>", info.Name), len(ops) - offset
	}

	switch {
	case op == OpCall:
		address := binary.LittleEndian.Uint32(ops[offset+1:])
		if int(address) < len(p.Subroutines) {
			// Before Build the operand is still a registry index.
			return fmt.Sprintf("CALL &%d ; %s", address, p.Subroutines[address].Name), 5
		}
		return fmt.Sprintf("CALL &%d", address), 5

	case op == OpJump:
		target := binary.LittleEndian.Uint32(ops[offset+1:])
		return fmt.Sprintf("JUMP -> %04X", target), 5

	case op == OpLoads:
		frame := binary.LittleEndian.Uint16(ops[offset+1:])
		symbol := binary.LittleEndian.Uint16(ops[offset+3:])
		return fmt.Sprintf("LOADS &%d:%d", frame, symbol), 5

	case op.IsLiteral():
		address := binary.LittleEndian.Uint32(ops[offset+1:])
		text := p.FindStorage(int(address))
		if len(text) > 40 {
			text = text[:37] + "..."
		}
		return fmt.Sprintf("%s &%d ; %q", info.Name, address, text), 5

	default:
		return info.Name, info.OperandLen + 1
	}
}

// DisassembleInstruction returns a human-readable representation of the
// single instruction at the given offset of the main buffer.
func (p *Program) DisassembleInstruction(offset int) string {
	line, _ := p.disassembleInstruction(p.Ops, offset)
	return line
}
