package bytecode

import (
	"encoding/binary"
	"fmt"
)

// SymbolKind classifies a named declaration.
type SymbolKind uint8

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolClass
	SymbolType
	SymbolTypeVariable
)

// String returns a human-readable name for SymbolKind.
func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	case SymbolType:
		return "type"
	case SymbolTypeVariable:
		return "type variable"
	default:
		return fmt.Sprintf("SymbolKind(%d)", k)
	}
}

// ScopeKind states how the runtime scope of a new frame comes into being.
// The choice is a call-convention contract with the VM: ExplicitScope emits
// an OpFrame instruction so the VM materializes the scope itself, while
// ImplicitScope emits nothing because some other instruction (a Call, for
// instance) already establishes the scope on the VM side.
type ScopeKind uint8

const (
	ExplicitScope ScopeKind = iota
	ImplicitScope
)

// Subroutine is an independently addressable compiled unit. Type aliases,
// functions and variable type slots each own one, so they can be called by
// address and referenced before their bodies are compiled.
type Subroutine struct {
	Ops       []byte      // instruction buffer
	SourceMap map[int]int // buffer offset -> source position
	Name      string
	Kind      SymbolKind
	Index     int // registry index; Call operands carry it until Build
	Address   int // final byte address in the binary, set by Build
	Pos       int // source position of the owning declaration
}

// Symbol is a named declaration bound to a frame.
type Symbol struct {
	Name string
	Kind SymbolKind
	Pos  int

	// Index is the symbol's position in its owning frame's list, assigned at
	// insertion and immutable. Together with the frame id it forms the Loads
	// operand that addresses the symbol at runtime.
	Index int

	// Declarations counts how often the name was declared in the frame.
	// Starts at 1; repeated declaration bumps it instead of adding an entry.
	Declarations int

	// Routine is set for symbols that can be called by address.
	Routine *Subroutine

	// Frame is the frame owning this symbol. Kept on the symbol because
	// Loads operands are emitted long after the frame stopped being current.
	Frame *Frame
}

// Frame is a lexical scope. Frames form a parent-linked chain; a frame never
// knows its children. A frame stays reachable through any Symbol that points
// at it even after the Program's current pointer moved back to the parent.
type Frame struct {
	// ID is assigned as parent ID + 1. It is unique along any single chain
	// from root to leaf, not globally across sibling branches; the VM keeps
	// its own id-to-frame mapping at runtime.
	ID          int
	Conditional bool // reserved for branch-specific scopes
	Previous    *Frame
	Symbols     []*Symbol
}

// find returns the symbol of the given name in this frame only, or nil.
func (f *Frame) find(name string) *Symbol {
	for _, s := range f.Symbols {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Program is the top-level compilation aggregate: the main instruction
// buffer, the storage table, the frame chain, the subroutine registry and
// the active-emission stack. It is exclusively owned by one compilation.
type Program struct {
	Ops       []byte      // instructions of the main program
	SourceMap map[int]int // main buffer offset -> source position

	Frame       *Frame        // current (innermost) frame
	Subroutines []*Subroutine // registry, in creation order

	// active tracks which subroutine instruction output currently goes to.
	// Empty means the main buffer.
	active []*Subroutine

	storage      []StorageItem
	storageMap   map[string]int // literal text -> assigned address
	storageIndex int
}

// NewProgram creates an empty program with a root frame.
func NewProgram() *Program {
	return &Program{
		SourceMap:  make(map[int]int),
		Frame:      &Frame{},
		storageMap: make(map[string]int),
	}
}

// PushFrame enters a new scope below the current frame and makes it current.
// With ExplicitScope an OpFrame instruction is emitted first, telling the VM
// to materialize the runtime scope; with ImplicitScope nothing is emitted.
func (p *Program) PushFrame(kind ScopeKind) *Frame {
	if kind == ExplicitScope {
		p.PushOp(OpFrame)
	}
	p.Frame = &Frame{ID: p.Frame.ID + 1, Previous: p.Frame}
	return p.Frame
}

// PopFrame restores the current frame to the parent. It never emits an
// instruction: the VM-side scope teardown is always owed to some other
// instruction (Union, Return, ...) that collapses the scope itself.
func (p *Program) PopFrame() {
	if p.Frame.Previous != nil {
		p.Frame = p.Frame.Previous
	}
}

// PushSymbol declares a name in the given frame (the current frame if nil).
// Only that frame's own list is searched: redeclaring a name there bumps the
// existing symbol's declaration counter and returns it unchanged.
func (p *Program) PushSymbol(name string, kind SymbolKind, pos int, frame *Frame) *Symbol {
	if frame == nil {
		frame = p.Frame
	}
	if s := frame.find(name); s != nil {
		s.Declarations++
		return s
	}
	s := &Symbol{
		Name:         name,
		Kind:         kind,
		Pos:          pos,
		Index:        len(frame.Symbols),
		Declarations: 1,
		Frame:        frame,
	}
	frame.Symbols = append(frame.Symbols, s)
	return s
}

// PushRoutineSymbol declares a routine-bearing symbol. On first declaration a
// Subroutine is allocated and registered immediately, before its body exists,
// so forward and mutually recursive references already have a call target.
// Idempotent for repeated declarations of the same name.
func (p *Program) PushRoutineSymbol(name string, kind SymbolKind, pos int, frame *Frame) *Symbol {
	s := p.PushSymbol(name, kind, pos, frame)
	if s.Routine != nil {
		return s
	}
	sub := &Subroutine{
		SourceMap: make(map[int]int),
		Name:      name,
		Kind:      kind,
		Index:     len(p.Subroutines),
		Pos:       pos,
	}
	p.Subroutines = append(p.Subroutines, sub)
	s.Routine = sub
	return s
}

// FindSymbol resolves a name from the current frame outward through the
// chain. The nearest declaration wins, giving lexical shadowing.
func (p *Program) FindSymbol(name string) (*Symbol, error) {
	for f := p.Frame; f != nil; f = f.Previous {
		if s := f.find(name); s != nil {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnresolvedSymbol, name)
}

// PushSubroutine activates the subroutine of the named symbol: instruction
// output is redirected into its buffer until the matching PopSubroutine.
// Only the current frame's own symbols are searched, because activation must
// immediately follow declaration in the same frame. The scope entry is
// implicit: invoking a subroutine at runtime creates its frame as part of
// the call convention, so no OpFrame is emitted.
//
// The returned registry index is what Call operands carry until Build
// rewrites them to final byte addresses.
func (p *Program) PushSubroutine(name string) (int, error) {
	for _, s := range p.Frame.Symbols {
		if s.Name == name && s.Routine != nil {
			p.PushFrame(ImplicitScope)
			p.active = append(p.active, s.Routine)
			return s.Routine.Index, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnboundSubroutine, name)
}

// PopSubroutine closes the subroutine on top of the activation stack,
// appending its trailing Return. A subroutine must contain at least one
// instruction of its own before it can be closed.
func (p *Program) PopSubroutine() error {
	if len(p.active) == 0 {
		return ErrEmptyActivationStack
	}
	p.PopFrame()
	sub := p.active[len(p.active)-1]
	if len(sub.Ops) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptySubroutineBody, sub.Name)
	}
	sub.Ops = append(sub.Ops, byte(OpReturn))
	p.active = p.active[:len(p.active)-1]
	return nil
}

// ActiveSubroutine returns the subroutine currently receiving instructions,
// or nil if output goes to the main buffer.
func (p *Program) ActiveSubroutine() *Subroutine {
	if n := len(p.active); n > 0 {
		return p.active[n-1]
	}
	return nil
}

// target returns the instruction buffer and source map currently being
// written to: the top of the activation stack, or the main program.
func (p *Program) target() (*[]byte, map[int]int) {
	if n := len(p.active); n > 0 {
		sub := p.active[n-1]
		return &sub.Ops, sub.SourceMap
	}
	return &p.Ops, p.SourceMap
}

// PushOp appends an instruction to the currently active buffer.
func (p *Program) PushOp(op Opcode) {
	ops, _ := p.target()
	*ops = append(*ops, byte(op))
}

// PushOpAt appends an instruction and records its originating source
// position in the active buffer's source map.
func (p *Program) PushOpAt(op Opcode, pos int) {
	ops, srcMap := p.target()
	srcMap[len(*ops)] = pos
	*ops = append(*ops, byte(op))
}

// PushAddress appends a 4-byte address operand. During compilation the value
// is often a registry or storage index standing in for the final address;
// the width stays constant so Build can rewrite it in place.
func (p *Program) PushAddress(address uint32) {
	ops, _ := p.target()
	*ops = binary.LittleEndian.AppendUint32(*ops, address)
}

// PushSymbolAddress appends the Loads operand pair for a symbol: the id of
// its owning frame and its index within that frame.
func (p *Program) PushSymbolAddress(s *Symbol) {
	ops, _ := p.target()
	*ops = binary.LittleEndian.AppendUint16(*ops, uint16(s.Frame.ID))
	*ops = binary.LittleEndian.AppendUint16(*ops, uint16(s.Index))
}

// PushStorage interns a literal and appends its storage address operand.
func (p *Program) PushStorage(text string) {
	p.PushAddress(uint32(p.RegisterStorage(text)))
}
