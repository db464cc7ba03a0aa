package bytecode

import (
	"fmt"

	"github.com/typeshift/typeshift/pkg/ast"
)

// Compiler lowers a type-declaration syntax tree into a Program. It drives
// the Program's frame, symbol and subroutine machinery during a single
// recursive traversal; the Program's active-emission stack takes care of
// routing instructions into whichever subroutine body is being populated.
type Compiler struct {
	program *Program
	diags   []Diagnostic
}

// Compile lowers a source file and returns the resulting program together
// with any recoverable diagnostics. A non-nil error is a compiler-internal
// invariant violation and means no usable program was produced.
func Compile(file *ast.Node) (*Program, []Diagnostic, error) {
	c := &Compiler{program: NewProgram()}
	if err := c.compile(file); err != nil {
		return nil, c.diags, err
	}
	return c.program, c.diags, nil
}

// report records a recoverable diagnostic and continues compilation.
func (c *Compiler) report(code DiagCode, pos int, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	})
}

// compile dispatches on the node kind. Unsupported kinds produce a
// diagnostic, not an error.
func (c *Compiler) compile(node *ast.Node) error {
	p := c.program

	switch node.Kind {
	case ast.KindSourceFile:
		for _, stmt := range node.Statements {
			if err := c.compile(stmt); err != nil {
				return err
			}
		}

	case ast.KindBooleanKeyword:
		p.PushOpAt(OpBoolean, node.Pos)
	case ast.KindStringKeyword:
		p.PushOpAt(OpString, node.Pos)
	case ast.KindNumberKeyword:
		p.PushOpAt(OpNumber, node.Pos)
	case ast.KindTrueKeyword:
		p.PushOpAt(OpTrue, node.Pos)
	case ast.KindFalseKeyword:
		p.PushOpAt(OpFalse, node.Pos)

	case ast.KindNumericLiteral:
		p.PushOpAt(OpNumberLiteral, node.Pos)
		p.PushStorage(node.Text)
	case ast.KindBigIntLiteral:
		p.PushOpAt(OpBigIntLiteral, node.Pos)
		p.PushStorage(node.Text)
	case ast.KindStringLiteral:
		p.PushOpAt(OpStringLiteral, node.Pos)
		p.PushStorage(node.Text)

	case ast.KindUnionType:
		// Union collapses its frame at runtime, so the frame entry is
		// explicit but the exit is not.
		p.PushFrame(ExplicitScope)
		for _, member := range node.Types {
			if err := c.compile(member); err != nil {
				return err
			}
		}
		p.PushOpAt(OpUnion, node.Pos)
		p.PopFrame()

	case ast.KindTypeReference:
		return c.compileTypeReference(node)

	case ast.KindTypeAliasDeclaration:
		return c.compileTypeAlias(node)

	case ast.KindFunctionDeclaration:
		return c.compileFunction(node)

	case ast.KindVariableStatement:
		for _, decl := range node.Declarations {
			if err := c.compile(decl); err != nil {
				return err
			}
		}

	case ast.KindVariableDeclaration:
		return c.compileVariable(node)

	default:
		c.report(UnsupportedNode, node.Pos, "cannot compile %s", node)
	}
	return nil
}

// compileTypeReference resolves the referenced name. Type variables live on
// the frame stack and are read with Loads; everything else is backed by a
// subroutine and called by address.
func (c *Compiler) compileTypeReference(node *ast.Node) error {
	p := c.program

	symbol, err := p.FindSymbol(node.NameText())
	if err != nil {
		return err
	}
	if symbol.Kind == SymbolTypeVariable {
		p.PushOpAt(OpLoads, node.Pos)
		p.PushSymbolAddress(symbol)
		return nil
	}
	if symbol.Routine == nil {
		return fmt.Errorf("%w: %s", ErrUnboundSubroutine, symbol.Name)
	}
	p.PushOpAt(OpCall, node.Pos)
	p.PushAddress(uint32(symbol.Routine.Index))
	return nil
}

// compileTypeAlias registers the alias as a call target first, then compiles
// its right-hand side into the alias's own subroutine. Registration before
// activation is what lets aliases reference themselves and each other.
func (c *Compiler) compileTypeAlias(node *ast.Node) error {
	p := c.program
	name := node.NameText()

	symbol := p.PushRoutineSymbol(name, SymbolType, node.Pos, nil)
	if symbol.Declarations > 1 {
		c.report(DuplicateDeclaration, node.Pos, "type %q already declared in this scope", name)
		return nil
	}

	if _, err := p.PushSubroutine(name); err != nil {
		return err
	}
	for _, param := range node.TypeParameters {
		c.compileTypeParameter(param)
	}
	if err := c.compile(node.Type); err != nil {
		return err
	}
	return p.PopSubroutine()
}

// compileTypeParameter binds one type parameter in the subroutine's implicit
// frame, making later references resolve to a Loads of that slot.
func (c *Compiler) compileTypeParameter(param *ast.Node) {
	c.program.PushSymbol(param.NameText(), SymbolTypeVariable, param.Pos, nil)
	c.program.PushOpAt(OpVar, param.Pos)
}

func (c *Compiler) compileFunction(node *ast.Node) error {
	p := c.program
	name := node.NameText()
	if name == "" {
		c.report(UnnamedFunction, node.Pos, "function declaration has no name")
		return nil
	}

	symbol := p.PushRoutineSymbol(name, SymbolFunction, node.Pos, nil)
	if symbol.Declarations > 1 {
		c.report(DuplicateDeclaration, node.Pos, "function %q already declared in this scope", name)
		return nil
	}

	if _, err := p.PushSubroutine(name); err != nil {
		return err
	}
	for _, param := range node.Parameters {
		if err := c.compileParameter(param); err != nil {
			return err
		}
	}
	if node.Type != nil {
		if err := c.compile(node.Type); err != nil {
			return err
		}
	} else {
		// TODO: infer the return type from the body once the checker
		// exposes inference results.
		p.PushOpAt(OpUnknown, node.Pos)
	}
	p.PushOpAt(OpFunction, node.Pos)
	return p.PopSubroutine()
}

// compileParameter binds the parameter name in the function's implicit frame
// and lowers its type annotation, or Unknown when it has none.
func (c *Compiler) compileParameter(param *ast.Node) error {
	p := c.program

	p.PushSymbol(param.NameText(), SymbolTypeVariable, param.Pos, nil)
	p.PushOpAt(OpVar, param.Pos)
	if param.Type != nil {
		return c.compile(param.Type)
	}
	p.PushOpAt(OpUnknown, param.Pos)
	return nil
}

// compileVariable gives the variable's type annotation its own subroutine
// (the variable's type slot), then lowers the initializer in the enclosing
// buffer followed by a call to the slot and an assignment.
func (c *Compiler) compileVariable(node *ast.Node) error {
	p := c.program
	name := node.NameText()

	symbol := p.PushRoutineSymbol(name, SymbolVariable, node.Pos, nil)
	if symbol.Declarations > 1 {
		c.report(DuplicateDeclaration, node.Pos, "variable %q already declared in this scope", name)
		return nil
	}

	index, err := p.PushSubroutine(name)
	if err != nil {
		return err
	}
	if node.Type != nil {
		if err := c.compile(node.Type); err != nil {
			return err
		}
	} else {
		p.PushOpAt(OpUnknown, node.Pos)
	}
	if err := p.PopSubroutine(); err != nil {
		return err
	}

	if node.Initializer != nil {
		if err := c.compile(node.Initializer); err != nil {
			return err
		}
		p.PushOpAt(OpCall, node.Pos)
		p.PushAddress(uint32(index))
		p.PushOpAt(OpAssign, node.Pos)
	}
	return nil
}
