package bytecode

import "fmt"

// DiagCode identifies a recoverable source-level issue found while lowering.
// Unlike the fatal errors in errors.go, diagnostics never abort compilation;
// the offending construct is skipped and lowering continues.
type DiagCode string

const (
	// DuplicateDeclaration reports a second declaration of a name already
	// declared in the same scope. The duplicate body is not compiled.
	DuplicateDeclaration DiagCode = "duplicate-declaration"

	// UnnamedFunction reports a function declaration without a name.
	UnnamedFunction DiagCode = "unnamed-function"

	// UnsupportedNode reports a syntax-tree node kind the backend does not
	// lower. The node is skipped.
	UnsupportedNode DiagCode = "unsupported-node"
)

// Diagnostic is one structured issue record, keyed by source position.
type Diagnostic struct {
	Code    DiagCode
	Message string
	Pos     int
}

// String formats the diagnostic for log and CLI output.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at %d: %s", d.Code, d.Pos, d.Message)
}
