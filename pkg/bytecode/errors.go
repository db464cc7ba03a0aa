package bytecode

import "errors"

// These errors indicate compiler-internal invariant violations: the lowering
// logic called the Program API incorrectly. They are fatal, abort the
// compilation and produce no partial binary. User-level source issues are
// reported through Diagnostics instead.
var (
	// ErrUnresolvedSymbol indicates a name lookup exhausted the frame chain.
	ErrUnresolvedSymbol = errors.New("unresolved symbol")

	// ErrUnboundSubroutine indicates the current frame holds no
	// routine-bearing symbol of the requested name.
	ErrUnboundSubroutine = errors.New("no subroutine bound to symbol")

	// ErrEmptyActivationStack indicates a PopSubroutine without a matching
	// PushSubroutine.
	ErrEmptyActivationStack = errors.New("no active subroutine")

	// ErrEmptySubroutineBody indicates a subroutine was closed before any
	// instruction was emitted into it.
	ErrEmptySubroutineBody = errors.New("subroutine body is empty")
)
