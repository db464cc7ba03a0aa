// Package ast defines types for the type-declaration AST produced by the
// frontend. The compiler backend only reads these nodes; it never constructs
// or mutates them. Frontends hand the tree over as JSON, which is why every
// field carries a JSON tag.
package ast

import "fmt"

// Kind discriminates syntax-tree nodes.
type Kind string

const (
	KindSourceFile Kind = "SourceFile"

	// Primitive type keywords.
	KindBooleanKeyword Kind = "BooleanKeyword"
	KindStringKeyword  Kind = "StringKeyword"
	KindNumberKeyword  Kind = "NumberKeyword"

	// Literal keywords and literals.
	KindTrueKeyword    Kind = "TrueKeyword"
	KindFalseKeyword   Kind = "FalseKeyword"
	KindNumericLiteral Kind = "NumericLiteral"
	KindBigIntLiteral  Kind = "BigIntLiteral"
	KindStringLiteral  Kind = "StringLiteral"

	// Type expressions.
	KindUnionType     Kind = "UnionType"
	KindTypeReference Kind = "TypeReference"

	// Declarations.
	KindIdentifier           Kind = "Identifier"
	KindTypeParameter        Kind = "TypeParameter"
	KindParameter            Kind = "Parameter"
	KindTypeAliasDeclaration Kind = "TypeAliasDeclaration"
	KindFunctionDeclaration  Kind = "FunctionDeclaration"
	KindVariableStatement    Kind = "VariableStatement"
	KindVariableDeclaration  Kind = "VariableDeclaration"
)

// Node is a single syntax-tree node. Only the fields relevant to a node's
// Kind are populated; the rest stay nil/empty. A uniform node type keeps the
// JSON wire format flat and lets the backend dispatch on Kind alone.
type Node struct {
	Kind Kind `json:"kind"`
	Pos  int  `json:"pos"` // byte offset in the original source

	// Text holds literal source text for NumericLiteral, BigIntLiteral and
	// StringLiteral nodes, and the identifier text for Identifier nodes.
	Text string `json:"text,omitempty"`

	Name *Node `json:"name,omitempty"` // Identifier of declarations and references
	Type *Node `json:"type,omitempty"` // type annotation / aliased type

	Statements     []*Node `json:"statements,omitempty"`     // SourceFile
	Types          []*Node `json:"types,omitempty"`          // UnionType members
	TypeParameters []*Node `json:"typeParameters,omitempty"` // TypeAliasDeclaration
	Parameters     []*Node `json:"parameters,omitempty"`     // FunctionDeclaration
	Declarations   []*Node `json:"declarations,omitempty"`   // VariableStatement
	Initializer    *Node   `json:"initializer,omitempty"`    // VariableDeclaration
}

// NameText returns the identifier text of the node's Name, or "" if the node
// is unnamed.
func (n *Node) NameText() string {
	if n.Name == nil {
		return ""
	}
	return n.Name.Text
}

// String returns a short description for debugging and diagnostics.
func (n *Node) String() string {
	if name := n.NameText(); name != "" {
		return fmt.Sprintf("%s(%s)", n.Kind, name)
	}
	if n.Text != "" {
		return fmt.Sprintf("%s(%q)", n.Kind, n.Text)
	}
	return string(n.Kind)
}
