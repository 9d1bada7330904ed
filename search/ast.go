package search

import (
	"fmt"
	"strings"
)

// NodeType represents AST node types
type NodeType int

const (
	NodeCondition NodeType = iota
	NodeLogical
)

// Logical connectives
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// Condition operators. String operators are case-insensitive and treat the
// operand literally.
const (
	OpEquals     = "eq"
	OpContains   = "contains"
	OpStartsWith = "startswith"
	OpGT         = "gt"
	OpGTE        = "gte"
	OpLT         = "lt"
	OpLTE        = "lte"
	OpIn         = "in"
	OpExists     = "exists"
)

// ASTNode is a predicate over one entity kind. A condition node tests a
// single field; a logical node combines its children. A nil *ASTNode
// matches every record.
type ASTNode struct {
	Type     NodeType
	Field    string
	Operator string
	Value    interface{}
	Logic    string // AND, OR
	Children []*ASTNode
}

// Cond builds a condition node.
func Cond(field, operator string, value interface{}) *ASTNode {
	return &ASTNode{Type: NodeCondition, Field: field, Operator: operator, Value: value}
}

// And combines nodes with AND. Nil children are dropped; with no children
// left the result is nil (match all).
func And(children ...*ASTNode) *ASTNode {
	return logical(LogicAnd, children)
}

// Or combines nodes with OR.
func Or(children ...*ASTNode) *ASTNode {
	return logical(LogicOr, children)
}

func logical(logic string, children []*ASTNode) *ASTNode {
	kept := make([]*ASTNode, 0, len(children))
	for _, c := range children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &ASTNode{Type: NodeLogical, Logic: logic, Children: kept}
}

// Validate checks operators and structure recursively.
func (n *ASTNode) Validate() error {
	if n == nil {
		return nil
	}
	switch n.Type {
	case NodeCondition:
		if n.Field == "" {
			return fmt.Errorf("condition without field")
		}
		switch n.Operator {
		case OpEquals, OpContains, OpStartsWith, OpGT, OpGTE, OpLT, OpLTE, OpIn, OpExists:
		default:
			return fmt.Errorf("unsupported operator %q on field %s", n.Operator, n.Field)
		}
	case NodeLogical:
		if n.Logic != LogicAnd && n.Logic != LogicOr {
			return fmt.Errorf("unsupported logic %q", n.Logic)
		}
		if len(n.Children) == 0 {
			return fmt.Errorf("%s without operands", n.Logic)
		}
		for _, c := range n.Children {
			if err := c.Validate(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown node type %d", n.Type)
	}
	return nil
}

// String renders the predicate for logging.
func (n *ASTNode) String() string {
	if n == nil {
		return "*"
	}
	if n.Type == NodeCondition {
		return fmt.Sprintf("%s %s %v", n.Field, n.Operator, n.Value)
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " "+n.Logic+" ") + ")"
}
