package search

import (
	"fmt"
	"strings"
	"time"
)

// Evaluator evaluates predicates against in-memory records
type Evaluator struct{}

// NewEvaluator creates a new predicate evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Matches reports whether the record satisfies the predicate. A nil
// predicate matches everything.
func (e *Evaluator) Matches(node *ASTNode, rec Record) bool {
	if node == nil {
		return true
	}
	return e.evaluateNode(node, rec)
}

func (e *Evaluator) evaluateNode(node *ASTNode, rec Record) bool {
	switch node.Type {
	case NodeCondition:
		return e.evaluateCondition(node, rec)

	case NodeLogical:
		switch node.Logic {
		case LogicAnd:
			for _, c := range node.Children {
				if !e.evaluateNode(c, rec) {
					return false
				}
			}
			return true
		case LogicOr:
			for _, c := range node.Children {
				if e.evaluateNode(c, rec) {
					return true
				}
			}
			return false
		}
	}
	return false
}

// evaluateCondition holds when any value of a multi-valued field satisfies
// the operator.
func (e *Evaluator) evaluateCondition(node *ASTNode, rec Record) bool {
	values := rec.FieldValues(node.Field)

	if node.Operator == OpExists {
		want := true
		if b, ok := node.Value.(bool); ok {
			want = b
		}
		return (len(values) > 0) == want
	}

	for _, v := range values {
		if e.evaluateOperator(node.Operator, v, node.Value) {
			return true
		}
	}
	return false
}

func (e *Evaluator) evaluateOperator(operator string, fieldValue, queryValue interface{}) bool {
	switch operator {
	case OpEquals:
		return e.toString(fieldValue) == e.toString(queryValue)
	case OpIn:
		if list, ok := queryValue.([]string); ok {
			fv := e.toString(fieldValue)
			for _, item := range list {
				if fv == item {
					return true
				}
			}
		}
		return false
	case OpContains:
		return strings.Contains(strings.ToLower(e.toString(fieldValue)), strings.ToLower(e.toString(queryValue)))
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(e.toString(fieldValue)), strings.ToLower(e.toString(queryValue)))
	case OpGT, OpGTE, OpLT, OpLTE:
		cmp, ok := e.compare(fieldValue, queryValue)
		if !ok {
			return false
		}
		switch operator {
		case OpGT:
			return cmp > 0
		case OpGTE:
			return cmp >= 0
		case OpLT:
			return cmp < 0
		default:
			return cmp <= 0
		}
	}
	return false
}

// compare orders two values of the same kind. Mixed kinds never compare.
func (e *Evaluator) compare(a, b interface{}) (int, bool) {
	switch av := a.(type) {
	case float64:
		bv, ok := toFloat64(b)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	}
	return 0, false
}

func (e *Evaluator) toString(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
