package predicate

import (
	"reflect"

	"github.com/jacoelho/dq/pkg/pathquery/internal/number"
)

// Getter is the ordered-mapping lookup contract. Document mapping types
// implement it so candidate sub-paths resolve without this package knowing
// their concrete representation.
type Getter interface {
	Get(key string) (any, bool)
}

// absentValue marks a sub-path that did not resolve. It is falsy and any
// comparison involving it is false.
type absentValue struct{}

func evalNode(root Node, candidate any) any {
	switch current := root.(type) {
	case Literal:
		return current.Value
	case Path:
		return resolveSteps(candidate, current.Steps)
	case Not:
		return !isTruthy(evalNode(current.Operand, candidate))
	case Binary:
		switch current.Op {
		case OpAnd:
			if !isTruthy(evalNode(current.Left, candidate)) {
				return false
			}
			return isTruthy(evalNode(current.Right, candidate))
		case OpOr:
			if isTruthy(evalNode(current.Left, candidate)) {
				return true
			}
			return isTruthy(evalNode(current.Right, candidate))
		default:
			return compare(current.Op, evalNode(current.Left, candidate), evalNode(current.Right, candidate))
		}
	default:
		return absentValue{}
	}
}

func resolveSteps(candidate any, steps []Step) any {
	current := candidate
	for _, step := range steps {
		var (
			next any
			ok   bool
		)
		switch step.Kind {
		case StepName:
			next, ok = lookupKey(current, step.Name)
		case StepIndex:
			next, ok = lookupIndex(current, step.Index)
		}
		if !ok {
			return absentValue{}
		}
		current = next
	}
	return current
}

func lookupKey(value any, key string) (any, bool) {
	switch current := value.(type) {
	case Getter:
		return current.Get(key)
	case map[string]any:
		entry, ok := current[key]
		return entry, ok
	default:
		return nil, false
	}
}

func lookupIndex(value any, index int) (any, bool) {
	sequence, ok := value.([]any)
	if !ok {
		return nil, false
	}
	if index < 0 {
		index += len(sequence)
	}
	if index < 0 || index >= len(sequence) {
		return nil, false
	}
	return sequence[index], true
}

func isAbsent(value any) bool {
	_, ok := value.(absentValue)
	return ok
}

// isTruthy follows container conventions: null, false, zero, empty string,
// empty container and an unresolved sub-path are falsy, everything else is
// truthy.
func isTruthy(value any) bool {
	switch current := value.(type) {
	case nil:
		return false
	case absentValue:
		return false
	case bool:
		return current
	case string:
		return current != ""
	default:
		if num, ok := number.ToFloat64(value); ok {
			return num != 0
		}
		if length, ok := containerLength(value); ok {
			return length > 0
		}
		return true
	}
}

func containerLength(value any) (int, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

func compare(op Op, left any, right any) bool {
	if isAbsent(left) || isAbsent(right) {
		return false
	}

	switch op {
	case OpEqual:
		return equalValues(left, right)
	case OpNotEqual:
		return !equalValues(left, right)
	}

	leftNumber, leftIsNumber := number.ToFloat64(left)
	rightNumber, rightIsNumber := number.ToFloat64(right)
	if leftIsNumber && rightIsNumber {
		switch op {
		case OpLess:
			return leftNumber < rightNumber
		case OpLessEqual:
			return leftNumber <= rightNumber
		case OpGreater:
			return leftNumber > rightNumber
		case OpGreaterEqual:
			return leftNumber >= rightNumber
		}
		return false
	}

	leftString, leftIsString := left.(string)
	rightString, rightIsString := right.(string)
	if leftIsString && rightIsString {
		switch op {
		case OpLess:
			return leftString < rightString
		case OpLessEqual:
			return leftString <= rightString
		case OpGreater:
			return leftString > rightString
		case OpGreaterEqual:
			return leftString >= rightString
		}
		return false
	}

	return false
}

func equalValues(left any, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	leftNumber, leftIsNumber := number.ToFloat64(left)
	rightNumber, rightIsNumber := number.ToFloat64(right)
	if leftIsNumber || rightIsNumber {
		if !leftIsNumber || !rightIsNumber {
			return false
		}
		return number.Equal(leftNumber, rightNumber)
	}

	leftBool, leftIsBool := left.(bool)
	rightBool, rightIsBool := right.(bool)
	if leftIsBool || rightIsBool {
		if !leftIsBool || !rightIsBool {
			return false
		}
		return leftBool == rightBool
	}

	leftString, leftIsString := left.(string)
	rightString, rightIsString := right.(string)
	if leftIsString || rightIsString {
		if !leftIsString || !rightIsString {
			return false
		}
		return leftString == rightString
	}

	if reflect.TypeOf(left) == reflect.TypeOf(right) {
		return reflect.DeepEqual(left, right)
	}

	return false
}
