package triscan

// Operator is the comparison applied by a field condition.
type Operator string

const (
	// Equality operators
	OpEqual    Operator = "EQ"
	OpNotEqual Operator = "NE"

	// Comparison operators
	OpGreaterThan      Operator = "GT"
	OpGreaterThanEqual Operator = "GTE"
	OpLessThan         Operator = "LT"
	OpLessThanEqual    Operator = "LTE"

	// Set operators
	OpIn    Operator = "IN"
	OpNotIn Operator = "NOT_IN"

	// Range operators
	OpBetween    Operator = "BETWEEN"
	OpNotBetween Operator = "NOT_BETWEEN"
)

// NumericCondition is a comparison against a numeric field value.
type NumericCondition struct {
	Operator Operator  `json:",omitempty"` // for EQ, NE, GT, GTE, LT, LTE
	Value    float64   `json:",omitempty"` // for EQ, NE, GT, GTE, LT, LTE
	Values   []float64 `json:",omitempty"` // for IN, NOT_IN
	Min      float64   `json:",omitempty"` // for BETWEEN, NOT_BETWEEN
	Max      float64   `json:",omitempty"` // for BETWEEN, NOT_BETWEEN
}

// StringCondition is a comparison against a string field value, ordered
// lexically for the comparison and range operators.
type StringCondition struct {
	Operator Operator `json:",omitempty"` // for EQ, NE, GT, GTE, LT, LTE
	Value    string   `json:",omitempty"` // for EQ, NE, GT, GTE, LT, LTE
	Values   []string `json:",omitempty"` // for IN, NOT_IN
	Min      string   `json:",omitempty"` // for BETWEEN, NOT_BETWEEN
	Max      string   `json:",omitempty"` // for BETWEEN, NOT_BETWEEN
}

// Helper functions for creating common conditions

// NumericEquals creates a numeric equality condition
func NumericEquals(value float64) NumericCondition {
	return NumericCondition{Operator: OpEqual, Value: value}
}

// NumericNotEquals creates a numeric not equal condition
func NumericNotEquals(value float64) NumericCondition {
	return NumericCondition{Operator: OpNotEqual, Value: value}
}

// NumericGreaterThan creates a numeric greater than condition
func NumericGreaterThan(value float64) NumericCondition {
	return NumericCondition{Operator: OpGreaterThan, Value: value}
}

// NumericGreaterThanEqual creates a numeric greater than or equal condition
func NumericGreaterThanEqual(value float64) NumericCondition {
	return NumericCondition{Operator: OpGreaterThanEqual, Value: value}
}

// NumericLessThan creates a numeric less than condition
func NumericLessThan(value float64) NumericCondition {
	return NumericCondition{Operator: OpLessThan, Value: value}
}

// NumericLessThanEqual creates a numeric less than or equal condition
func NumericLessThanEqual(value float64) NumericCondition {
	return NumericCondition{Operator: OpLessThanEqual, Value: value}
}

// NumericIn creates a numeric IN condition
func NumericIn(values ...float64) NumericCondition {
	return NumericCondition{Operator: OpIn, Values: values}
}

// NumericNotIn creates a numeric NOT IN condition
func NumericNotIn(values ...float64) NumericCondition {
	return NumericCondition{Operator: OpNotIn, Values: values}
}

// NumericBetween creates a numeric BETWEEN condition (inclusive on both ends)
func NumericBetween(min, max float64) NumericCondition {
	return NumericCondition{Operator: OpBetween, Min: min, Max: max}
}

// NumericNotBetween creates a numeric NOT BETWEEN condition (exclusive)
func NumericNotBetween(min, max float64) NumericCondition {
	return NumericCondition{Operator: OpNotBetween, Min: min, Max: max}
}

// StringEquals creates a string equality condition
func StringEquals(value string) StringCondition {
	return StringCondition{Operator: OpEqual, Value: value}
}

// StringNotEquals creates a string not equal condition
func StringNotEquals(value string) StringCondition {
	return StringCondition{Operator: OpNotEqual, Value: value}
}

// StringGreaterThan creates a string greater than condition
func StringGreaterThan(value string) StringCondition {
	return StringCondition{Operator: OpGreaterThan, Value: value}
}

// StringGreaterThanEqual creates a string greater than or equal condition
func StringGreaterThanEqual(value string) StringCondition {
	return StringCondition{Operator: OpGreaterThanEqual, Value: value}
}

// StringLessThan creates a string less than condition
func StringLessThan(value string) StringCondition {
	return StringCondition{Operator: OpLessThan, Value: value}
}

// StringLessThanEqual creates a string less than or equal condition
func StringLessThanEqual(value string) StringCondition {
	return StringCondition{Operator: OpLessThanEqual, Value: value}
}

// StringIn creates a string IN condition
func StringIn(values ...string) StringCondition {
	return StringCondition{Operator: OpIn, Values: values}
}

// StringNotIn creates a string NOT IN condition
func StringNotIn(values ...string) StringCondition {
	return StringCondition{Operator: OpNotIn, Values: values}
}

// StringBetween creates a string BETWEEN condition (inclusive on both ends)
func StringBetween(min, max string) StringCondition {
	return StringCondition{Operator: OpBetween, Min: min, Max: max}
}

// StringNotBetween creates a string NOT BETWEEN condition (exclusive)
func StringNotBetween(min, max string) StringCondition {
	return StringCondition{Operator: OpNotBetween, Min: min, Max: max}
}

// Evaluation functions for checking field values against conditions

// EvaluateNumericCondition checks if a numeric value matches the given
// condition. Unknown operators match nothing.
func EvaluateNumericCondition(value float64, condition NumericCondition) bool {
	switch condition.Operator {
	case OpEqual:
		return value == condition.Value
	case OpNotEqual:
		return value != condition.Value
	case OpGreaterThan:
		return value > condition.Value
	case OpGreaterThanEqual:
		return value >= condition.Value
	case OpLessThan:
		return value < condition.Value
	case OpLessThanEqual:
		return value <= condition.Value
	case OpIn:
		for _, v := range condition.Values {
			if value == v {
				return true
			}
		}
		return false
	case OpNotIn:
		for _, v := range condition.Values {
			if value == v {
				return false
			}
		}
		return true
	case OpBetween:
		return value >= condition.Min && value <= condition.Max
	case OpNotBetween:
		return value < condition.Min || value > condition.Max
	default:
		return false
	}
}

// EvaluateStringCondition checks if a string value matches the given
// condition. Unknown operators match nothing.
func EvaluateStringCondition(value string, condition StringCondition) bool {
	switch condition.Operator {
	case OpEqual:
		return value == condition.Value
	case OpNotEqual:
		return value != condition.Value
	case OpGreaterThan:
		return value > condition.Value
	case OpGreaterThanEqual:
		return value >= condition.Value
	case OpLessThan:
		return value < condition.Value
	case OpLessThanEqual:
		return value <= condition.Value
	case OpIn:
		for _, v := range condition.Values {
			if value == v {
				return true
			}
		}
		return false
	case OpNotIn:
		for _, v := range condition.Values {
			if value == v {
				return false
			}
		}
		return true
	case OpBetween:
		return value >= condition.Min && value <= condition.Max
	case OpNotBetween:
		return value < condition.Min || value > condition.Max
	default:
		return false
	}
}

// Predicate adapters for use with QueryPredicate and Aggregate

// MatchNumeric builds a record predicate from a numeric field extractor and a
// condition.
func MatchNumeric[R any](field func(R) float64, condition NumericCondition) func(R) bool {
	return func(r R) bool {
		return EvaluateNumericCondition(field(r), condition)
	}
}

// MatchString builds a record predicate from a string field extractor and a
// condition.
func MatchString[R any](field func(R) string, condition StringCondition) func(R) bool {
	return func(r R) bool {
		return EvaluateStringCondition(field(r), condition)
	}
}

// All combines predicates conjunctively; an empty argument list matches
// everything.
func All[R any](preds ...func(R) bool) func(R) bool {
	return func(r R) bool {
		for _, pred := range preds {
			if !pred(r) {
				return false
			}
		}
		return true
	}
}

// Any combines predicates disjunctively; an empty argument list matches
// nothing.
func Any[R any](preds ...func(R) bool) func(R) bool {
	return func(r R) bool {
		for _, pred := range preds {
			if pred(r) {
				return true
			}
		}
		return false
	}
}
