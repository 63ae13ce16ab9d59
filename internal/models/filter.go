package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

type FilterField string

const (
	FieldCategory       FilterField = "category"
	FieldPriority       FilterField = "priority"
	FieldDifficulty     FilterField = "difficulty"
	FieldArchived       FilterField = "archived"
	FieldStatus         FilterField = "status"
	FieldCompletionRate FilterField = "completion_rate"
	FieldStreak         FilterField = "streak"
	FieldEstimatedTime  FilterField = "estimated_time"
)

type FilterOperator string

const (
	OpEquals       FilterOperator = "equals"
	OpNotEquals    FilterOperator = "not_equals"
	OpGreaterThan  FilterOperator = "greater_than"
	OpLessThan     FilterOperator = "less_than"
	OpGreaterEqual FilterOperator = "greater_equal"
	OpLessEqual    FilterOperator = "less_equal"
)

type LogicalOperator string

const (
	LogicAnd LogicalOperator = "AND"
	LogicOr  LogicalOperator = "OR"
)

// Status values understood by the status field.
const (
	StatusCompletedToday = "completed_today"
	StatusPendingToday   = "pending_today"
	StatusMissedToday    = "missed_today"
)

// FieldKind selects the comparison family a criterion is evaluated with.
type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindString
	KindNumeric
	KindStatus
)

func (f FilterField) Kind() FieldKind {
	switch f {
	case FieldCategory, FieldPriority, FieldDifficulty, FieldArchived:
		return KindString
	case FieldStatus:
		return KindStatus
	case FieldCompletionRate, FieldStreak, FieldEstimatedTime:
		return KindNumeric
	}
	return KindUnknown
}

// ValidFor reports whether the operator belongs to the family of kind.
func (o FilterOperator) ValidFor(kind FieldKind) bool {
	switch kind {
	case KindString, KindStatus:
		return o == OpEquals || o == OpNotEquals
	case KindNumeric:
		switch o {
		case OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual:
			return true
		}
	}
	return false
}

// FilterValue holds a criterion operand as text. JSON strings, numbers and
// booleans all decode into it.
type FilterValue string

func (v *FilterValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = FilterValue(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = FilterValue(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = FilterValue(strconv.FormatBool(b))
		return nil
	}
	// Anything else is kept verbatim and left for evaluation to reject.
	*v = FilterValue(strings.TrimSpace(string(data)))
	return nil
}

type FilterCriteria struct {
	Field    FilterField    `json:"field" validate:"required"`
	Operator FilterOperator `json:"operator" validate:"required"`
	Value    FilterValue    `json:"value"`
}

// Valid reports whether the field is known and the operator fits its type.
func (c FilterCriteria) Valid() bool {
	kind := c.Field.Kind()
	return kind != KindUnknown && c.Operator.ValidFor(kind)
}

type FilterGroup struct {
	ID       string           `json:"id"`
	Active   bool             `json:"active"`
	Logic    LogicalOperator  `json:"logic" validate:"omitempty,oneof=AND OR"`
	Criteria []FilterCriteria `json:"criteria" validate:"dive"`
}

type AdvancedFilter struct {
	Logic  LogicalOperator `json:"logic" validate:"omitempty,oneof=AND OR"`
	Groups []FilterGroup   `json:"groups" validate:"dive"`
}
