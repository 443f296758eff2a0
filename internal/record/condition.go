package record

import (
	"fmt"
	"strconv"

	"companionforge/internal/formid"
)

// Function is the predicate a condition evaluates at runtime.
type Function int

const (
	FuncGetInFaction Function = iota + 1
	FuncGetIsAliasRef
	FuncGetStageDone
	FuncGetGlobalValue
	FuncGetValue
)

var functionNames = map[Function]string{
	FuncGetInFaction:   "GetInFaction",
	FuncGetIsAliasRef:  "GetIsAliasRef",
	FuncGetStageDone:   "GetStageDone",
	FuncGetGlobalValue: "GetGlobalValue",
	FuncGetValue:       "GetValue",
}

func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return "Function(" + strconv.Itoa(int(f)) + ")"
}

// CompareOp is the comparison applied to the function result.
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpGreater
	OpGreaterOrEqual
	OpLess
	OpLessOrEqual
)

func (o CompareOp) String() string {
	switch o {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	default:
		return "?"
	}
}

// Condition gates a response, log entry or quest dialogue. Record holds the
// record parameter for functions that take one; Param holds the integer
// parameter (alias id, stage index) for those that do not.
type Condition struct {
	Function Function
	Record   formid.ID
	Param    int
	Op       CompareOp
	Value    float32
	Or       bool
}

// InFaction builds GetInFaction(faction) == value.
func InFaction(faction formid.ID, value float32) Condition {
	return Condition{Function: FuncGetInFaction, Record: faction, Op: OpEqual, Value: value}
}

// AliasLock builds GetIsAliasRef(alias) == 1, which locks a conversation to
// the actor filling that alias.
func AliasLock(alias int) Condition {
	return Condition{Function: FuncGetIsAliasRef, Param: alias, Op: OpEqual, Value: 1}
}

// StageDone builds GetStageDone(quest, stage) == value.
func StageDone(quest formid.ID, stage int, value float32) Condition {
	return Condition{Function: FuncGetStageDone, Record: quest, Param: stage, Op: OpEqual, Value: value}
}

// IsAliasLock reports whether c locks the conversation to alias.
func (c Condition) IsAliasLock(alias int) bool {
	return c.Function == FuncGetIsAliasRef && c.Param == alias && c.Op == OpEqual && c.Value == 1
}

func (c Condition) String() string {
	var arg string
	switch {
	case !c.Record.IsZero() && c.Function == FuncGetStageDone:
		arg = fmt.Sprintf("%s, %d", c.Record, c.Param)
	case !c.Record.IsZero():
		arg = c.Record.String()
	default:
		arg = strconv.Itoa(c.Param)
	}
	return fmt.Sprintf("%s(%s) %s %s", c.Function, arg, c.Op, strconv.FormatFloat(float64(c.Value), 'f', -1, 32))
}

func conditionRefs(l *refList, field string, conds []Condition) {
	for i, c := range conds {
		l.add(fmt.Sprintf("%s[%d]", field, i), c.Record)
	}
}
