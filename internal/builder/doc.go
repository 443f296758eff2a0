// Package builder constructs individual records from resolved inputs.
//
// Every builder is a pure function of a spec and a pre-allocated identifier:
// it checks only the local shape of the record (editor id present, stage
// indices unique within the quest, action phases inside the scene) and
// reports violations as faults.ErrConstruction. Cross-record consistency is
// left to the linker and the guardrail checks. Calling a builder twice with
// the same inputs yields equal records.
package builder
