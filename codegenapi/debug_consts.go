// Package codegenapi collects the cross-cutting concerns every codegen/*
// package shares: compile-time debug/validation switches and the
// unimplemented-opcode error channel (spec.md §7). Grounded on
// internal/engine/wazevo/wazevoapi's role as the one place these things
// live instead of scattering them per-file.
package codegenapi

// These consts gate debug logging and output printing throughout
// codegen/*. They must stay disabled by default; flip one locally when
// chasing a miscompilation. Grounded on
// internal/engine/wazevo/wazevoapi/debug_consts.go's grouped-const-block
// idiom.

const (
	OperandStackLoggingEnabled = false
	SchedulerLoggingEnabled    = false
	SolverLoggingEnabled       = false
	SpillLoggingEnabled        = false
)

const (
	PrintDependencyGraph   = false
	PrintSchedule          = false
	PrintOperandMovements  = false
	PrintMASM              = false
)

// ----- Validations -----
// These must stay enabled by default; the invariants they check are cheap
// relative to the cost of a silently wrong compilation.

const (
	OperandStackValidationEnabled = true
	DependencyGraphValidationEnabled = true
	SpillValidationEnabled = true
)
