package vm

import "fmt"

// ExecutionError is the fatal failure kind spec.md §4.7 names: "any
// instruction-level error ... is a fatal failure propagated to the
// caller." Grounded on the teacher's newException/RuntimeException
// constructor-with-state-capture pattern (emulator/exceptions.go), which
// deep-copies the register file and PC at the fault site.
type ExecutionError struct {
	PC        int32
	Registers [32]int32
	Message   string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error at pc=0x%08X: %s", uint32(e.PC), e.Message)
}

func (p *Processor) fault(format string, args ...any) *ExecutionError {
	return &ExecutionError{
		PC:        p.PC,
		Registers: p.Registers,
		Message:   fmt.Sprintf(format, args...),
	}
}
