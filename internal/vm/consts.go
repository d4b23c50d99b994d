// Package vm implements the stack-machine interpreter: opcode dispatch,
// frame-based calls, heap/matrix-stack integration and the native
// function ABI.
package vm

// Fixed capacities mirroring the compiler's memory layout (see
// compiler.MemoryGlobalSize / MemoryLocalSize); duplicated here rather
// than imported so the VM never depends on the compiler package.
const (
	MemoryGlobalSize = 40
	MemoryLocalSize  = 40

	DefaultHeapSize    = 1024
	DefaultHeapMinSize = 10
	DefaultStackSize   = 1024
)

// frameHeaderSize is the number of stack slots reserved at fp for saved
// fp, saved ip and num_args, before the local region begins.
const frameHeaderSize = 3
