package sen

import "github.com/indy/sen/internal/vm"

// EngineOptions configures a newly constructed Engine: capacities for the
// word table, compiled programs and VM scratch space, plus the genetic
// parameters population/generation operations default to. Unlike the
// teacher compiler's util.Options, there is no source/output path or CLI
// target selection here — this module exposes a library API, not a
// driver, so Options carries only what an Engine's own methods consult.
type EngineOptions struct {
	// MaxWord, MaxKeyword and MaxNative size the shared symtab.WordLut.
	// A value <= 0 falls back to symtab's own defaults.
	MaxWord    int
	MaxKeyword int
	MaxNative  int

	// MaxTopLevelFunctions bounds ReadProgram's reconstructed FnInfo
	// table when deserializing (serialized trait programs never carry
	// user-defined functions, so this is rarely exercised in practice).
	MaxTopLevelFunctions int

	// HeapSize and HeapGCThreshold size every heap.Pool this Engine
	// constructs for running programs, discovering traits and building
	// genotypes.
	HeapSize        int
	HeapGCThreshold int

	// CodeMaxSize bounds WriteProgram's code_max_size field. bytecode.Program
	// itself carries no capacity, so the Engine supplies one at the
	// serialization boundary.
	CodeMaxSize int

	// SerializeCapacity sizes the Cursor every Engine serialization method
	// writes into; a write that would exceed it fails rather than
	// growing the buffer.
	SerializeCapacity int

	// PopulationSize is the default generation size for InitialGeneration
	// and NextGeneration.
	PopulationSize int

	// MutationRate is the default per-gene mutation probability
	// NextGeneration applies.
	MutationRate float32
}

// DefaultEngineOptions returns the capacities the original engine used:
// symtab's own defaults for the word table, vm.DefaultHeapSize/
// DefaultHeapMinSize for the heap, and a modest starting population.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		MaxTopLevelFunctions: 32,
		HeapSize:             vm.DefaultHeapSize,
		HeapGCThreshold:      vm.DefaultHeapMinSize,
		CodeMaxSize:          4096,
		SerializeCapacity:    65536,
		PopulationSize:       10,
		MutationRate:         0.05,
	}
}
