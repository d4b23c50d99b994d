// Package errs defines the typed error kinds shared across the parser,
// compiler, VM and genotype engine (spec §7), and a single Error type that
// carries one of those kinds plus a pkg/errors stack trace so a failure
// deep in the pipeline can still be logged with file/line at the outermost
// driver (Compile, the VM's Run, or the genotype engine's build step).
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error. Every fallible operation in this module
// returns one of these, never a bare string or a panic, and no partial
// artifact is ever returned alongside a non-nil error.
type Kind int

const (
	General Kind = iota

	// Parser.
	ParseNullInput
	ParseUnexpectedEnd
	ParseMismatchedClose
	ParseNonMutableNode
	ParseExpectedName

	// Symbol table.
	WordLutFull

	// Compiler.
	CompilerPreambleCodeSize
	ProgramReachedMaxSize
	AllocationFailure
	ExpectedNameNode
	ExpectedVectorOrList
	ExpectedNameOrList
	UnknownMemorySegment
	UnableToFindFnInfo
	UnableToCorrectFnAddr
	MaxTopLevelFunctions
	FnCallGivenNonList
	AddressOfName
	UnknownMappingForName
	UnsupportedDestructure

	// Genotype application.
	GenesRemainingAfterAssigning
	NullGene
	IncompatibleGene

	// VM runtime.
	RuntimeHeapExhausted
	RuntimeStackUnderflow
	RuntimeDivideByZero
	RuntimeNativeNotFound
	RuntimeUnknownFnIndex
	RuntimePileMismatch
	RuntimeUnknownOpcode

	// Serialization.
	SerializeOverflow
	SerializeMalformed
)

var names = map[Kind]string{
	General:                      "GeneralError",
	ParseNullInput:               "ParseNullInput",
	ParseUnexpectedEnd:           "ParseUnexpectedEnd",
	ParseMismatchedClose:         "ParseMismatchedClose",
	ParseNonMutableNode:          "ParseNonMutableNode",
	ParseExpectedName:            "ParseExpectedName",
	WordLutFull:                  "WordLutFull",
	CompilerPreambleCodeSize:     "CompilerPreambleCodeSize",
	ProgramReachedMaxSize:        "ProgramReachedMaxSize",
	AllocationFailure:            "AllocationFailure",
	ExpectedNameNode:             "ExpectedNameNode",
	ExpectedVectorOrList:         "ExpectedVectorOrList",
	ExpectedNameOrList:           "ExpectedNameOrList",
	UnknownMemorySegment:         "UnknownMemorySegment",
	UnableToFindFnInfo:           "UnableToFindFnInfo",
	UnableToCorrectFnAddr:        "UnableToCorrectFnAddr",
	MaxTopLevelFunctions:         "MaxTopLevelFunctions",
	FnCallGivenNonList:           "FnCallGivenNonList",
	AddressOfName:                "AddressOfName",
	UnknownMappingForName:        "UnknownMappingForName",
	UnsupportedDestructure:       "UnsupportedDestructure",
	GenesRemainingAfterAssigning: "GenesRemainingAfterAssigning",
	NullGene:                     "NullGene",
	IncompatibleGene:             "IncompatibleGene",
	RuntimeHeapExhausted:         "RuntimeHeapExhausted",
	RuntimeStackUnderflow:        "RuntimeStackUnderflow",
	RuntimeDivideByZero:          "RuntimeDivideByZero",
	RuntimeNativeNotFound:        "RuntimeNativeNotFound",
	RuntimeUnknownFnIndex:        "RuntimeUnknownFnIndex",
	RuntimePileMismatch:          "RuntimePileMismatch",
	RuntimeUnknownOpcode:         "RuntimeUnknownOpcode",
	SerializeOverflow:            "SerializeOverflow",
	SerializeMalformed:           "SerializeMalformed",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the concrete error type returned by every fallible operation in
// this module.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an Error of the given kind with a pkg/errors stack trace
// attached, so it can be logged with file/line at the outermost driver.
func New(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, msg: fmt.Sprintf(format, args...)})
}

// Wrap attaches kind and a message to an existing error, preserving its
// stack trace if it already has one (or adding one if it doesn't).
func Wrap(kind Kind, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: kind, msg: fmt.Sprintf(format, args...), cause: cause})
}

// Is reports whether err (or something it wraps) is an *Error of kind k.
func Is(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == k
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// KindOf returns the Kind of err (or something it wraps), if it is (or
// wraps) an *Error. Callers that just want to log a failure's kind
// alongside its file/line use this instead of unwrapping by hand.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return General, false
		}
		err = u.Unwrap()
	}
	return General, false
}
