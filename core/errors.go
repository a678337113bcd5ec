package core

import "errors"

// ValidationResult is the single flat error enum every validate/execute
// entry point returns by value — no exceptions, no wrapped error chains
// at this layer (§7 "Error taxonomy": "single flat enum, returned by
// value"). Grounded on Silkworm's ValidationResult as used throughout
// processor.cpp and blockchain.hpp.
type ValidationResult int

const (
	Ok ValidationResult = iota

	// Pre-validation (§4.B).
	InvalidSignature
	WrongChainId
	UnsupportedTransactionType
	MaxPriorityFeeGreaterThanMax
	MaxFeeLessThanBase
	IntrinsicGas

	// Intrinsic-to-execution (§4.E validate_transaction).
	MissingSender
	WrongNonce
	InsufficientFunds
	BlockGasLimitExceeded

	// Post-execution (§4.E execute_and_write_block).
	WrongBlockGas
	WrongReceiptsRoot
	WrongLogsBloom
	WrongStateRoot

	// Structural (§4.F pre_validate_block).
	InvalidOmmerHeader
	TooManyOmmers
	UnknownParent
)

func (v ValidationResult) String() string {
	switch v {
	case Ok:
		return "Ok"
	case InvalidSignature:
		return "InvalidSignature"
	case WrongChainId:
		return "WrongChainId"
	case UnsupportedTransactionType:
		return "UnsupportedTransactionType"
	case MaxPriorityFeeGreaterThanMax:
		return "MaxPriorityFeeGreaterThanMax"
	case MaxFeeLessThanBase:
		return "MaxFeeLessThanBase"
	case IntrinsicGas:
		return "IntrinsicGas"
	case MissingSender:
		return "MissingSender"
	case WrongNonce:
		return "WrongNonce"
	case InsufficientFunds:
		return "InsufficientFunds"
	case BlockGasLimitExceeded:
		return "BlockGasLimitExceeded"
	case WrongBlockGas:
		return "WrongBlockGas"
	case WrongReceiptsRoot:
		return "WrongReceiptsRoot"
	case WrongLogsBloom:
		return "WrongLogsBloom"
	case WrongStateRoot:
		return "WrongStateRoot"
	case InvalidOmmerHeader:
		return "InvalidOmmerHeader"
	case TooManyOmmers:
		return "TooManyOmmers"
	case UnknownParent:
		return "UnknownParent"
	default:
		return "Unknown"
	}
}

// Error lets ValidationResult satisfy the error interface for call
// sites (tests, logging glue) that want ordinary Go error handling atop
// the flat enum.
func (v ValidationResult) Error() string { return v.String() }

// Plumbing errors: failures that are not part of the protocol-level
// enum above (storage I/O, malformed encodings) surface as ordinary
// wrapped Go errors instead, matching the teacher's own mix of typed
// sentinels (ErrGasLimitReached) and ad-hoc fmt.Errorf wrapping.
var (
	ErrGasLimitReached  = errors.New("gas limit reached")
	ErrGasUintOverflow  = errors.New("gas uint64 overflow")
)
