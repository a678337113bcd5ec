package core

import (
	"math/big"

	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/crypto"
	"github.com/matthieu/execore/params"
)

// PreValidateTransaction performs every stateless check on txn (§4.B):
// signature malleability, chain-ID match, type legality at the active
// revision, fee-cap ordering, and intrinsic gas. It never touches
// World State. Grounded on Silkworm's validate_transaction
// preconditions in processor.cpp, which are asserted there (the
// caller is expected to have run this first) and performed here.
func PreValidateTransaction(tx *types.Transaction, blockNumber *big.Int, config *params.ChainConfig, baseFee *big.Int) ValidationResult {
	rev := config.Revision(blockNumber)

	if err := validateTxType(tx.Type(), rev); err != Ok {
		return err
	}

	if chainID := tx.ChainID(); chainID != nil && chainID.Sign() != 0 && chainID.Cmp(config.ChainID) != 0 {
		return WrongChainId
	}

	v, r, s := tx.RawSignatureValues()
	if !crypto.ValidateSignatureValues(normalizedV(tx, v), r, s, config.IsHomestead(blockNumber)) {
		return InvalidSignature
	}

	if tx.Type() == types.DynamicFeeTxType {
		if tx.GasTipCap().Cmp(tx.GasFeeCap()) > 0 {
			return MaxPriorityFeeGreaterThanMax
		}
		if baseFee != nil && tx.GasFeeCap().Cmp(baseFee) < 0 {
			return MaxFeeLessThanBase
		}
	}

	g0, err := IntrinsicGas(tx.Data(), tx.AccessList(), tx.IsContractCreation(), rev)
	if err != nil || g0 > tx.Gas() {
		return IntrinsicGas
	}
	return Ok
}

func validateTxType(t uint8, rev params.Revision) ValidationResult {
	switch t {
	case types.LegacyTxType:
		return Ok
	case types.AccessListTxType:
		if rev < params.Berlin {
			return UnsupportedTransactionType
		}
	case types.DynamicFeeTxType:
		if rev < params.London {
			return UnsupportedTransactionType
		}
	default:
		return UnsupportedTransactionType
	}
	return Ok
}

// normalizedV reduces tx's raw signature v to the 0/1 recovery-id
// parity bit: typed transactions encode it directly, legacy
// transactions offset it by 27 (pre-EIP-155) or by 2*chainID+35
// (EIP-155), matching the encoding each Signer in core/types/signer.go
// expects to undo.
func normalizedV(tx *types.Transaction, v *big.Int) byte {
	if v == nil {
		return 0
	}
	if tx.Type() != types.LegacyTxType {
		return byte(new(big.Int).And(v, big.NewInt(1)).Uint64())
	}
	if chainID := tx.ChainID(); chainID != nil && chainID.Sign() != 0 {
		adjusted := new(big.Int).Sub(v, new(big.Int).Lsh(chainID, 1))
		adjusted.Sub(adjusted, big.NewInt(35))
		return byte(adjusted.Uint64())
	}
	if v.Cmp(big.NewInt(27)) >= 0 {
		return byte(new(big.Int).Sub(v, big.NewInt(27)).Uint64())
	}
	return byte(v.Uint64())
}
