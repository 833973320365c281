package keeper

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"
)

// Overflow-safe arithmetic helpers for settlement amounts.

// SafeAdd adds two math.Int values with overflow checking
func SafeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())

	// Check if result is within valid range (< 2^256)
	maxInt := new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil)
	if result.Cmp(maxInt) >= 0 {
		return math.Int{}, fmt.Errorf("overflow: addition result exceeds maximum value")
	}

	return math.NewIntFromBigInt(result), nil
}

// SafeSub subtracts two math.Int values with underflow checking
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, fmt.Errorf("underflow: cannot subtract %s from %s", b.String(), a.String())
	}

	result := new(big.Int).Sub(a.BigInt(), b.BigInt())
	return math.NewIntFromBigInt(result), nil
}

// SafeMulDiv performs (a * b) / c with overflow protection.
// Settlement arithmetic always multiplies before removing the price scale.
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, fmt.Errorf("division by zero")
	}

	intermediate := new(big.Int).Mul(a.BigInt(), b.BigInt())

	maxInt := new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil)
	if intermediate.Cmp(maxInt) >= 0 {
		return math.Int{}, fmt.Errorf("overflow in multiplication step")
	}

	result := new(big.Int).Div(intermediate, c.BigInt())
	return math.NewIntFromBigInt(result), nil
}

// SafeAddUint64 adds two uint64 values with overflow checking
func SafeAddUint64(a, b uint64) (uint64, error) {
	if a > (1<<64 - 1 - b) {
		return 0, fmt.Errorf("overflow: uint64 addition overflow")
	}
	return a + b, nil
}

// SafeMulUint64 multiplies two uint64 values with overflow checking
func SafeMulUint64(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}

	result := a * b
	if result/a != b {
		return 0, fmt.Errorf("overflow: uint64 multiplication overflow")
	}
	return result, nil
}
