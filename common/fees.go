package common

const (
	// BasisPointDenominator is the scale fee rates are expressed on:
	// one basis point is 1/100th of a percent.
	BasisPointDenominator = 10000

	// MaxFeeBasisPoints caps vault fee rates at 10%.
	MaxFeeBasisPoints = 1000

	// ErrFeeOutOfRange appears when a fee rate outside the allowed
	// range is configured.
	ErrFeeOutOfRange = "fee rate out of range"
)

// FeeAmount returns the fee part of amount at the given basis-point rate,
// rounded down.
func FeeAmount(amount, bps int) int {
	return amount * bps / BasisPointDenominator
}

// NetOfFee returns amount with the fee at the given basis-point rate
// subtracted.
func NetOfFee(amount, bps int) int {
	return amount - FeeAmount(amount, bps)
}

// CheckFeeBps panics with ErrFeeOutOfRange unless bps fits the allowed
// fee range.
func CheckFeeBps(bps int) {
	if bps < 0 || bps > MaxFeeBasisPoints {
		panic(ErrFeeOutOfRange)
	}
}
