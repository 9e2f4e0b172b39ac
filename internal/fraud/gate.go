package fraud

// Passes reports whether a call clears the fraud gate.
//
// Policy: a score strictly greater than the threshold fails the gate. The
// gate applies to VoIP-classified calls only; non-VoIP calls bypass it
// entirely (the routing engine enforces that, not this function).
//
// Pure and total: no side effects, defined for every input.
func Passes(score, threshold int) bool {
	return score <= threshold
}
