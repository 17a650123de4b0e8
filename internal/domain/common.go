package domain

// OrderSide represents the side of an exchange fill (BUY or SELL).
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// Row type markers as they appear in normalized trade logs.
const (
	TypeEntryLong  = "Entry long"
	TypeEntryShort = "Entry short"
	TypeExitLong   = "Exit long"
	TypeExitShort  = "Exit short"
)

// Signal labels used when rows are synthesized from exchange fills.
const (
	SignalLong  = "Long"
	SignalShort = "Short"
)

// ConeMethod selects how a probability cone is projected.
type ConeMethod string

const (
	ConeExponential ConeMethod = "exponential" // Compounded, geometric projection
	ConeLinear      ConeMethod = "linear"      // Additive projection
)
