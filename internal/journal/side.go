package journal

import "strings"

// Side is the semantic direction of an order after token normalization.
type Side int

const (
	SideUnknown Side = iota
	SideBuy
	SideSell
)

// NormalizeSide maps the raw side tokens found in broker exports onto the two
// semantic sides. "buy"/"sell" match case-insensitively; "BOT"/"SLD" are
// exchange-style codes and must match exactly. Anything else is unknown and
// the caller skips the order.
func NormalizeSide(raw string) Side {
	switch {
	case strings.EqualFold(raw, "buy"), raw == "BOT":
		return SideBuy
	case strings.EqualFold(raw, "sell"), raw == "SLD":
		return SideSell
	default:
		return SideUnknown
	}
}
