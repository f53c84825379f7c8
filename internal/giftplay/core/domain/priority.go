package domain

// Priority tier thresholds, inclusive-low on an event's total value.
const (
	TierLegendary = 5 // >= 100000
	TierEpic      = 4 // >= 50000
	TierRare      = 3 // >= 10000
	TierUncommon  = 2 // >= 1000
	TierCommon    = 1

	// HighValueThreshold: events strictly above this total value jump to the
	// head of the playback queue.
	HighValueThreshold = 10000
)

// TierFor maps a total value to its ordinal priority tier (1-5).
func TierFor(value int64) int {
	switch {
	case value >= 100000:
		return TierLegendary
	case value >= 50000:
		return TierEpic
	case value >= 10000:
		return TierRare
	case value >= 1000:
		return TierUncommon
	default:
		return TierCommon
	}
}

// ShouldPreempt decides whether a newly arrived event interrupts the one
// currently playing. Nothing playing always yields true. Otherwise a strict
// two-tier jump is required, so a trickle of moderately higher-value gifts
// cannot constantly interrupt playback.
func ShouldPreempt(incoming, current *GiftEvent) bool {
	if current == nil {
		return true
	}
	return TierFor(incoming.TotalValue()) > TierFor(current.TotalValue())+1
}
