package domain

// SenderTotal is one leaderboard entry: a sender and the cumulative value of
// everything they sent this session.
type SenderTotal struct {
	Sender string
	Value  int64
}

// RoomStats is the running tally for one live room session.
//
// Senders is ordered by first appearance; TopSender is the entry with the
// maximum value, ties resolving to whichever sender appeared first.
type RoomStats struct {
	RoomID          string
	TotalGiftsCount int64
	TotalValue      int64
	Senders         []SenderTotal
	TopSender       string
	DroppedCount    int64
}

// TopOf derives the top sender from a first-appearance-ordered list.
func TopOf(senders []SenderTotal) string {
	var top string
	var best int64
	for _, s := range senders {
		if s.Value > best {
			best = s.Value
			top = s.Sender
		}
	}
	return top
}
