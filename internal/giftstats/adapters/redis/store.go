package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"gift-playback-service/internal/giftstats/core/domain"
	"gift-playback-service/internal/giftstats/core/ports"
)

// Store keeps per-room gift stats in Redis so they survive service restarts
// within a room session. Layout per room:
//
//	giftstats:{room}:counters  hash  gifts_count / total_value
//	giftstats:{room}:senders   hash  sender -> cumulative value
//	giftstats:{room}:seen      set   senders already counted
//	giftstats:{room}:order     list  senders in first-appearance order
//
// The order list makes top-sender ties resolve to the first-seen sender,
// matching the in-memory store.
type Store struct {
	client *redis.Client
}

var _ ports.StatsStorePort = (*Store)(nil)

func NewStore(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewStoreWithClient wires an existing client, used by tests.
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// registerSender marks a sender seen and appends it to the first-appearance
// order list in one atomic step, so the set and the list cannot diverge when
// a connection drops between them.
var registerSender = redis.NewScript(`
if redis.call('SADD', KEYS[1], ARGV[1]) == 1 then
    redis.call('RPUSH', KEYS[2], ARGV[1])
end
return 1
`)

func (s *Store) Record(ctx context.Context, roomID, sender string, unitValue, quantity int64) error {
	keys := []string{s.key(roomID, "seen"), s.key(roomID, "order")}
	if err := registerSender.Run(ctx, s.client, keys, sender).Err(); err != nil {
		return fmt.Errorf("stats register sender: %w", err)
	}

	value := unitValue * quantity
	pipe := s.client.Pipeline()
	pipe.HIncrBy(ctx, s.key(roomID, "senders"), sender, value)
	pipe.HIncrBy(ctx, s.key(roomID, "counters"), "gifts_count", quantity)
	pipe.HIncrBy(ctx, s.key(roomID, "counters"), "total_value", value)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("stats record: %w", err)
	}
	return nil
}

func (s *Store) Snapshot(ctx context.Context, roomID string) (*domain.RoomStats, error) {
	res := &domain.RoomStats{RoomID: roomID}

	counters, err := s.client.HGetAll(ctx, s.key(roomID, "counters")).Result()
	if err != nil {
		return nil, fmt.Errorf("stats counters: %w", err)
	}
	if len(counters) == 0 {
		return res, nil
	}
	res.TotalGiftsCount, _ = strconv.ParseInt(counters["gifts_count"], 10, 64)
	res.TotalValue, _ = strconv.ParseInt(counters["total_value"], 10, 64)

	senders, err := s.client.HGetAll(ctx, s.key(roomID, "senders")).Result()
	if err != nil {
		return nil, fmt.Errorf("stats senders: %w", err)
	}
	order, err := s.client.LRange(ctx, s.key(roomID, "order"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("stats order: %w", err)
	}

	totals := make(map[string]int64, len(senders))
	for sender, raw := range senders {
		totals[sender], _ = strconv.ParseInt(raw, 10, 64)
	}

	res.Senders = orderedSenders(order, totals)
	res.TopSender = domain.TopOf(res.Senders)
	return res, nil
}

// orderedSenders lays the leaderboard out in first-appearance order. Every
// sender with an accrued total makes the board: anyone missing from the
// order list (data written before this key layout, or a registration lost to
// an outage) is appended at the end rather than hidden from the snapshot.
func orderedSenders(order []string, totals map[string]int64) []domain.SenderTotal {
	rows := make([]domain.SenderTotal, 0, len(totals))
	listed := make(map[string]bool, len(order))
	for _, sender := range order {
		if listed[sender] {
			continue
		}
		listed[sender] = true
		rows = append(rows, domain.SenderTotal{Sender: sender, Value: totals[sender]})
	}

	var missing []string
	for sender := range totals {
		if !listed[sender] {
			missing = append(missing, sender)
		}
	}
	sort.Strings(missing)
	for _, sender := range missing {
		rows = append(rows, domain.SenderTotal{Sender: sender, Value: totals[sender]})
	}
	return rows
}

func (s *Store) Reset(ctx context.Context, roomID string) error {
	keys := []string{
		s.key(roomID, "counters"),
		s.key(roomID, "senders"),
		s.key(roomID, "seen"),
		s.key(roomID, "order"),
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("stats reset: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(roomID, part string) string {
	return "giftstats:" + roomID + ":" + part
}
