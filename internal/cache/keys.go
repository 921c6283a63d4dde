package cache

import (
	"strings"
	"time"

	"traderep-api/internal/config"
)

// Namespace is the Redis key prefix for the trader reputation service.
const Namespace = "traderep"

// Kind identifies what a cached payload holds. Together with the trader
// address it forms the cache key.
type Kind string

const (
	KindOrders      Kind = "orders"      // raw historical orders
	KindFills       Kind = "fills"       // raw user fills
	KindUserState   Kind = "state"       // clearinghouse state (leverage)
	KindAnalysis    Kind = "analysis"    // finished trader report
	KindLeaderboard Kind = "leaderboard" // top traders snapshot
)

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLShort  TTLClass = "short"
	TTLMedium TTLClass = "medium"
	TTLLong   TTLClass = "long"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, time.Minute),
		Medium: durationOrDefault(cfg.Medium, 5*time.Minute),
		Long:   durationOrDefault(cfg.Long, 30*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLShort:
		return t.Short
	case TTLMedium:
		return t.Medium
	case TTLLong:
		return t.Long
	default:
		return 0
	}
}

// For maps a payload kind onto its TTL. Raw exchange payloads expire fast,
// finished analyses linger.
func (t TTLSet) For(kind Kind) time.Duration {
	switch kind {
	case KindOrders, KindFills, KindUserState:
		return t.Short
	case KindLeaderboard:
		return t.Medium
	case KindAnalysis:
		return t.Long
	default:
		return t.Short
	}
}

// Key builds the cache key for a payload kind scoped to a trader address.
// Kinds without a subject (the leaderboard) pass an empty address.
func Key(kind Kind, address string) string {
	return formatKey(string(kind), strings.ToLower(address))
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}
