package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	errx "github.com/expert-qa/server/internal/core/error"
	qamodel "github.com/expert-qa/server/internal/qa/model"
	logx "github.com/expert-qa/server/pkg/logger"
)

const ledgerKey = "qa:usage:ledger"

// LedgerEntry is the stored usage of one answered question. The question and
// answer text are not kept.
type LedgerEntry struct {
	ID               string    `json:"id"`
	Persona          string    `json:"persona"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	CostUSD          float64   `json:"total_cost"`
	CreatedAt        time.Time `json:"created_at"`
}

// RedisUsageLedger keeps the most recent entries in a capped Redis list, newest first.
type RedisUsageLedger struct {
	rdb        redis.Cmdable
	ttl        time.Duration
	maxEntries int64
	now        func() time.Time
}

func NewRedisUsageLedger(rdb redis.Cmdable, ttl time.Duration, maxEntries int) *RedisUsageLedger {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &RedisUsageLedger{rdb: rdb, ttl: ttl, maxEntries: int64(maxEntries), now: time.Now}
}

// Record implements qamodel.UsageRecorder.
func (r *RedisUsageLedger) Record(ctx context.Context, conv qamodel.Conversation, answer *qamodel.Answer) error {
	if answer == nil {
		return nil
	}
	entry := LedgerEntry{
		ID:               uuid.NewString(),
		Persona:          conv.Persona.String(),
		Model:            answer.Model,
		PromptTokens:     answer.Usage.PromptTokens,
		CompletionTokens: answer.Usage.CompletionTokens,
		TotalTokens:      answer.Usage.TotalTokens,
		CostUSD:          answer.Usage.CostUSD,
		CreatedAt:        r.now().UTC(),
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, ledgerKey, b)
	pipe.LTrim(ctx, ledgerKey, 0, r.maxEntries-1)
	if r.ttl > 0 {
		pipe.Expire(ctx, ledgerKey, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logx.Error().Err(err).Str("key", ledgerKey).Msg("failed to append usage ledger entry")
		return errx.WrapRedis(err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (r *RedisUsageLedger) Recent(ctx context.Context, n int) ([]LedgerEntry, error) {
	if n <= 0 {
		return []LedgerEntry{}, nil
	}
	rows, err := r.rdb.LRange(ctx, ledgerKey, 0, int64(n-1)).Result()
	if err != nil {
		if err == redis.Nil {
			return []LedgerEntry{}, nil
		}
		logx.Error().Err(err).Str("key", ledgerKey).Msg("failed to read usage ledger")
		return nil, errx.WrapRedis(err)
	}

	entries := make([]LedgerEntry, 0, len(rows))
	for i, s := range rows {
		var e LedgerEntry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			logx.Warn().Err(err).Int("index", i).Msg("skipping malformed ledger entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

var _ qamodel.UsageRecorder = (*RedisUsageLedger)(nil)
