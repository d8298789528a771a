// Package redis keeps fulfillment step markers in Redis.
//
// Every order owns one hash, fulfillment:{orderId}, whose fields are step
// numbers and whose values are the details the step completed with. The hash
// expires after the configured TTL counted from the last marker written.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"marketplace/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "fulfillment:"

// StepLedger implements ports.StepLedger on a Redis hash per order.
type StepLedger struct {
	client goredis.Cmdable
	ttl    time.Duration
}

// NewStepLedger creates a ledger. A zero ttl keeps markers forever.
func NewStepLedger(client goredis.Cmdable, ttl time.Duration) *StepLedger {
	return &StepLedger{client: client, ttl: ttl}
}

// Completed returns the recorded steps of an order. Fields that are not step
// numbers are ignored.
func (l *StepLedger) Completed(ctx context.Context, orderID kernel.UUID) (map[int]string, error) {
	fields, err := l.client.HGetAll(ctx, key(orderID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read step markers: %w", err)
	}

	done := make(map[int]string, len(fields))
	for field, details := range fields {
		step, convErr := strconv.Atoi(field)
		if convErr != nil {
			continue
		}
		done[step] = details
	}
	return done, nil
}

// MarkCompleted stores the marker and refreshes the expiry in one round trip.
func (l *StepLedger) MarkCompleted(ctx context.Context, orderID kernel.UUID, step int, details string) error {
	k := key(orderID)
	_, err := l.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, k, strconv.Itoa(step), details)
		if l.ttl > 0 {
			pipe.Expire(ctx, k, l.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write step marker %d: %w", step, err)
	}
	return nil
}

func key(orderID kernel.UUID) string {
	return keyPrefix + orderID.String()
}
