package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hungrymonkey/finder/internal/domain/providers"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
)

const (
	defaultTimeOpen   = "11:00"
	defaultTimeClosed = "22:00"

	// verified hours outlive any demo session
	hoursTTLSeconds = 0
	// a verification status is only interesting while it is running
	statusTTLSeconds = 3600
)

// Verification is the state of one hours verification call
type Verification struct {
	RestaurantID string    `json:"restaurant_id"`
	CallID       string    `json:"call_id"`
	Status       string    `json:"status"`
	RequestedAt  time.Time `json:"requested_at"`
}

// Verification statuses
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// HoursVerifier simulates the phone call that confirms a restaurant's hours.
// Results land in the cache after a delay and are overlaid on later reads.
type HoursVerifier struct {
	cache   providers.CacheProvider
	delay   time.Duration
	metrics *observability.Metrics

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewHoursVerifier creates a verifier completing calls after delay
func NewHoursVerifier(cache providers.CacheProvider, delay time.Duration, metrics *observability.Metrics) *HoursVerifier {
	return &HoursVerifier{
		cache:   cache,
		delay:   delay,
		metrics: metrics,
		done:    make(chan struct{}),
	}
}

// Request starts a verification for rec and returns immediately
func (v *HoursVerifier) Request(ctx context.Context, rec Record) (*Verification, error) {
	id := rec.ID()
	call := &Verification{
		RestaurantID: id,
		CallID:       uuid.NewString(),
		Status:       StatusInProgress,
		RequestedAt:  time.Now().UTC(),
	}
	if err := v.putJSON(ctx, statusKey(id), call, statusTTLSeconds); err != nil {
		return nil, err
	}

	observability.RecordVerification(ctx, v.metrics, id)
	observability.LoggerFromContext(ctx).Info().
		Str("restaurant_id", id).
		Str("call_id", call.CallID).
		Dur("delay", v.delay).
		Msg("Hours verification started")

	hours := confirmedHours(rec)
	bg := context.WithoutCancel(ctx)

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()

		timer := time.NewTimer(v.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-v.done:
			return
		}

		v.complete(bg, call, hours)
	}()

	return call, nil
}

func (v *HoursVerifier) complete(ctx context.Context, call *Verification, hours map[string]any) {
	logger := observability.LoggerFromContext(ctx)

	if err := v.putJSON(ctx, hoursKey(call.RestaurantID), hours, hoursTTLSeconds); err != nil {
		logger.Error().Err(err).Str("restaurant_id", call.RestaurantID).Msg("Failed to store verified hours")
		return
	}

	done := *call
	done.Status = StatusCompleted
	if err := v.putJSON(ctx, statusKey(call.RestaurantID), done, statusTTLSeconds); err != nil {
		logger.Warn().Err(err).Str("restaurant_id", call.RestaurantID).Msg("Failed to update verification status")
	}

	logger.Info().
		Str("restaurant_id", call.RestaurantID).
		Str("call_id", call.CallID).
		Msg("Hours verification completed")
}

// Status returns the latest verification for id
func (v *HoursVerifier) Status(ctx context.Context, id string) (*Verification, bool, error) {
	var call Verification
	found, err := v.getJSON(ctx, statusKey(id), &call)
	if err != nil || !found {
		return nil, false, err
	}
	return &call, true, nil
}

// Overlay replaces rec's operating_hours with verified hours when present
func (v *HoursVerifier) Overlay(ctx context.Context, rec Record) Record {
	var hours map[string]any
	found, err := v.getJSON(ctx, hoursKey(rec.ID()), &hours)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("restaurant_id", rec.ID()).Msg("Failed to read verified hours")
		return rec
	}
	if found {
		rec["operating_hours"] = hours
	}
	return rec
}

// Close abandons pending verifications and waits for running ones
func (v *HoursVerifier) Close() {
	v.closeOnce.Do(func() { close(v.done) })
	v.wg.Wait()
}

// confirmedHours is what the simulated call reports: the listed hours when
// the record has them, otherwise a typical lunch-to-dinner day.
func confirmedHours(rec Record) map[string]any {
	open, closing := defaultTimeOpen, defaultTimeClosed
	if h, ok := rec["operating_hours"].(map[string]any); ok {
		if s, ok := h["time_open"].(string); ok && s != "" {
			open = s
		}
		if s, ok := h["time_closed"].(string); ok && s != "" {
			closing = s
		}
	}
	return map[string]any{
		"time_open":         open,
		"time_closed":       closing,
		"is_hours_verified": true,
		"is_consenting":     true,
		"is_open":           isOpen(rec),
	}
}

func (v *HoursVerifier) putJSON(ctx context.Context, key string, value any, ttl int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return v.cache.Set(ctx, key, data, ttl)
}

func (v *HoursVerifier) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := v.cache.Get(ctx, key)
	if errors.Is(err, providers.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func hoursKey(id string) string  { return "hours:" + id }
func statusKey(id string) string { return "verification:" + id }
