package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kubeshield/audit-service/internal/event"
	"github.com/kubeshield/audit-service/internal/metrics"
)

const (
	// DefaultMaxEvents is the retained-event window size.
	DefaultMaxEvents = 100
	// DefaultMaxBuckets covers one hour of history at 5s resolution.
	DefaultMaxBuckets = 720

	bucketWidth = 5 * time.Second
)

// Clock supplies the current instant. Injectable so tests control bucketing.
type Clock func() time.Time

// VolumePoint is one time bucket of the attack-volume series.
type VolumePoint struct {
	Timestamp time.Time
	Count     int
}

type bucket struct {
	key   time.Time // truncated to bucketWidth
	count int
}

// Store is a bounded, mutex-protected window of security events plus an
// independent time-bucket index of all adds observed. One instance is
// shared by every producer and reader in the process.
type Store struct {
	mu         sync.Mutex
	maxEvents  int
	maxBuckets int
	now        Clock
	events     []event.StoredEvent // oldest first
	buckets    []bucket            // keys non-decreasing
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock (used by tests).
func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

// WithMaxBuckets overrides the bucket-index capacity.
func WithMaxBuckets(n int) Option {
	return func(s *Store) { s.maxBuckets = n }
}

// New creates a Store retaining at most maxEvents events. maxEvents <= 0
// falls back to DefaultMaxEvents.
func New(maxEvents int, opts ...Option) *Store {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	s := &Store{
		maxEvents:  maxEvents,
		maxBuckets: DefaultMaxBuckets,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add accepts a validated event, assigns it an ID and receipt time, and
// appends it to the window, evicting the oldest entry if at capacity. The
// bucket index is updated in the same critical section. Input validation is
// the caller's contract; Add never fails.
func (s *Store) Add(ev event.SecurityEvent, source string) event.StoredEvent {
	now := s.now().UTC()
	stored := event.StoredEvent{
		ID:          uuid.NewString(),
		Timestamp:   ev.Timestamp,
		EventType:   ev.EventType,
		Severity:    ev.Severity,
		PodName:     ev.PodName,
		Namespace:   ev.Namespace,
		Container:   ev.Container,
		Image:       ev.Image,
		Reason:      ev.Reason,
		Action:      ev.Action,
		PolicyName:  ev.PolicyName,
		NodeName:    ev.NodeName,
		Description: ev.Description,
		ReceivedAt:  now,
		Source:      source,
	}

	evicted := false
	s.mu.Lock()
	if len(s.events) >= s.maxEvents {
		n := copy(s.events, s.events[1:])
		s.events = s.events[:n]
		evicted = true
	}
	s.events = append(s.events, stored)
	s.updateBuckets(now.Truncate(bucketWidth))
	retained := len(s.events)
	s.mu.Unlock()

	metrics.EventsStored.WithLabelValues(source).Inc()
	if evicted {
		metrics.EventsEvicted.Inc()
	}
	metrics.RetainedEvents.Set(float64(retained))
	return stored
}

// updateBuckets merges into the newest bucket when the key has not advanced
// past it, so a clock stepping backwards cannot break the non-decreasing
// key order. Caller holds s.mu.
func (s *Store) updateBuckets(key time.Time) {
	if n := len(s.buckets); n > 0 && !key.After(s.buckets[n-1].key) {
		s.buckets[n-1].count++
		return
	}
	if len(s.buckets) >= s.maxBuckets {
		n := copy(s.buckets, s.buckets[1:])
		s.buckets = s.buckets[:n]
	}
	s.buckets = append(s.buckets, bucket{key: key, count: 1})
}

// All returns retained events newest first, filtered by exact severity
// match if severity is non-empty and truncated to limit if limit > 0.
func (s *Store) All(limit int, severity string) []event.StoredEvent {
	snap := s.snapshot()
	out := make([]event.StoredEvent, 0, len(snap))
	for i := len(snap) - 1; i >= 0; i-- {
		if severity != "" && snap[i].Severity != severity {
			continue
		}
		out = append(out, snap[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// ByID looks up a retained event. The second return is false on a miss.
func (s *Store) ByID(id string) (event.StoredEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return event.StoredEvent{}, false
}

// Count returns the number of currently retained events.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// AttackVolume returns every bucket at or after now minus the given number
// of minutes, oldest first.
func (s *Store) AttackVolume(minutes int) []VolumePoint {
	s.mu.Lock()
	buckets := make([]bucket, len(s.buckets))
	copy(buckets, s.buckets)
	s.mu.Unlock()

	cutoff := s.now().UTC().Add(-time.Duration(minutes) * time.Minute)
	out := make([]VolumePoint, 0, len(buckets))
	for _, b := range buckets {
		if !b.key.Before(cutoff) {
			out = append(out, VolumePoint{Timestamp: b.key, Count: b.count})
		}
	}
	return out
}

// Summary aggregates the current window. See Summarize.
func (s *Store) Summary() Summary {
	return Summarize(s.snapshot())
}

// Clear empties the event window and the bucket index, returning how many
// events were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	n := len(s.events)
	s.events = nil
	s.buckets = nil
	s.mu.Unlock()

	metrics.RetainedEvents.Set(0)
	return n
}

// snapshot copies the event window under the lock so callers can filter
// and aggregate without holding it.
func (s *Store) snapshot() []event.StoredEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make([]event.StoredEvent, len(s.events))
	copy(snap, s.events)
	return snap
}
