package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/abhisek/skillora/internal/record"
)

// Publisher fans a stored record out to other consumers.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// Recorder writes typed records to a KV under "<kind>:<id>" keys and reads
// them back with validation.
type Recorder struct {
	kv  KV
	pub Publisher
	log *slog.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithPublisher publishes every record after it is stored.
func WithPublisher(p Publisher) RecorderOption {
	return func(r *Recorder) { r.pub = p }
}

// WithLogger sets the logger used for publish failures and rejected records.
func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) { r.log = l }
}

// NewRecorder wraps kv.
func NewRecorder(kv KV, opts ...RecorderOption) *Recorder {
	r := &Recorder{kv: kv, log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// KV returns the underlying store.
func (r *Recorder) KV() KV {
	return r.kv
}

// Put stores rec, overwriting any previous value under the same key.
// A publish failure is logged and does not fail the write.
func (r *Recorder) Put(ctx context.Context, rec record.Record) error {
	key := record.KeyOf(rec)
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, raw); err != nil {
		return err
	}

	if r.pub != nil {
		if err := r.pub.Publish(RoutingKey(rec.RecordKind()), rec); err != nil {
			r.log.Warn("publish record failed", "key", key, "error", err)
		}
	}
	return nil
}

// AppendLLMRequest stores one LLM call.
func (r *Recorder) AppendLLMRequest(ctx context.Context, req record.LLMRequest) error {
	if req.ID == "" {
		req.ID = record.NewID(record.KindLLMRequest)
	}
	return r.Put(ctx, req)
}

// DeleteAll removes every record of every kind and returns how many keys
// were deleted.
func (r *Recorder) DeleteAll(ctx context.Context) (int, error) {
	n := 0
	for _, kind := range record.AllKinds {
		keys, err := r.kv.List(ctx, record.Prefix(kind))
		if err != nil {
			return n, fmt.Errorf("list %s: %w", kind, err)
		}
		for _, k := range keys {
			if err := r.kv.Delete(ctx, k); err != nil {
				return n, fmt.Errorf("delete %s: %w", k, err)
			}
			n++
		}
	}
	return n, nil
}

// RoutingKey is the topic a record of kind k is published under.
func RoutingKey(k record.Kind) string {
	return "skillora." + string(k)
}

// Rejected names a stored value that could not be loaded.
type Rejected struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Get loads and validates a single record.
func Get[T record.Record](ctx context.Context, r *Recorder, id string) (T, error) {
	var zero T
	key := record.Key(zero.RecordKind(), id)
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	return record.Decode[T](key, raw)
}

// LoadAll reads every record of T's kind, newest first. Values that fail to
// load are logged and returned as Rejected instead of aborting the listing.
func LoadAll[T record.Record](ctx context.Context, r *Recorder) ([]T, []Rejected, error) {
	var zero T
	kind := zero.RecordKind()

	keys, err := r.kv.List(ctx, record.Prefix(kind))
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", kind, err)
	}

	var (
		out      []T
		rejected []Rejected
	)
	for _, key := range keys {
		raw, err := r.kv.Get(ctx, key)
		if err != nil {
			reason := err.Error()
			if errors.Is(err, ErrNotFound) {
				reason = "deleted while listing"
			}
			rejected = append(rejected, Rejected{Key: key, Reason: reason})
			r.log.Warn("skipping unreadable record", "key", key, "error", err)
			continue
		}
		rec, err := record.Decode[T](key, raw)
		if err != nil {
			rejected = append(rejected, Rejected{Key: key, Reason: err.Error()})
			r.log.Warn("skipping invalid record", "key", key, "error", err)
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt().After(out[j].OccurredAt())
	})
	return out, rejected, nil
}
