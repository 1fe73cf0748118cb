package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/abhisek/skillora/internal/record"
	"github.com/abhisek/skillora/internal/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	key     string
	payload any
}

type fakePublisher struct {
	got []published
	err error
}

func (p *fakePublisher) Publish(routingKey string, payload any) error {
	p.got = append(p.got, published{routingKey, payload})
	return p.err
}

// failingKV fails every write.
type failingKV struct{ *MemoryStore }

func (f failingKV) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func testSession(id string, start time.Time) record.Session {
	s := record.Session{
		ID:          id,
		StudentID:   "stu_1",
		StudentName: "Asha",
		Grade:       3,
		Subject:     record.SubjectMath,
		Topic:       "Multiplication",
		StartTime:   start,
		Exchanges: []record.Exchange{
			{
				ID:             "ex_1",
				Timestamp:      start.Add(time.Minute),
				StudentMessage: "12",
				TutorResponse:  "Correct! Next one.",
				Outcome:        signal.OutcomeCorrect,
				AttemptNumber:  1,
			},
		},
	}
	s.Recount()
	return s
}

func TestRecorderPutAndGet(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(openTestStore(t))

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	want := testSession("sess_a", start)
	require.NoError(t, rec.Put(ctx, want))

	got, err := Get[record.Session](ctx, rec, "sess_a")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Get[record.Session](ctx, rec, "sess_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecorderPutOverwrites(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(NewMemory())

	s := testSession("sess_a", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, rec.Put(ctx, s))

	s.Topic = "Division"
	require.NoError(t, rec.Put(ctx, s))

	all, rejected, err := LoadAll[record.Session](ctx, rec)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, all, 1)
	assert.Equal(t, "Division", all[0].Topic)
}

func TestLoadAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(NewMemory())
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, rec.Put(ctx, testSession("sess_old", base)))
	require.NoError(t, rec.Put(ctx, testSession("sess_new", base.Add(48*time.Hour))))
	require.NoError(t, rec.Put(ctx, testSession("sess_mid", base.Add(24*time.Hour))))

	all, _, err := LoadAll[record.Session](ctx, rec)
	require.NoError(t, err)

	var ids []string
	for _, s := range all {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"sess_new", "sess_mid", "sess_old"}, ids)
}

func TestLoadAllReportsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	var logs bytes.Buffer
	rec := NewRecorder(kv, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	require.NoError(t, rec.Put(ctx, record.Misconception{
		ID:              "mc_ok",
		SessionID:       "sess_a",
		Grade:           4,
		Subject:         record.SubjectReading,
		Timestamp:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		StudentThinking: "I thought the main idea was the first sentence",
	}))
	require.NoError(t, kv.Set(ctx, "misconception:mc_garbage", []byte("{not json")))
	require.NoError(t, kv.Set(ctx, "misconception:mc_grade", []byte(
		`{"id":"mc_grade","sessionId":"s","timestamp":"2026-03-01T10:00:00Z","studentThinking":"x","grade":40}`,
	)))

	all, rejected, err := LoadAll[record.Misconception](ctx, rec)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "mc_ok", all[0].ID)

	require.Len(t, rejected, 2)
	keys := []string{rejected[0].Key, rejected[1].Key}
	assert.ElementsMatch(t, []string{"misconception:mc_garbage", "misconception:mc_grade"}, keys)
	for _, r := range rejected {
		assert.NotEmpty(t, r.Reason)
	}
	assert.Contains(t, logs.String(), "skipping invalid record")
}

func TestLoadAllOnlyReadsItsKind(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(NewMemory())
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, rec.Put(ctx, testSession("sess_a", ts)))
	require.NoError(t, rec.Put(ctx, record.FrustrationSignal{
		ID:             "fr_a",
		SessionID:      "sess_a",
		Grade:          3,
		Timestamp:      ts,
		Type:           signal.ExplicitFrustration,
		Signals:        []string{"i hate this"},
		StudentMessage: "I hate this",
	}))

	frs, rejected, err := LoadAll[record.FrustrationSignal](ctx, rec)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, frs, 1)
	assert.Equal(t, []string{"i hate this"}, frs[0].Signals)
}

func TestRecorderPublishes(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	rec := NewRecorder(NewMemory(), WithPublisher(pub))

	b := record.Breakthrough{
		ID:            "bt_1",
		SessionID:     "sess_a",
		Grade:         2,
		Subject:       record.SubjectMath,
		Timestamp:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		WrongAttempts: 2,
	}
	require.NoError(t, rec.Put(ctx, b))

	require.Len(t, pub.got, 1)
	assert.Equal(t, "skillora.breakthrough", pub.got[0].key)
	assert.Equal(t, b, pub.got[0].payload)
}

func TestRecorderPublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	var logs bytes.Buffer
	rec := NewRecorder(kv,
		WithPublisher(&fakePublisher{err: errors.New("broker down")}),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	require.NoError(t, rec.Put(ctx, testSession("sess_a", time.Now().UTC())))

	_, err := kv.Get(ctx, "session:sess_a")
	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "broker down")
}

func TestRecorderSurfacesWriteErrors(t *testing.T) {
	pub := &fakePublisher{}
	rec := NewRecorder(failingKV{NewMemory()}, WithPublisher(pub))

	err := rec.Put(context.Background(), testSession("sess_a", time.Now().UTC()))
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, pub.got, "nothing is published when the write fails")
}

func TestAppendLLMRequestAssignsID(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(NewMemory())

	require.NoError(t, rec.AppendLLMRequest(ctx, record.LLMRequest{
		Timestamp: time.Now().UTC(),
		Provider:  "mock",
		Model:     "mock-model",
		Purpose:   "tutor",
		Success:   true,
	}))

	reqs, _, err := LoadAll[record.LLMRequest](ctx, rec)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Regexp(t, `^llm_`, reqs[0].ID)
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	rec := NewRecorder(kv)
	ts := time.Now().UTC()

	require.NoError(t, rec.Put(ctx, testSession("sess_a", ts)))
	require.NoError(t, rec.Put(ctx, testSession("sess_b", ts)))
	require.NoError(t, rec.AppendLLMRequest(ctx, record.LLMRequest{Timestamp: ts, Model: "m"}))
	require.NoError(t, kv.Set(ctx, "unrelated", []byte("keep")))

	n, err := rec.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	keys, err := kv.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"unrelated"}, keys)
}
