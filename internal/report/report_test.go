package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/skillora/internal/record"
	"github.com/abhisek/skillora/internal/signal"
	"github.com/abhisek/skillora/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func session(id string, grade, exchanges, correct int, dur time.Duration, start time.Time) record.Session {
	return record.Session{
		ID:             id,
		Grade:          grade,
		Subject:        record.SubjectMath,
		StartTime:      start,
		EndTime:        start.Add(dur),
		DurationMs:     dur.Milliseconds(),
		TotalExchanges: exchanges,
		CorrectAnswers: correct,
	}
}

func TestSummarize(t *testing.T) {
	ds := &Dataset{
		Sessions: []record.Session{
			session("sess_a", 3, 10, 7, 10*time.Minute, t0),
			session("sess_b", 3, 5, 1, 5*time.Minute, t0),
			session("sess_c", 7, 6, 3, 12*time.Minute, t0),
		},
		Breakthroughs:  make([]record.Breakthrough, 2),
		Misconceptions: make([]record.Misconception, 1),
		Frustrations:   make([]record.FrustrationSignal, 4),
		Rejected:       []store.Rejected{{Key: "session:bad", Reason: "x"}},
	}

	s := Summarize(ds)
	assert.Equal(t, 3, s.TotalSessions)
	assert.Equal(t, 21, s.TotalExchanges)
	assert.Equal(t, 2, s.Breakthroughs)
	assert.Equal(t, 1, s.Misconceptions)
	assert.Equal(t, 4, s.Frustrations)
	assert.Equal(t, 52, s.AvgAccuracy) // 11/21 = 52.38%
	assert.Equal(t, 9, s.AvgSessionMinutes)
	assert.Equal(t, map[int]int{3: 15, 7: 6}, s.GradeActivity)
	assert.Equal(t, 15, s.MaxActivity)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, []int{3, 7}, s.Grades())
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(&Dataset{})
	assert.Zero(t, s.TotalSessions)
	assert.Zero(t, s.AvgAccuracy)
	assert.Zero(t, s.AvgSessionMinutes)
	assert.Empty(t, s.GradeActivity)
	assert.Equal(t, 1, s.MaxActivity)
}

func TestSummarizeRoundsHalfUp(t *testing.T) {
	ds := &Dataset{Sessions: []record.Session{
		session("sess_a", 1, 8, 1, 90*time.Second, t0), // 12.5%, 1.5 min
	}}
	s := Summarize(ds)
	assert.Equal(t, 13, s.AvgAccuracy)
	assert.Equal(t, 2, s.AvgSessionMinutes)
}

func TestSummarizeSkipsUngradedActivity(t *testing.T) {
	ds := &Dataset{Sessions: []record.Session{
		session("sess_a", 0, 4, 2, time.Minute, t0),
	}}
	s := Summarize(ds)
	assert.Equal(t, 4, s.TotalExchanges)
	assert.Empty(t, s.GradeActivity)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	r := store.NewRecorder(kv)

	require.NoError(t, r.Put(ctx, session("sess_old", 3, 1, 1, time.Minute, t0)))
	require.NoError(t, r.Put(ctx, session("sess_new", 3, 1, 1, time.Minute, t0.Add(time.Hour))))
	require.NoError(t, r.Put(ctx, record.FrustrationSignal{
		ID: "fr_1", SessionID: "sess_new", Grade: 3, Timestamp: t0,
		Type: signal.Disengagement, Signals: []string{"k"}, StudentMessage: "k",
	}))
	require.NoError(t, kv.Set(ctx, "breakthrough:bt_broken", []byte(`{"id":"bt_broken"}`)))
	require.NoError(t, r.AppendLLMRequest(ctx, record.LLMRequest{Timestamp: t0, Model: "m"}))

	ds, err := Load(ctx, r)
	require.NoError(t, err)

	require.Len(t, ds.Sessions, 2)
	assert.Equal(t, "sess_new", ds.Sessions[0].ID)
	assert.Empty(t, ds.Breakthroughs)
	assert.Empty(t, ds.Misconceptions)
	assert.Len(t, ds.Frustrations, 1)
	require.Len(t, ds.Rejected, 1)
	assert.Equal(t, "breakthrough:bt_broken", ds.Rejected[0].Key)

	recs, ok := ds.Records(record.KindFrustration)
	require.True(t, ok)
	assert.Len(t, recs, 1)

	_, ok = ds.Records(record.KindLLMRequest)
	assert.False(t, ok)

	llm, rej, err := LoadKind(ctx, r, record.KindLLMRequest)
	require.NoError(t, err)
	assert.Empty(t, rej)
	assert.Len(t, llm, 1)

	_, _, err = LoadKind(ctx, r, record.Kind("nope"))
	assert.Error(t, err)
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, nil)
	assert.ErrorIs(t, err, ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestWriteCSVMisconceptions(t *testing.T) {
	recs := []record.Record{
		record.Misconception{
			ID: "mc_1", SessionID: "sess_a", Grade: 4, Subject: record.SubjectMath, Topic: "Fractions",
			Timestamp: t0, WrongAnswer: "1/4", StudentThinking: `4 is "bigger", so 1/4 > 1/2`,
			TutorExplanation: "Almost! <think> about pizza slices.",
		},
		record.Misconception{
			ID: "mc_2", SessionID: "sess_a", Grade: 4, Subject: record.SubjectMath,
			Timestamp: t0.Add(time.Minute),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 3, "no trailing newline")
	assert.Equal(t, "id,sessionId,grade,subject,topic,timestamp,wrongAnswer,studentThinking,tutorExplanation", lines[0])
	assert.Equal(t,
		`"mc_1","sess_a",4,"math","Fractions","2026-03-01T09:00:00Z","1/4","4 is \"bigger\", so 1/4 > 1/2","Almost! <think> about pizza slices."`,
		lines[1])
	assert.Equal(t,
		`"mc_2","sess_a",4,"math","","2026-03-01T09:01:00Z","","",""`,
		lines[2])
}

func TestWriteCSVSkipsNestedFields(t *testing.T) {
	s := session("sess_a", 3, 2, 1, time.Minute, t0)
	s.Exchanges = []record.Exchange{{ID: "ex_1", Timestamp: t0, Outcome: signal.OutcomeCorrect}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []record.Record{s}))

	header := strings.Split(buf.String(), "\n")[0]
	assert.Equal(t,
		"id,studentId,studentName,grade,subject,topic,startTime,endTime,durationMs,totalExchanges,correctAnswers,wrongAnswers,breakthroughCount,frustrationCount",
		header)
}

func TestWriteCSVDropsNilLists(t *testing.T) {
	recs := []record.Record{
		record.FrustrationSignal{ID: "fr_1", SessionID: "s", Timestamp: t0, Type: signal.Disengagement, StudentMessage: "k"},
		record.FrustrationSignal{ID: "fr_2", SessionID: "s", Timestamp: t0, Type: signal.ExplicitFrustration,
			Signals: []string{"ugh"}, StudentMessage: "ugh", PriorContext: []string{"12"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "id,sessionId,grade,topic,timestamp,type,studentMessage", lines[0])
	assert.Equal(t, `"fr_1","s",0,"","2026-03-01T09:00:00Z","disengagement","k"`, lines[1])
	assert.Equal(t, `"fr_2","s",0,"","2026-03-01T09:00:00Z","explicit_frustration","ugh"`, lines[2])
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename(record.KindBreakthrough, time.UnixMilli(1767225600123))
	assert.Equal(t, "skillora_breakthrough_1767225600123.csv", got)
}
