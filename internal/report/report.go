// Package report reads stored analytics records back and aggregates them for
// the dashboard, the CLI and the HTTP API.
package report

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/abhisek/skillora/internal/record"
	"github.com/abhisek/skillora/internal/store"
)

// Dataset holds every signal record, each kind sorted newest first.
type Dataset struct {
	Sessions       []record.Session
	Breakthroughs  []record.Breakthrough
	Misconceptions []record.Misconception
	Frustrations   []record.FrustrationSignal

	// Rejected lists stored values that failed to load.
	Rejected []store.Rejected
}

// Load reads the four signal kinds from r.
func Load(ctx context.Context, r *store.Recorder) (*Dataset, error) {
	var (
		ds  Dataset
		rej []store.Rejected
		err error
	)

	if ds.Sessions, rej, err = store.LoadAll[record.Session](ctx, r); err != nil {
		return nil, err
	}
	ds.Rejected = append(ds.Rejected, rej...)

	if ds.Breakthroughs, rej, err = store.LoadAll[record.Breakthrough](ctx, r); err != nil {
		return nil, err
	}
	ds.Rejected = append(ds.Rejected, rej...)

	if ds.Misconceptions, rej, err = store.LoadAll[record.Misconception](ctx, r); err != nil {
		return nil, err
	}
	ds.Rejected = append(ds.Rejected, rej...)

	if ds.Frustrations, rej, err = store.LoadAll[record.FrustrationSignal](ctx, r); err != nil {
		return nil, err
	}
	ds.Rejected = append(ds.Rejected, rej...)

	return &ds, nil
}

// Records returns the records of kind k as generic records.
func (d *Dataset) Records(k record.Kind) ([]record.Record, bool) {
	switch k {
	case record.KindSession:
		return asRecords(d.Sessions), true
	case record.KindBreakthrough:
		return asRecords(d.Breakthroughs), true
	case record.KindMisconception:
		return asRecords(d.Misconceptions), true
	case record.KindFrustration:
		return asRecords(d.Frustrations), true
	}
	return nil, false
}

// LoadKind reads every record of kind k, including LLM request logs.
func LoadKind(ctx context.Context, r *store.Recorder, k record.Kind) ([]record.Record, []store.Rejected, error) {
	switch k {
	case record.KindSession:
		return loadAs[record.Session](ctx, r)
	case record.KindBreakthrough:
		return loadAs[record.Breakthrough](ctx, r)
	case record.KindMisconception:
		return loadAs[record.Misconception](ctx, r)
	case record.KindFrustration:
		return loadAs[record.FrustrationSignal](ctx, r)
	case record.KindLLMRequest:
		return loadAs[record.LLMRequest](ctx, r)
	}
	return nil, nil, fmt.Errorf("unknown record kind %q", k)
}

func loadAs[T record.Record](ctx context.Context, r *store.Recorder) ([]record.Record, []store.Rejected, error) {
	recs, rej, err := store.LoadAll[T](ctx, r)
	if err != nil {
		return nil, nil, err
	}
	return asRecords(recs), rej, nil
}

func asRecords[T record.Record](in []T) []record.Record {
	out := make([]record.Record, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// Summary is the headline view of a Dataset.
type Summary struct {
	TotalSessions  int `json:"totalSessions"`
	TotalExchanges int `json:"totalExchanges"`
	Breakthroughs  int `json:"breakthroughs"`
	Misconceptions int `json:"misconceptions"`
	Frustrations   int `json:"frustrations"`

	// AvgAccuracy is the percentage of all exchanges judged correct.
	AvgAccuracy int `json:"avgAccuracy"`
	// AvgSessionMinutes is the mean session duration, rounded.
	AvgSessionMinutes int `json:"avgSessionMinutes"`

	// GradeActivity maps grade to total exchanges in that grade's sessions.
	GradeActivity map[int]int `json:"gradeActivity"`
	// MaxActivity is the largest GradeActivity value, at least 1.
	MaxActivity int `json:"maxActivity"`

	Rejected int `json:"rejected"`
}

// Summarize aggregates d. Counters come from each session's stored totals.
func Summarize(d *Dataset) Summary {
	s := Summary{
		TotalSessions:  len(d.Sessions),
		Breakthroughs:  len(d.Breakthroughs),
		Misconceptions: len(d.Misconceptions),
		Frustrations:   len(d.Frustrations),
		GradeActivity:  make(map[int]int),
		MaxActivity:    1,
		Rejected:       len(d.Rejected),
	}

	var correct int
	var minutes float64
	for _, sess := range d.Sessions {
		s.TotalExchanges += sess.TotalExchanges
		correct += sess.CorrectAnswers
		minutes += float64(sess.DurationMs) / 60000
		if sess.Grade != 0 {
			s.GradeActivity[sess.Grade] += sess.TotalExchanges
		}
	}

	if s.TotalExchanges > 0 {
		s.AvgAccuracy = roundHalfUp(float64(correct) / float64(s.TotalExchanges) * 100)
	}
	if s.TotalSessions > 0 {
		s.AvgSessionMinutes = roundHalfUp(minutes / float64(s.TotalSessions))
	}
	for _, n := range s.GradeActivity {
		s.MaxActivity = max(s.MaxActivity, n)
	}
	return s
}

// Grades returns the grades present in GradeActivity in ascending order.
func (s Summary) Grades() []int {
	grades := make([]int, 0, len(s.GradeActivity))
	for g := range s.GradeActivity {
		grades = append(grades, g)
	}
	sort.Ints(grades)
	return grades
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
