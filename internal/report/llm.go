package report

import (
	"cmp"
	"slices"

	"github.com/abhisek/skillora/internal/llm"
	"github.com/abhisek/skillora/internal/record"
)

// PurposeUsage aggregates LLM calls made for one purpose.
type PurposeUsage struct {
	Purpose      string `json:"purpose"`
	Calls        int    `json:"calls"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
	AvgLatencyMs int64  `json:"avgLatencyMs"`
}

// ModelUsage aggregates LLM calls served by one model.
type ModelUsage struct {
	Model        string  `json:"model"`
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"inputTokens"`
	OutputTokens int     `json:"outputTokens"`
	CostUSD      float64 `json:"costUsd"`
	// Priced is false when the model is missing from the pricing table.
	Priced bool `json:"priced"`
}

// LLMUsage is the token and cost breakdown of the request log.
type LLMUsage struct {
	ByPurpose []PurposeUsage `json:"byPurpose"`
	ByModel   []ModelUsage   `json:"byModel"`
	Calls     int            `json:"calls"`
	Failures  int            `json:"failures"`
	TotalCost float64        `json:"totalCostUsd"`
	Unpriced  []string       `json:"unpriced"`
}

// SummarizeLLM aggregates logged requests by purpose and by model. Both
// breakdowns are ordered by call count, busiest first.
func SummarizeLLM(reqs []record.LLMRequest) LLMUsage {
	var u LLMUsage
	purposes := map[string]*PurposeUsage{}
	latency := map[string]int64{}
	models := map[string]*ModelUsage{}

	for _, r := range reqs {
		u.Calls++
		if !r.Success {
			u.Failures++
		}

		p, ok := purposes[r.Purpose]
		if !ok {
			p = &PurposeUsage{Purpose: r.Purpose}
			purposes[r.Purpose] = p
		}
		p.Calls++
		p.InputTokens += r.InputTokens
		p.OutputTokens += r.OutputTokens
		latency[r.Purpose] += r.LatencyMs

		m, ok := models[r.Model]
		if !ok {
			m = &ModelUsage{Model: r.Model}
			models[r.Model] = m
		}
		m.Calls++
		m.InputTokens += r.InputTokens
		m.OutputTokens += r.OutputTokens
	}

	for name, p := range purposes {
		p.AvgLatencyMs = latency[name] / int64(p.Calls)
		u.ByPurpose = append(u.ByPurpose, *p)
	}
	for _, m := range models {
		if cost, ok := llm.EstimateCost(m.Model, m.InputTokens, m.OutputTokens); ok {
			m.CostUSD = cost
			m.Priced = true
			u.TotalCost += cost
		} else {
			u.Unpriced = append(u.Unpriced, m.Model)
		}
		u.ByModel = append(u.ByModel, *m)
	}

	slices.SortFunc(u.ByPurpose, func(a, b PurposeUsage) int {
		return cmp.Or(cmp.Compare(b.Calls, a.Calls), cmp.Compare(a.Purpose, b.Purpose))
	})
	slices.SortFunc(u.ByModel, func(a, b ModelUsage) int {
		return cmp.Or(cmp.Compare(b.Calls, a.Calls), cmp.Compare(a.Model, b.Model))
	})
	slices.Sort(u.Unpriced)
	return u
}

// FilterLLM keeps requests made for purpose (all when empty), at most limit
// of them (all when limit <= 0). Order is preserved.
func FilterLLM(reqs []record.LLMRequest, purpose string, limit int) []record.LLMRequest {
	var out []record.LLMRequest
	for _, r := range reqs {
		if purpose != "" && r.Purpose != purpose {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
