package service

import (
	"sort"

	"github.com/halyard/crewfit/internal/domain/model"
	"github.com/halyard/crewfit/internal/domain/rank"
	"github.com/halyard/crewfit/internal/domain/types"
)

// Row is one candidate in the ranked batch listing.
type Row struct {
	CandidateID string            `json:"candidate_id" yaml:"candidate_id"`
	Name        string            `json:"name" yaml:"name"`
	GlobalFit   float64           `json:"global_fit" yaml:"global_fit"`
	FitLabel    types.FitLabel    `json:"fit_label" yaml:"fit_label"`
	Percentile  float64           `json:"percentile" yaml:"percentile"`
	Confidence  types.Confidence  `json:"confidence" yaml:"confidence"`
	SafetyLevel types.SafetyLevel `json:"safety_level" yaml:"safety_level"`
	Prediction  float64           `json:"prediction" yaml:"prediction"`
	Stage2      bool              `json:"stage2_available" yaml:"stage2_available"`
}

// Summary aggregates one batch for the operator view.
type Summary struct {
	PoolSize          int     `json:"pool_size" yaml:"pool_size"`
	Disqualified      int     `json:"disqualified" yaml:"disqualified"`
	HighRisk          int     `json:"high_risk" yaml:"high_risk"`
	Stage2Unavailable int     `json:"stage2_unavailable" yaml:"stage2_unavailable"`
	Duplicates        int     `json:"duplicates" yaml:"duplicates"`
	MeanGlobalFit     float64 `json:"mean_global_fit" yaml:"mean_global_fit"`
}

// BatchReport is the ranked outcome of one hiring round.
type BatchReport struct {
	BatchID  string         `json:"batch_id" yaml:"batch_id"`
	Position string         `json:"position" yaml:"position"`
	SortMode types.SortMode `json:"sort_mode" yaml:"sort_mode"`
	Rows     []Row          `json:"rows" yaml:"rows"`
	Summary  Summary        `json:"summary" yaml:"summary"`
}

// CandidateReport is the drill-down for one candidate: the compact row, the
// candidate's global-fit standing within the round, and the full pipeline
// result with every factor and flag.
type CandidateReport struct {
	BatchID     string               `json:"batch_id" yaml:"batch_id"`
	Row         Row                  `json:"row" yaml:"row"`
	FitStanding rank.Percentile      `json:"fit_standing" yaml:"fit_standing"`
	Result      model.PipelineResult `json:"result" yaml:"result"`
}

// newRow collapses a pipeline result into one listing row.
func newRow(r model.PipelineResult) Row {
	row := Row{
		CandidateID: r.CandidateID,
		Name:        r.Name,
		GlobalFit:   r.Stage1.GlobalFit.Score,
		FitLabel:    r.Stage1.GlobalFit.Label,
		SafetyLevel: r.Stage1.Safety.Level,
		Confidence:  types.ConfidenceLow,
	}

	// Percentile across competencies; every pool has the same size, so the
	// confidence of any one ranking stands for the row.
	if len(r.Percentiles) > 0 {
		sum := 0.0
		for _, p := range r.Percentiles {
			sum += p.Value
			row.Confidence = p.Confidence
		}
		row.Percentile = sum / float64(len(r.Percentiles))
	}

	if r.Stage2 != nil {
		row.Prediction = r.Stage2.Prediction.Score
		row.Stage2 = r.Stage2.Available
	}
	return row
}

// newBatchReport builds the ranked report from already-sorted results.
func newBatchReport(batchID, position string, mode types.SortMode, results []model.PipelineResult, duplicates int) BatchReport {
	rows := make([]Row, len(results))
	summary := Summary{
		PoolSize:   len(results),
		Duplicates: duplicates,
	}

	fitSum := 0.0
	for i, r := range results {
		rows[i] = newRow(r)
		fitSum += r.Stage1.GlobalFit.Score

		if !r.Passed {
			summary.Disqualified++
		}
		if r.Stage1.Safety.Level == types.SafetyHighRisk {
			summary.HighRisk++
		}
		if r.Stage2 != nil && !r.Stage2.Available {
			summary.Stage2Unavailable++
		}
	}
	if len(results) > 0 {
		summary.MeanGlobalFit = fitSum / float64(len(results))
	}

	return BatchReport{
		BatchID:  batchID,
		Position: position,
		SortMode: mode,
		Rows:     rows,
		Summary:  summary,
	}
}

// newCandidateReport builds the drill-down view for one stored result,
// ranking its global fit against the rest of its round.
func newCandidateReport(batchID string, result model.PipelineResult, pool []model.PipelineResult) CandidateReport {
	others := make([]float64, 0, len(pool))
	for _, r := range pool {
		if r.CandidateID == result.CandidateID {
			continue
		}
		others = append(others, r.Stage1.GlobalFit.Score)
	}

	return CandidateReport{
		BatchID:     batchID,
		Row:         newRow(result),
		FitStanding: rank.Of(result.Stage1.GlobalFit.Score, others),
		Result:      result,
	}
}

// predictionOf returns the candidate's contextual prediction, or -1 when no
// Stage-2 result exists so disqualified candidates sort after any real score.
func predictionOf(r model.PipelineResult) float64 {
	if r.Stage2 == nil {
		return -1
	}
	return r.Stage2.Prediction.Score
}

// sortResults orders a batch in place. Disqualified candidates sort after
// everyone else in every mode; ties break on candidate ID so output is
// deterministic.
func sortResults(results []model.PipelineResult, mode types.SortMode) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]

		if a.Passed != b.Passed {
			return a.Passed
		}

		var ka, kb float64
		switch mode {
		case types.SortByPrediction:
			ka, kb = predictionOf(a), predictionOf(b)
		case types.SortByFitThenPred:
			ka, kb = a.Stage1.GlobalFit.Score, b.Stage1.GlobalFit.Score
			if ka == kb {
				ka, kb = predictionOf(a), predictionOf(b)
			}
		default: // SortByGlobalFit
			ka, kb = a.Stage1.GlobalFit.Score, b.Stage1.GlobalFit.Score
		}

		if ka != kb {
			return ka > kb
		}
		return a.CandidateID < b.CandidateID
	})
}
