// Package model contains the value objects passed between pipeline layers.
// Everything here is constructed fresh per scoring request from externally
// supplied snapshots and configuration, and never mutated afterwards.
package model

import (
	"github.com/halyard/crewfit/internal/domain/contextual"
	"github.com/halyard/crewfit/internal/domain/globalfit"
	"github.com/halyard/crewfit/internal/domain/rank"
	"github.com/halyard/crewfit/internal/domain/safety"
	"github.com/halyard/crewfit/internal/domain/traits"
	"github.com/halyard/crewfit/internal/domain/types"
)

// Candidate is one applicant in a hiring round.
type Candidate struct {
	ID       string
	Name     string
	Position string
	Traits   traits.Snapshot
	// Preferences is the candidate's stated leadership preference vector;
	// nil means it is derived from correlated traits.
	Preferences *contextual.Vector
}

// EnvironmentContext carries the normalized contextual resources and demands
// of the posting, each value in [0,1].
type EnvironmentContext struct {
	Resources map[string]float64
	Demands   map[string]float64
}

// TeamContext describes the specific crew a candidate would join.
type TeamContext struct {
	Members     []traits.Snapshot
	Environment EnvironmentContext
	Leader      contextual.Vector
}

// Batch is one hiring round: every candidate scored together forms the
// percentile pool.
type Batch struct {
	ID         string
	Position   string
	Candidates []Candidate
	Team       TeamContext
}

// EvaluationJob is one unit of Stage-1 work flowing through the queue.
type EvaluationJob struct {
	BatchID   string
	Candidate Candidate
	Profile   JobProfile
}

// Stage1Result is the normative outcome for one candidate.
type Stage1Result struct {
	CandidateID string                  `json:"candidate_id" yaml:"candidate_id"`
	Competency  map[string]types.Detail `json:"competency" yaml:"competency"`
	Safety      safety.Assessment       `json:"safety" yaml:"safety"`
	GlobalFit   globalfit.Result        `json:"global_fit" yaml:"global_fit"`
}

// Stage2Result is the contextual outcome for one candidate. Available is
// false when the computation failed; the prediction then carries a neutral
// low-confidence placeholder rather than aborting the batch.
type Stage2Result struct {
	Performance types.Detail                `json:"performance" yaml:"performance"`
	Team        types.Detail                `json:"team" yaml:"team"`
	Environment types.Detail                `json:"environment" yaml:"environment"`
	Leadership  contextual.LeadershipResult `json:"leadership" yaml:"leadership"`
	TeamDelta   contextual.TeamDelta        `json:"team_delta" yaml:"team_delta"`
	Prediction  contextual.Prediction       `json:"prediction" yaml:"prediction"`
	Available   bool                        `json:"available" yaml:"available"`
}

// Filter stages recorded on a failed candidate.
const (
	FilterStageSafety = "stage1_safety"
)

// PipelineResult is the two-stage outcome for one candidate. Stage2 is
// present if and only if the candidate was not hard-filtered in Stage 1.
type PipelineResult struct {
	CandidateID string                     `json:"candidate_id" yaml:"candidate_id"`
	Name        string                     `json:"name" yaml:"name"`
	Position    string                     `json:"position" yaml:"position"`
	Traits      map[string]float64         `json:"traits" yaml:"traits"`
	Stage1      Stage1Result               `json:"stage1" yaml:"stage1"`
	Percentiles map[string]rank.Percentile `json:"percentiles" yaml:"percentiles"`
	Stage2      *Stage2Result              `json:"stage2,omitempty" yaml:"stage2,omitempty"`
	Passed      bool                       `json:"passed" yaml:"passed"`
	FilterStage string                     `json:"filter_stage,omitempty" yaml:"filter_stage,omitempty"`
}
