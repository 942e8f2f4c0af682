package service

import (
	"context"

	"github.com/halyard/crewfit/internal/domain/competency"
	"github.com/halyard/crewfit/internal/domain/contextual"
	"github.com/halyard/crewfit/internal/domain/globalfit"
	"github.com/halyard/crewfit/internal/domain/model"
	"github.com/halyard/crewfit/internal/domain/safety"
	"github.com/halyard/crewfit/pkg/metrics"
)

// stage1Evaluator implements worker.Evaluator: the normative gate run for
// every candidate independently.
type stage1Evaluator struct{}

// EvaluateStage1 scores every competency, evaluates the safety barrier, and
// aggregates the global fit for one candidate.
func (stage1Evaluator) EvaluateStage1(_ context.Context, job model.EvaluationJob) model.Stage1Result {
	candidate := job.Candidate

	position := candidate.Position
	if position == "" {
		position = job.Profile.Position
	}

	scores := competency.ScoreAll(candidate.Traits, job.Profile.Competencies())
	barrier := safety.Evaluate(candidate.Traits, job.Profile.Rules(), position)
	fit := globalfit.Aggregate(scores, job.Profile.GlobalFitWeights, barrier)

	return model.Stage1Result{
		CandidateID: candidate.ID,
		Competency:  scores,
		Safety:      barrier,
		GlobalFit:   fit,
	}
}

// neutralPrediction is the LOW-confidence placeholder published when a
// candidate's Stage-2 computation fails. The candidate keeps its Stage-1
// pass; only the contextual prediction is marked unavailable.
func neutralPrediction() contextual.Prediction {
	return contextual.Prediction{
		Linear:  50,
		Score:   50,
		Quality: 0,
		Flags:   []string{"stage2_unavailable"},
	}
}

// Stage2Evaluator computes the contextual gate for one candidate against the
// batch's team, environment, and leader.
type Stage2Evaluator interface {
	EvaluateStage2(ctx context.Context, batch model.Batch, candidate model.Candidate, profile model.JobProfile) model.Stage2Result
}

// contextualEvaluator is the production Stage2Evaluator backed by the four
// contextual sub-models and the integration predictor.
type contextualEvaluator struct{}

func (contextualEvaluator) EvaluateStage2(_ context.Context, batch model.Batch, candidate model.Candidate, profile model.JobProfile) model.Stage2Result {
	perf := contextual.Performance(candidate.Traits, profile.PerformanceWeights)
	team := contextual.TeamCompatibility(batch.Team.Members, profile.TeamWeights)
	delta := contextual.TeamDeltaFor(batch.Team.Members, candidate.Traits, profile.TeamWeights)
	env := contextual.EnvironmentFit(batch.Team.Environment.Resources, batch.Team.Environment.Demands, candidate.Traits)
	lead := contextual.LeadershipFit(batch.Team.Leader, candidate.Preferences, candidate.Traits)
	pred := contextual.Predict(perf, team, env, lead.Detail, profile.Betas, profile.SigmoidScale)

	return model.Stage2Result{
		Performance: perf,
		Team:        team,
		Environment: env,
		Leadership:  lead,
		TeamDelta:   delta,
		Prediction:  pred,
		Available:   true,
	}
}

// stage2For runs the contextual gate for one candidate. A failure is scoped
// to this candidate: the recovery path returns the placeholder instead of
// letting the batch abort.
func stage2For(ctx context.Context, eval Stage2Evaluator, batch model.Batch, candidate model.Candidate, profile model.JobProfile) (result model.Stage2Result) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordStage2Failure()
			result = model.Stage2Result{
				Prediction: neutralPrediction(),
				Available:  false,
			}
		}
	}()
	return eval.EvaluateStage2(ctx, batch, candidate, profile)
}
