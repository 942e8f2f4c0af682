// Package roster parses the hiring-round input file: the candidate pool plus
// the team context they are scored against.
package roster

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/halyard/crewfit/internal/domain/contextual"
	"github.com/halyard/crewfit/internal/domain/model"
	"github.com/halyard/crewfit/internal/domain/traits"
)

// ErrInvalidRoster is returned when the roster file cannot be used.
var ErrInvalidRoster = errors.New("invalid roster")

// candidateDoc is the YAML shape of one applicant.
type candidateDoc struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	Position     string             `yaml:"position"`
	Completeness *float64           `yaml:"completeness"`
	Traits       map[string]float64 `yaml:"traits"`
	Preferences  *contextual.Vector `yaml:"preferences"`
}

// memberDoc is the YAML shape of one incumbent crew member.
type memberDoc struct {
	Name   string             `yaml:"name"`
	Traits map[string]float64 `yaml:"traits"`
}

// rosterDoc is the YAML shape of a full hiring round.
type rosterDoc struct {
	BatchID    string         `yaml:"batch_id"`
	Position   string         `yaml:"position"`
	Candidates []candidateDoc `yaml:"candidates"`
	Team       struct {
		Members     []memberDoc `yaml:"members"`
		Environment struct {
			Resources map[string]float64 `yaml:"resources"`
			Demands   map[string]float64 `yaml:"demands"`
		} `yaml:"environment"`
		Leader contextual.Vector `yaml:"leader"`
	} `yaml:"team"`
}

// LoadFile reads and parses a roster YAML file.
func LoadFile(path string) (model.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Batch{}, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a roster document into a batch ready for scoring.
func Parse(r io.Reader) (model.Batch, error) {
	var doc rosterDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return model.Batch{}, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}

	if len(doc.Candidates) == 0 {
		return model.Batch{}, fmt.Errorf("%w: no candidates", ErrInvalidRoster)
	}

	batch := model.Batch{
		ID:         doc.BatchID,
		Position:   doc.Position,
		Candidates: make([]model.Candidate, 0, len(doc.Candidates)),
	}

	for i, c := range doc.Candidates {
		if c.ID == "" {
			return model.Batch{}, fmt.Errorf("%w: candidate %d has no id", ErrInvalidRoster, i)
		}
		var opts []traits.Option
		if c.Completeness != nil {
			opts = append(opts, traits.WithCompleteness(*c.Completeness))
		}
		batch.Candidates = append(batch.Candidates, model.Candidate{
			ID:          c.ID,
			Name:        c.Name,
			Position:    c.Position,
			Traits:      traits.NewSnapshot(c.Traits, opts...),
			Preferences: c.Preferences,
		})
	}

	for _, m := range doc.Team.Members {
		batch.Team.Members = append(batch.Team.Members, traits.NewSnapshot(m.Traits))
	}
	batch.Team.Environment = model.EnvironmentContext{
		Resources: doc.Team.Environment.Resources,
		Demands:   doc.Team.Environment.Demands,
	}
	batch.Team.Leader = doc.Team.Leader

	return batch, nil
}
