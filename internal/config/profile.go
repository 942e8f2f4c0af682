package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/halyard/crewfit/internal/domain/model"
	"github.com/halyard/crewfit/internal/domain/safety"
)

// LoadProfile reads a YAML job profile from path and merges it over the
// compiled-in defaults. An empty path returns the default profile for the
// position unchanged.
func LoadProfile(path, position string) (model.JobProfile, error) {
	profile := model.DefaultProfile(position)
	if path == "" {
		return profile, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return model.JobProfile{}, fmt.Errorf("%w: profile %s: %w", ErrLoadConfig, path, err)
	}
	if err := k.UnmarshalWithConf("", &profile, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return model.JobProfile{}, fmt.Errorf("%w: profile %s: %w", ErrLoadConfig, path, err)
	}

	if profile.Position == "" {
		profile.Position = position
	}
	if err := validateProfile(&profile); err != nil {
		return model.JobProfile{}, err
	}
	return profile, nil
}

// validateProfile rejects values the scoring models would silently misread.
// Rule severities are normalized to upper case so profiles can spell them
// either way.
func validateProfile(p *model.JobProfile) error {
	for i, rule := range p.VetoRules {
		sev := safety.Severity(strings.ToUpper(string(rule.Severity)))
		switch sev {
		case safety.Hard, safety.Soft, safety.Advisory:
			p.VetoRules[i].Severity = sev
		default:
			return fmt.Errorf("%w: rule %d: unknown severity %q", ErrInvalidConfig, i, rule.Severity)
		}
		if rule.Trait == "" {
			return fmt.Errorf("%w: rule %d: trait must be set", ErrInvalidConfig, i)
		}
		if rule.Steepness < 0 {
			return fmt.Errorf("%w: rule %d: steepness must not be negative", ErrInvalidConfig, i)
		}
	}

	for key, weights := range p.CompetencyWeights {
		for trait, w := range weights {
			if w < 0 {
				return fmt.Errorf("%w: competency %s: negative weight for %s", ErrInvalidConfig, key, trait)
			}
		}
	}
	for key, w := range p.GlobalFitWeights {
		if w < 0 {
			return fmt.Errorf("%w: global fit weight for %s must not be negative", ErrInvalidConfig, key)
		}
	}
	if p.SigmoidScale < 0 {
		return fmt.Errorf("%w: sigmoid_scale must not be negative", ErrInvalidConfig)
	}
	return nil
}
