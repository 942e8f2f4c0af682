// gen-roster emits a synthetic hiring-round roster for exercising the
// pipeline: a candidate pool drawn from weighted archetypes plus a plausible
// team context.
package main

import (
	"crypto/rand"
	"flag"
	"math/big"
	"os"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/halyard/crewfit/internal/domain/traits"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	archetypeDivisor   = 8
)

// Trait ranges per archetype band.
const (
	strongMin = 70.0
	strongRng = 25.0
	midMin    = 40.0
	midRng    = 30.0
	weakMin   = 5.0
	weakRng   = 25.0
	fullMin   = 1.0
	fullRng   = 98.0
)

// Archetype cases, weighted by the draw below.
const (
	caseSteadyHand = iota // dependable mid-career profile, most common
	caseHighFlyer         // strong cognition and openness
	caseVolatile          // low emotional stability, may trip the barrier
	caseLoner             // low agreeableness
	caseDrifter           // low integrity, may trip the barrier
	caseGeneralist        // mid everything
	casePartial           // solid profile with unmeasured traits
	caseWildcard          // uniform across the full range
)

type candidateDoc struct {
	ID     string             `yaml:"id"`
	Name   string             `yaml:"name"`
	Traits map[string]float64 `yaml:"traits"`
}

type memberDoc struct {
	Name   string             `yaml:"name"`
	Traits map[string]float64 `yaml:"traits"`
}

type vectorDoc struct {
	Autonomy  float64 `yaml:"autonomy"`
	Feedback  float64 `yaml:"feedback"`
	Structure float64 `yaml:"structure"`
}

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
		Leader vectorDoc `yaml:"leader"`
	} `yaml:"team"`
}

func main() {
	var (
		numCandidates = flag.Int("candidates", 20, "Number of candidates to generate")
		numMembers    = flag.Int("members", 4, "Number of incumbent crew members")
		position      = flag.String("position", "deckhand", "Position the round hires for")
		outputFile    = flag.String("output", "", "Output file (default: stdout)")
	)
	flag.Parse()

	doc := rosterDoc{
		BatchID:  uuid.New().String(),
		Position: *position,
	}

	for i := 0; i < *numCandidates; i++ {
		doc.Candidates = append(doc.Candidates, candidateDoc{
			ID:     uuid.New().String(),
			Name:   "candidate-" + strconv.Itoa(i),
			Traits: generateTraits(),
		})
	}

	for i := 0; i < *numMembers; i++ {
		doc.Team.Members = append(doc.Team.Members, memberDoc{
			Name:   "crew-" + strconv.Itoa(i),
			Traits: bandedTraits(midMin, midRng),
		})
	}
	doc.Team.Environment.Resources = map[string]float64{
		"compensation_index":  0.4 + randomFloat()*0.5,
		"rest_ratio":          0.3 + randomFloat()*0.5,
		"private_space_ratio": 0.2 + randomFloat()*0.5,
	}
	doc.Team.Environment.Demands = map[string]float64{
		"workload_intensity":   0.4 + randomFloat()*0.5,
		"supervisory_pressure": 0.2 + randomFloat()*0.5,
	}
	doc.Team.Leader = vectorDoc{
		Autonomy:  randomFloat(),
		Feedback:  randomFloat(),
		Structure: randomFloat(),
	}

	out := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			os.Stderr.WriteString("failed to create output file: " + err.Error() + "\n")
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	enc := yaml.NewEncoder(out)
	defer enc.Close()
	if err := enc.Encode(doc); err != nil {
		os.Stderr.WriteString("failed to encode roster: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// randomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// band draws one trait value from [min, min+rng].
func band(min, rng float64) float64 {
	return min + randomFloat()*rng
}

// allTraits lists every measured trait a full profile carries. Emotional
// stability is left out: snapshots derive it from neuroticism.
func allTraits() []string {
	return []string{
		traits.CognitiveAbility,
		traits.Conscientiousness,
		traits.Agreeableness,
		traits.Neuroticism,
		traits.Extraversion,
		traits.Openness,
		traits.Integrity,
		traits.Resilience,
	}
}

// bandedTraits builds a full profile drawn uniformly from one band.
func bandedTraits(min, rng float64) map[string]float64 {
	m := make(map[string]float64)
	for _, name := range allTraits() {
		m[name] = band(min, rng)
	}
	return m
}

// generateTraits draws one candidate profile from a weighted archetype so a
// generated pool has the spread a real applicant pool shows: mostly solid
// profiles, a few standouts, and a few that should trip the safety barrier.
func generateTraits() map[string]float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(archetypeDivisor))
	switch n.Int64() {
	case caseSteadyHand:
		m := bandedTraits(midMin, midRng)
		m[traits.Conscientiousness] = band(strongMin, strongRng)
		m[traits.Agreeableness] = band(strongMin, strongRng)
		m[traits.Neuroticism] = band(weakMin, weakRng)
		return m
	case caseHighFlyer:
		m := bandedTraits(midMin, midRng)
		m[traits.CognitiveAbility] = band(strongMin, strongRng)
		m[traits.Openness] = band(strongMin, strongRng)
		return m
	case caseVolatile:
		m := bandedTraits(midMin, midRng)
		m[traits.Neuroticism] = band(80, 19)
		return m
	case caseLoner:
		m := bandedTraits(midMin, midRng)
		m[traits.Agreeableness] = band(weakMin, weakRng)
		return m
	case caseDrifter:
		m := bandedTraits(midMin, midRng)
		m[traits.Integrity] = band(weakMin, weakRng)
		return m
	case caseGeneralist:
		return bandedTraits(midMin, midRng)
	case casePartial:
		m := bandedTraits(midMin, midRng)
		// Drop two traits so data-quality degradation paths get exercised.
		delete(m, traits.Resilience)
		delete(m, traits.Extraversion)
		return m
	default: // caseWildcard
		return bandedTraits(fullMin, fullRng)
	}
}
