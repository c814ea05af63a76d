package match

import (
	"cmp"
	"slices"
	"strings"
)

const (
	// DefaultSuggestScore is the minimum similarity for a name suggestion.
	DefaultSuggestScore = 0.5
	// DefaultSuggestions is the number of suggestions attached to a finding.
	DefaultSuggestions = 3

	nameWeight = 0.7
	typeWeight = 0.3
)

// typeScores weighs how well a value type fits a candidate.
var typeScores = map[TypeCompatibility]float64{
	TypeIdentical:   1.0,
	TypeAssignable:  0.9,
	TypeWidening:    0.8,
	TypeConvertible: 0.6,
	TypeLossy:       0.4,
}

// Candidate is a known name scored against a requested one.
type Candidate struct {
	Name       string
	NameScore  float64                 // normalized similarity, 0..1
	TypeCompat TypeCompatibilityResult // zero value when types are not compared

	// CombinedScore ranks candidates, higher is better.
	CombinedScore float64
}

// TypedName is a candidate name with the field type it consumes.
type TypedName struct {
	Name   string
	Compat TypeCompatibilityResult
}

// CandidateList is ranked best first.
type CandidateList []Candidate

// RankNames scores every candidate name against the requested name.
func RankNames(requested string, names []string) CandidateList {
	return rank(len(names), func(i int) Candidate {
		score := Similarity(requested, names[i])
		return Candidate{Name: names[i], NameScore: score, CombinedScore: score}
	})
}

// RankTypedNames ranks names by similarity (70%) and by how well the
// requested value type fits each candidate (30%).
func RankTypedNames(requested string, names []TypedName) CandidateList {
	return rank(len(names), func(i int) Candidate {
		n := names[i]
		score := Similarity(requested, n.Name)

		return Candidate{
			Name:          n.Name,
			NameScore:     score,
			TypeCompat:    n.Compat,
			CombinedScore: score*nameWeight + typeScores[n.Compat.Compatibility]*typeWeight,
		}
	})
}

func rank(n int, score func(int) Candidate) CandidateList {
	out := make(CandidateList, n)
	for i := range out {
		out[i] = score(i)
	}

	// ties break by name so suggestions are stable
	slices.SortFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(b.CombinedScore, a.CombinedScore); c != 0 {
			return c
		}

		return strings.Compare(a.Name, b.Name)
	})

	return out
}

// Suggest returns up to n known names close enough to requested to be
// offered as "did you mean" hints.
func Suggest(requested string, names []string, n int) []string {
	return RankNames(requested, names).AboveThreshold(DefaultSuggestScore).Top(n).Names()
}

func (c CandidateList) Top(n int) CandidateList {
	return c[:min(n, len(c))]
}

// Best returns the best candidate, or nil if there are none.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold keeps candidates whose combined score reaches threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	return slices.DeleteFunc(slices.Clone(c), func(cand Candidate) bool {
		return cand.CombinedScore < threshold
	})
}

func (c CandidateList) Names() []string {
	var names []string
	for _, cand := range c {
		names = append(names, cand.Name)
	}

	return names
}
