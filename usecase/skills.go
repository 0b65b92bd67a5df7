package usecase

import (
	"math"
	"strings"
)

const (
	requiredSkillsWeight  = 0.7
	preferredSkillsWeight = 0.3
)

// SkillsMatchScore rates how well an applicant's skills cover a job's skill
// lists on a 0-100 scale, weighting required skills 70/30 over preferred ones.
// An applicant with no skills scores 0; a job without skill lists scores 100.
func SkillsMatchScore(applicantSkills, required, preferred []string) int {
	if len(applicantSkills) == 0 {
		return 0
	}
	if len(required) == 0 && len(preferred) == 0 {
		return 100
	}

	have := skillSet(applicantSkills)

	requiredScore := requiredSkillsWeight
	if len(required) > 0 {
		requiredScore = float64(countMatches(have, required)) / float64(len(required)) * requiredSkillsWeight
	}
	preferredScore := preferredSkillsWeight
	if len(preferred) > 0 {
		preferredScore = float64(countMatches(have, preferred)) / float64(len(preferred)) * preferredSkillsWeight
	}

	return int(math.Round((requiredScore + preferredScore) * 100))
}

func normalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

func skillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if n := normalizeSkill(s); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func countMatches(have map[string]struct{}, wanted []string) int {
	n := 0
	for _, w := range wanted {
		if _, ok := have[normalizeSkill(w)]; ok {
			n++
		}
	}
	return n
}

// skillsInText returns the skills that occur in text, ignoring case.
func skillsInText(skills []string, text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, s := range skills {
		if n := normalizeSkill(s); n != "" && strings.Contains(lower, n) {
			found = append(found, s)
		}
	}
	return found
}
