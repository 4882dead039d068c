package leadform

import "math"

// Quality thresholds. The historical code base carried a second 60/80 pair
// under a "qualification status" name; 50/75 is the canonical set here and
// the other is intentionally not implemented.
const (
	hotThreshold  = 75
	warmThreshold = 50
)

// Bonus points for high-intent assessment answers.
const (
	bonusEnterpriseBudget = 5
	bonusImmediateTime    = 5
	bonusDecisionMaker    = 5
)

// planBaseScores seeds the get-started score from the selected plan tier.
var planBaseScores = map[string]int{
	"complete-system": 60,
	"growth-engine":   50,
	"content-engine":  45,
	"starter":         35,
}

// monthlyLeadsBonuses rewards existing lead volume. Keys follow the form's
// select options across revisions.
var monthlyLeadsBonuses = map[string]int{
	"500+":    15,
	"201-500": 12,
	"100-500": 12,
	"51-200":  8,
	"1-50":    4,
	"under-50": 4,
}

var teamSizeBonuses = map[string]int{
	"10+":  10,
	"6-10": 8,
	"2-5":  5,
	"solo": 2,
	"1":    2,
}

// Score computes the 0-100 lead score for a record under the given form
// type. Pure function of its inputs; calling it twice always yields the same
// integer.
func Score(rec *LeadRecord, formType FormType) int {
	if rec == nil {
		return 0
	}
	if formType == FormTypeAssessment {
		return clampScore(scoreAssessment(rec))
	}
	return clampScore(scoreGetStarted(rec))
}

// QualityFor buckets a numeric score. Monotone: a higher score never lands in
// a colder bucket.
func QualityFor(score int) Quality {
	switch {
	case score >= hotThreshold:
		return QualityHot
	case score >= warmThreshold:
		return QualityWarm
	default:
		return QualityCold
	}
}

func scoreAssessment(rec *LeadRecord) int {
	base := rec.ScorePercentage
	if base <= 0 && rec.MaxPossibleScore > 0 {
		base = 100 * rec.TotalScore / rec.MaxPossibleScore
	}
	score := int(math.Round(base))

	if rec.Answers["budget"] == "enterprise" {
		score += bonusEnterpriseBudget
	}
	if rec.Answers["timeline"] == "immediate" {
		score += bonusImmediateTime
	}
	if rec.Answers["decision-maker"] == "yes" {
		score += bonusDecisionMaker
	}
	return score
}

func scoreGetStarted(rec *LeadRecord) int {
	score, ok := planBaseScores[rec.SelectedPlan]
	if !ok {
		if rec.SelectedPlan != "" {
			score = 40
		} else {
			score = 25
		}
	}

	if bonus, ok := monthlyLeadsBonuses[rec.MonthlyLeads]; ok {
		score += bonus
	} else if rec.MonthlyLeads != "" {
		score += 4
	}

	if bonus, ok := teamSizeBonuses[rec.TeamSize]; ok {
		score += bonus
	} else if rec.TeamSize != "" {
		score += 2
	}

	if len(rec.CurrentTools) > 0 {
		score += 5
	}
	if len(rec.ContentGoals) > 0 {
		score += 5
	}
	if len(rec.Integrations) > 0 {
		score += 3
	}
	if rec.BusinessName != "" {
		score += 3
	}
	if rec.BusinessType != "" {
		score += 2
	}
	if rec.BiggestChallenge != "" {
		score += 2
	}
	return score
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
