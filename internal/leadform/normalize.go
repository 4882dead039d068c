package leadform

import "strings"

// Normalize coerces a loose submission payload into a canonical LeadRecord.
// It is a pure transform: no clock, no I/O. The caller stamps ID, derived
// score fields, and the submission time.
//
// Required: firstName, lastName, email non-empty after trimming. Everything
// else defaults to empty values; list-typed fields are never nil so later
// stages don't have to distinguish absent from empty.
func Normalize(p *SubmissionPayload) (*LeadRecord, error) {
	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	email := strings.TrimSpace(p.Email)

	switch {
	case first == "":
		return nil, &ValidationError{Field: "firstName"}
	case last == "":
		return nil, &ValidationError{Field: "lastName"}
	case email == "":
		return nil, &ValidationError{Field: "email"}
	}

	rec := &LeadRecord{
		First: first,
		Last:  last,
		Email: email,
		Phone: strings.TrimSpace(p.Phone),

		BusinessName: strings.TrimSpace(p.BusinessName),
		BusinessType: strings.TrimSpace(p.BusinessType),
		ContentGoals: cleanList(p.ContentGoals),
		Integrations: cleanList(p.Integrations),

		MonthlyLeads:     strings.TrimSpace(p.MonthlyLeads),
		TeamSize:         strings.TrimSpace(p.TeamSize),
		CurrentTools:     cleanList(p.CurrentTools),
		BiggestChallenge: strings.TrimSpace(p.BiggestChallenge),
		SelectedPlan:     strings.TrimSpace(p.SelectedPlan),

		Source:            strings.TrimSpace(p.Source),
		AssessmentVersion: strings.TrimSpace(p.AssessmentVersion),
		TotalScore:        float64(p.TotalScore),
		MaxPossibleScore:  float64(p.MaxPossibleScore),
		ScorePercentage:   float64(p.ScorePercentage),
		ReadinessLevel:    strings.TrimSpace(p.ReadinessLevel),
		Recommendation:    strings.TrimSpace(p.Recommendation),
	}

	// Both answer shapes are preserved: the scorer reads the flat map, the
	// field mapper serializes the richer list.
	rec.Answers = make(map[string]string, len(p.Answers))
	for k, v := range p.Answers {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		rec.Answers[k] = strings.TrimSpace(v)
	}

	rec.AssessmentAnswers = make([]AssessmentAnswer, 0, len(p.AssessmentAnswers))
	for _, a := range p.AssessmentAnswers {
		a.QuestionID = strings.TrimSpace(a.QuestionID)
		a.Answer = strings.TrimSpace(a.Answer)
		if a.QuestionID == "" && a.Answer == "" {
			continue
		}
		rec.AssessmentAnswers = append(rec.AssessmentAnswers, a)
	}

	return rec, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
