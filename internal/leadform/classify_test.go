package leadform

import "testing"

func TestClassifySourceWinsFirst(t *testing.T) {
	rec := &LeadRecord{Source: "readiness-assessment"}
	if got := Classify(rec); got != FormTypeAssessment {
		t.Errorf("expected assessment, got %s", got)
	}
}

func TestClassifyAssessmentMarkers(t *testing.T) {
	cases := []struct {
		name string
		rec  LeadRecord
	}{
		{"assessment version", LeadRecord{AssessmentVersion: "2"}},
		{"recommendation", LeadRecord{Recommendation: "Complete System"}},
		{"score percentage", LeadRecord{ScorePercentage: 85}},
		{"known answer key", LeadRecord{Answers: map[string]string{"crm-usage": "none"}}},
		{"rich answers", LeadRecord{AssessmentAnswers: []AssessmentAnswer{{QuestionID: "q1", Answer: "a"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(&tc.rec); got != FormTypeAssessment {
				t.Errorf("expected assessment, got %s", got)
			}
		})
	}
}

func TestClassifyDefaultsToGetStarted(t *testing.T) {
	cases := []struct {
		name string
		rec  *LeadRecord
	}{
		{"empty record", &LeadRecord{}},
		{"nil record", nil},
		{"unknown answer keys only", &LeadRecord{Answers: map[string]string{"favorite-color": "blue"}}},
		{"get-started fields", &LeadRecord{SelectedPlan: "complete-system", MonthlyLeads: "500+"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.rec); got != FormTypeGetStarted {
				t.Errorf("expected get-started, got %s", got)
			}
		})
	}
}

// Classification is total: whatever the input, the result is one of the two
// known form types.
func TestClassifyTotality(t *testing.T) {
	records := []*LeadRecord{
		nil,
		{},
		{Source: "something-else"},
		{Answers: map[string]string{}},
		{ScorePercentage: -5},
	}
	for _, rec := range records {
		got := Classify(rec)
		if got != FormTypeAssessment && got != FormTypeGetStarted {
			t.Fatalf("classify returned unknown form type %q", got)
		}
	}
}
