package leadform

// assessmentAnswerKeys are question ids only the readiness assessment asks.
// Seeing any of them in the flat answers map marks the submission as an
// assessment even when every explicit marker is missing.
var assessmentAnswerKeys = []string{
	"current-content",
	"content-volume",
	"crm-usage",
	"lead-response",
	"time-spent",
	"budget",
}

// Classify decides which funnel a normalized record came from. The signal
// order matters: signals co-occur on hybrid/legacy payloads and the first
// match wins. Total function, defaults to get-started.
func Classify(rec *LeadRecord) FormType {
	if rec == nil {
		return FormTypeGetStarted
	}
	if rec.Source == "readiness-assessment" {
		return FormTypeAssessment
	}
	if rec.AssessmentVersion != "" || rec.Recommendation != "" || rec.ScorePercentage > 0 {
		return FormTypeAssessment
	}
	for _, key := range assessmentAnswerKeys {
		if _, ok := rec.Answers[key]; ok {
			return FormTypeAssessment
		}
	}
	if len(rec.AssessmentAnswers) > 0 {
		return FormTypeAssessment
	}
	return FormTypeGetStarted
}
