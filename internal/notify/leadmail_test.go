package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/contentflowhq/lead-pipeline/internal/leadform"
)

func TestLeadEmailGetStarted(t *testing.T) {
	rec := &leadform.LeadRecord{
		First:            "Ada",
		Last:             "Lovelace",
		Email:            "ada@example.com",
		Phone:            "+15550001111",
		BusinessName:     "Analytical Engines",
		ContentGoals:     []string{"More Leads", "Brand Awareness"},
		MonthlyLeads:     "51-200",
		SelectedPlan:     "growth-engine",
		FormType:         leadform.FormTypeGetStarted,
		LeadScore:        72,
		LeadQuality:      leadform.QualityWarm,
		SubmittedAt:      time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	msg := LeadEmail(rec, []string{"ops@example.com"}, "CRM sync unavailable")

	assert.Equal(t, []string{"ops@example.com"}, msg.To)
	assert.Equal(t, "New get-started lead: Ada Lovelace (warm, score 72)", msg.Subject)
	assert.Contains(t, msg.Body, "Email: ada@example.com")
	assert.Contains(t, msg.Body, "Phone: +15550001111")
	assert.Contains(t, msg.Body, "Content Goals: More Leads, Brand Awareness")
	assert.Contains(t, msg.Body, "Score: 72 (warm)")
	assert.Contains(t, msg.Body, "Note: CRM sync unavailable")
	// Empty fields stay out of the body entirely.
	assert.NotContains(t, msg.Body, "Business Type:")
	assert.NotContains(t, msg.Body, "Readiness:")
}

func TestLeadEmailAssessmentAnswers(t *testing.T) {
	rec := &leadform.LeadRecord{
		First:           "Grace",
		Last:            "Hopper",
		Email:           "grace@example.com",
		FormType:        leadform.FormTypeAssessment,
		LeadScore:       88,
		LeadQuality:     leadform.QualityHot,
		ScorePercentage: 88,
		ReadinessLevel:  "ready",
		AssessmentAnswers: []leadform.AssessmentAnswer{
			{QuestionID: "current-content", Question: "How often do you publish?", Answer: "weekly"},
			{QuestionID: "budget", Answer: "enterprise"},
		},
	}

	msg := LeadEmail(rec, []string{"ops@example.com"}, "")

	assert.Contains(t, msg.Body, "Assessment Score: 88%")
	assert.Contains(t, msg.Body, "How often do you publish?: weekly")
	// Entries without a question text fall back to the question id.
	assert.Contains(t, msg.Body, "budget: enterprise")
	assert.False(t, strings.Contains(msg.Body, "Note:"))
}

func TestLeadEmailFlatAnswers(t *testing.T) {
	rec := &leadform.LeadRecord{
		First:       "Alan",
		Last:        "Turing",
		Email:       "alan@example.com",
		FormType:    leadform.FormTypeAssessment,
		LeadQuality: leadform.QualityCold,
		Answers:     map[string]string{"crm-usage": "none"},
	}

	msg := LeadEmail(rec, []string{"ops@example.com"}, "")
	assert.Contains(t, msg.Body, "crm-usage: none")
}
