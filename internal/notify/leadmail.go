package notify

import (
	"fmt"
	"strings"

	"github.com/contentflowhq/lead-pipeline/internal/leadform"
)

// LeadEmail builds the operator notification for a captured lead. It is the
// delivery path of record whenever the CRM sync is unavailable, so every
// field the lead submitted has to survive into the body.
func LeadEmail(rec *leadform.LeadRecord, to []string, syncNote string) EmailMessage {
	subject := fmt.Sprintf("New %s lead: %s (%s, score %d)",
		rec.FormType, rec.FullName(), rec.LeadQuality, rec.LeadScore)

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", rec.FullName())
	fmt.Fprintf(&b, "Email: %s\n", rec.Email)
	if rec.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", rec.Phone)
	}
	fmt.Fprintf(&b, "Form: %s\n", rec.FormType)
	fmt.Fprintf(&b, "Score: %d (%s)\n", rec.LeadScore, rec.LeadQuality)

	appendLine(&b, "Business", rec.BusinessName)
	appendLine(&b, "Business Type", rec.BusinessType)
	appendList(&b, "Content Goals", rec.ContentGoals)
	appendList(&b, "Integrations", rec.Integrations)
	appendLine(&b, "Monthly Leads", rec.MonthlyLeads)
	appendLine(&b, "Team Size", rec.TeamSize)
	appendList(&b, "Current Tools", rec.CurrentTools)
	appendLine(&b, "Biggest Challenge", rec.BiggestChallenge)
	appendLine(&b, "Selected Plan", rec.SelectedPlan)
	appendLine(&b, "Readiness", rec.ReadinessLevel)
	appendLine(&b, "Recommendation", rec.Recommendation)
	if rec.ScorePercentage > 0 {
		fmt.Fprintf(&b, "Assessment Score: %.0f%%\n", rec.ScorePercentage)
	}

	if len(rec.AssessmentAnswers) > 0 {
		b.WriteString("\nAssessment Answers:\n")
		for _, a := range rec.AssessmentAnswers {
			label := a.Question
			if label == "" {
				label = a.QuestionID
			}
			fmt.Fprintf(&b, "  %s: %s\n", label, a.Answer)
		}
	} else if len(rec.Answers) > 0 {
		b.WriteString("\nAnswers:\n")
		for q, a := range rec.Answers {
			fmt.Fprintf(&b, "  %s: %s\n", q, a)
		}
	}

	if !rec.SubmittedAt.IsZero() {
		fmt.Fprintf(&b, "\nSubmitted: %s\n", rec.SubmittedAt.UTC().Format("January 2, 2006 at 3:04 PM MST"))
	}
	if syncNote != "" {
		fmt.Fprintf(&b, "\nNote: %s\n", syncNote)
	}

	return EmailMessage{
		To:      to,
		Subject: subject,
		Body:    b.String(),
	}
}

func appendLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func appendList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(values, ", "))
}
