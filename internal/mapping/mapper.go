package mapping

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/contentflowhq/lead-pipeline/internal/fieldsync"
	"github.com/contentflowhq/lead-pipeline/internal/leadform"
)

// maxCompositeLen caps serialized composite values. Remote text fields
// silently reject bodies past this size.
const maxCompositeLen = 5000

// MappedField is one resolved custom-field value ready for the upsert call.
type MappedField struct {
	RemoteFieldID string
	Key           string
	Value         string
}

// Map renders a lead record into remote custom-field values using the given
// mapping table version. Fields whose source value is empty are omitted
// entirely; a key the catalog could not resolve is skipped and reported in
// the returned diagnostics so one missing remote field never blocks the rest.
func Map(rec *leadform.LeadRecord, catalog fieldsync.ResolvedCatalog, version string) ([]MappedField, []string) {
	if rec == nil {
		return nil, nil
	}
	rules := Rules(version)
	mapped := make([]MappedField, 0, len(rules))
	var skipped []string
	for _, rule := range rules {
		if rule.Forms != "" && rule.Forms != rec.FormType {
			continue
		}
		value, ok := render(rec, rule)
		if !ok {
			continue
		}
		remote, found := catalog[rule.RemoteKey]
		if !found || remote.ID == "" {
			skipped = append(skipped, rule.RemoteKey)
			continue
		}
		mapped = append(mapped, MappedField{
			RemoteFieldID: remote.ID,
			Key:           rule.RemoteKey,
			Value:         value,
		})
	}
	return mapped, skipped
}

// render produces the remote string for one rule. The second return reports
// whether the source value is present; absent values are never sent.
func render(rec *leadform.LeadRecord, rule Rule) (string, bool) {
	switch rule.Transform {
	case TransformJoin:
		return renderJoin(listValue(rec, rule.Field))
	case TransformLabel:
		raw := strings.TrimSpace(stringValue(rec, rule.Field))
		if raw == "" {
			return "", false
		}
		return labelFor(rule.Field, raw), true
	case TransformNumber:
		v := numberValue(rec, rule.Field)
		if v <= 0 {
			return "", false
		}
		return strconv.Itoa(int(v + 0.5)), true
	case TransformScore:
		return strconv.Itoa(rec.LeadScore), true
	case TransformJSON:
		return renderAnswersJSON(rec)
	case TransformDate:
		if rec.SubmittedAt.IsZero() {
			return "", false
		}
		return rec.SubmittedAt.UTC().Format(time.RFC3339), true
	default:
		raw := strings.TrimSpace(stringValue(rec, rule.Field))
		return raw, raw != ""
	}
}

func renderJoin(values []string) (string, bool) {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", "), true
}

// renderAnswersJSON serializes whichever answer shape the submission carried,
// preferring the richer per-question list.
func renderAnswersJSON(rec *leadform.LeadRecord) (string, bool) {
	var payload any
	switch {
	case len(rec.AssessmentAnswers) > 0:
		payload = rec.AssessmentAnswers
	case len(rec.Answers) > 0:
		payload = rec.Answers
	default:
		return "", false
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", false
	}
	return truncate(string(raw), maxCompositeLen), true
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func stringValue(rec *leadform.LeadRecord, field string) string {
	switch field {
	case FieldBusinessName:
		return rec.BusinessName
	case FieldBusinessType:
		return rec.BusinessType
	case FieldMonthlyLeads:
		return rec.MonthlyLeads
	case FieldTeamSize:
		return rec.TeamSize
	case FieldBiggestChallenge:
		return rec.BiggestChallenge
	case FieldSelectedPlan:
		return rec.SelectedPlan
	case FieldLeadQuality:
		return string(rec.LeadQuality)
	case FieldFormType:
		return string(rec.FormType)
	case FieldReadinessLevel:
		return rec.ReadinessLevel
	case FieldRecommendation:
		return rec.Recommendation
	default:
		return ""
	}
}

func listValue(rec *leadform.LeadRecord, field string) []string {
	switch field {
	case FieldContentGoals:
		return rec.ContentGoals
	case FieldIntegrations:
		return rec.Integrations
	case FieldCurrentTools:
		return rec.CurrentTools
	default:
		return nil
	}
}

func numberValue(rec *leadform.LeadRecord, field string) float64 {
	switch field {
	case FieldScorePercentage:
		if rec.ScorePercentage > 0 {
			return rec.ScorePercentage
		}
		if rec.MaxPossibleScore > 0 {
			return 100 * rec.TotalScore / rec.MaxPossibleScore
		}
		return 0
	default:
		return 0
	}
}
