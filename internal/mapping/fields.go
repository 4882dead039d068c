package mapping

import (
	"github.com/contentflowhq/lead-pipeline/internal/fieldsync"
	"github.com/contentflowhq/lead-pipeline/internal/leadform"
)

// Transform names how an internal value becomes the remote string.
type Transform string

const (
	// TransformText passes the trimmed string through.
	TransformText Transform = "text"
	// TransformJoin renders a list as comma-and-space joined text. Plain
	// text remote fields must never receive JSON array syntax.
	TransformJoin Transform = "join"
	// TransformLabel relabels an enum short code to its human-readable
	// form, falling back to the raw value.
	TransformLabel Transform = "label"
	// TransformNumber renders a number as a decimal string, omitting zero.
	TransformNumber Transform = "number"
	// TransformScore renders a derived integer score, zero included.
	TransformScore Transform = "score"
	// TransformJSON serializes a composite value as JSON text, truncated
	// to the remote field size cap.
	TransformJSON Transform = "json"
	// TransformDate renders a timestamp as RFC3339.
	TransformDate Transform = "date"
)

// Internal field names used by mapping rules.
const (
	FieldBusinessName      = "businessName"
	FieldBusinessType      = "businessType"
	FieldContentGoals      = "contentGoals"
	FieldIntegrations      = "integrations"
	FieldMonthlyLeads      = "monthlyLeads"
	FieldTeamSize          = "teamSize"
	FieldCurrentTools      = "currentTools"
	FieldBiggestChallenge  = "biggestChallenge"
	FieldSelectedPlan      = "selectedPlan"
	FieldLeadScore         = "leadScore"
	FieldLeadQuality       = "leadQuality"
	FieldFormType          = "formType"
	FieldSubmissionDate    = "submissionDate"
	FieldReadinessLevel    = "readinessLevel"
	FieldRecommendation    = "recommendation"
	FieldScorePercentage   = "scorePercentage"
	FieldAssessmentAnswers = "assessmentAnswers"
)

// Rule maps one internal field onto a canonical remote field key. Forms
// limits a rule to one form type; empty applies to both.
type Rule struct {
	Field     string
	RemoteKey string
	Transform Transform
	Forms     leadform.FormType
}

// Mapping table versions. Scoring and mapping rules evolve; old callers keep
// the table revision they shipped against instead of forking the handler.
const (
	VersionV1 = "v1"
	VersionV2 = "v2"

	DefaultVersion = VersionV2
)

var rulesV1 = []Rule{
	{Field: FieldBusinessName, RemoteKey: "business_name", Transform: TransformText},
	{Field: FieldBusinessType, RemoteKey: "business_type", Transform: TransformLabel},
	{Field: FieldContentGoals, RemoteKey: "content_goals", Transform: TransformJoin},
	{Field: FieldIntegrations, RemoteKey: "integrations", Transform: TransformJoin},
	{Field: FieldMonthlyLeads, RemoteKey: "monthly_leads", Transform: TransformText},
	{Field: FieldTeamSize, RemoteKey: "team_size", Transform: TransformText},
	{Field: FieldCurrentTools, RemoteKey: "current_tools", Transform: TransformJoin},
	{Field: FieldBiggestChallenge, RemoteKey: "biggest_challenge", Transform: TransformText},
	{Field: FieldSelectedPlan, RemoteKey: "selected_plan", Transform: TransformLabel},
	{Field: FieldLeadScore, RemoteKey: "lead_score", Transform: TransformScore},
	{Field: FieldLeadQuality, RemoteKey: "lead_quality", Transform: TransformText},
	{Field: FieldSubmissionDate, RemoteKey: "submission_date", Transform: TransformDate},
}

// v2 adds the assessment funnel fields.
var rulesV2 = append(append([]Rule{}, rulesV1...),
	Rule{Field: FieldFormType, RemoteKey: "form_type", Transform: TransformText},
	Rule{Field: FieldReadinessLevel, RemoteKey: "readiness_level", Transform: TransformText, Forms: leadform.FormTypeAssessment},
	Rule{Field: FieldRecommendation, RemoteKey: "recommendation", Transform: TransformText, Forms: leadform.FormTypeAssessment},
	Rule{Field: FieldScorePercentage, RemoteKey: "assessment_score", Transform: TransformNumber, Forms: leadform.FormTypeAssessment},
	Rule{Field: FieldAssessmentAnswers, RemoteKey: "assessment_answers", Transform: TransformJSON, Forms: leadform.FormTypeAssessment},
)

var rulesByVersion = map[string][]Rule{
	VersionV1: rulesV1,
	VersionV2: rulesV2,
}

// Rules returns the mapping table for a version, defaulting to the newest
// when the version is unknown or empty.
func Rules(version string) []Rule {
	if rules, ok := rulesByVersion[version]; ok {
		return rules
	}
	return rulesByVersion[DefaultVersion]
}

// fieldDefs names and types every canonical remote field this system owns.
var fieldDefs = map[string]struct {
	Name     string
	DataType string
}{
	"business_name":      {"Business Name", "TEXT"},
	"business_type":      {"Business Type", "TEXT"},
	"content_goals":      {"Content Goals", "TEXT"},
	"integrations":       {"Integrations", "TEXT"},
	"monthly_leads":      {"Monthly Leads", "TEXT"},
	"team_size":          {"Team Size", "TEXT"},
	"current_tools":      {"Current Tools", "TEXT"},
	"biggest_challenge":  {"Biggest Challenge", "TEXT"},
	"selected_plan":      {"Selected Plan", "TEXT"},
	"lead_score":         {"Lead Score", "NUMERICAL"},
	"lead_quality":       {"Lead Quality", "TEXT"},
	"form_type":          {"Form Type", "TEXT"},
	"submission_date":    {"Submission Date", "TEXT"},
	"readiness_level":    {"Readiness Level", "TEXT"},
	"recommendation":     {"Recommendation", "TEXT"},
	"assessment_score":   {"Assessment Score", "NUMERICAL"},
	"assessment_answers": {"Assessment Answers", "LARGE_TEXT"},
}

// RequiredFields lists the remote fields the resolver must guarantee for a
// mapping table version.
func RequiredFields(version string) []fieldsync.FieldSpec {
	rules := Rules(version)
	specs := make([]fieldsync.FieldSpec, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	for _, rule := range rules {
		if seen[rule.RemoteKey] {
			continue
		}
		seen[rule.RemoteKey] = true
		def, ok := fieldDefs[rule.RemoteKey]
		if !ok {
			continue
		}
		specs = append(specs, fieldsync.FieldSpec{
			Key:      rule.RemoteKey,
			Name:     def.Name,
			DataType: def.DataType,
		})
	}
	return specs
}
