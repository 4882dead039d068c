package leadform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormType identifies which funnel produced a submission.
type FormType string

const (
	FormTypeAssessment FormType = "assessment"
	FormTypeGetStarted FormType = "get-started"
)

// Quality is the coarse lead-quality bucket derived from the numeric score.
type Quality string

const (
	QualityHot  Quality = "hot"
	QualityWarm Quality = "warm"
	QualityCold Quality = "cold"
)

// StringList decodes a JSON array of strings, a comma-separated string, a
// single scalar, or null. Browser clients have shipped all four shapes for
// the same field.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if data[0] == '[' {
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if entry := strings.TrimSpace(scalarString(v)); entry != "" {
				out = append(out, entry)
			}
		}
		*s = out
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = splitList(raw)
		return nil
	}
	// Bare scalar (number, bool). Keep it as a single entry.
	*s = []string{string(data)}
	return nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FlexNumber decodes a JSON number or a numeric string. Anything else decodes
// to zero rather than failing the whole submission.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
		if raw == "" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = FlexNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*n = 0
		return nil
	}
	*n = FlexNumber(v)
	return nil
}

// AnswerMap decodes the flat question-id → answer object, coercing scalar
// answer values to strings.
type AnswerMap map[string]string

func (m *AnswerMap) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = nil
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = strings.TrimSpace(scalarString(v))
	}
	*m = out
	return nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// AssessmentAnswer is one entry of the richer per-question answer list.
type AssessmentAnswer struct {
	QuestionID string     `json:"questionId"`
	Category   string     `json:"category,omitempty"`
	Question   string     `json:"question,omitempty"`
	Answer     string     `json:"answer"`
	Score      FlexNumber `json:"score,omitempty"`
}

// SubmissionPayload is the loose JSON body posted by the marketing site.
// Multiple historical form versions feed the same endpoint, so every field is
// optional at the decoding layer; Normalize enforces the real requirements.
type SubmissionPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	BusinessName string     `json:"businessName"`
	BusinessType string     `json:"businessType"`
	ContentGoals StringList `json:"contentGoals"`
	Integrations StringList `json:"integrations"`

	MonthlyLeads     string     `json:"monthlyLeads"`
	TeamSize         string     `json:"teamSize"`
	CurrentTools     StringList `json:"currentTools"`
	BiggestChallenge string     `json:"biggestChallenge"`
	SelectedPlan     string     `json:"selectedPlan"`

	Source            string             `json:"source"`
	AssessmentVersion string             `json:"assessmentVersion"`
	Answers           AnswerMap          `json:"answers"`
	AssessmentAnswers []AssessmentAnswer `json:"assessmentAnswers"`
	TotalScore        FlexNumber         `json:"totalScore"`
	MaxPossibleScore  FlexNumber         `json:"maxPossibleScore"`
	ScorePercentage   FlexNumber         `json:"scorePercentage"`
	ReadinessLevel    string             `json:"readinessLevel"`
	Recommendation    string             `json:"recommendation"`

	// Client-computed score fields. Logged for drift comparison, never
	// trusted; the server recomputes both.
	ClientLeadScore   FlexNumber `json:"leadScore"`
	ClientLeadQuality string     `json:"leadQuality"`
}

// LeadRecord is the canonical in-memory lead produced by Normalize.
type LeadRecord struct {
	ID    string `json:"id,omitempty"`
	First string `json:"firstName"`
	Last  string `json:"lastName"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`

	BusinessName string   `json:"businessName,omitempty"`
	BusinessType string   `json:"businessType,omitempty"`
	ContentGoals []string `json:"contentGoals,omitempty"`
	Integrations []string `json:"integrations,omitempty"`

	MonthlyLeads     string   `json:"monthlyLeads,omitempty"`
	TeamSize         string   `json:"teamSize,omitempty"`
	CurrentTools     []string `json:"currentTools,omitempty"`
	BiggestChallenge string   `json:"biggestChallenge,omitempty"`
	SelectedPlan     string   `json:"selectedPlan,omitempty"`

	Source            string             `json:"source,omitempty"`
	AssessmentVersion string             `json:"assessmentVersion,omitempty"`
	Answers           map[string]string  `json:"answers,omitempty"`
	AssessmentAnswers []AssessmentAnswer `json:"assessmentAnswers,omitempty"`
	TotalScore        float64            `json:"totalScore,omitempty"`
	MaxPossibleScore  float64            `json:"maxPossibleScore,omitempty"`
	ScorePercentage   float64            `json:"scorePercentage,omitempty"`
	ReadinessLevel    string             `json:"readinessLevel,omitempty"`
	Recommendation    string             `json:"recommendation,omitempty"`

	// Derived server-side, never copied from the client.
	FormType    FormType  `json:"formType"`
	LeadScore   int       `json:"leadScore"`
	LeadQuality Quality   `json:"leadQuality"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// FullName joins the identity fields for notifications and CRM display.
func (r *LeadRecord) FullName() string {
	return strings.TrimSpace(r.First + " " + r.Last)
}
