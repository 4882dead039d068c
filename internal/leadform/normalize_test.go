package leadform

import (
	"errors"
	"testing"
)

func TestNormalizeTrimsIdentity(t *testing.T) {
	rec, err := Normalize(&SubmissionPayload{
		FirstName: "  Jane ",
		LastName:  " Doe ",
		Email:     " jane@x.com ",
		Phone:     " 555-0100 ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.First != "Jane" || rec.Last != "Doe" || rec.Email != "jane@x.com" || rec.Phone != "555-0100" {
		t.Errorf("identity not trimmed: %+v", rec)
	}
}

func TestNormalizeMissingIdentity(t *testing.T) {
	cases := []struct {
		name    string
		payload SubmissionPayload
		field   string
	}{
		{"missing first", SubmissionPayload{LastName: "Doe", Email: "a@b.com"}, "firstName"},
		{"missing last", SubmissionPayload{FirstName: "Jane", Email: "a@b.com"}, "lastName"},
		{"missing email", SubmissionPayload{FirstName: "Jane", LastName: "Doe"}, "email"},
		{"whitespace email", SubmissionPayload{FirstName: "Jane", LastName: "Doe", Email: "   "}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(&tc.payload)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("expected field %s, got %s", tc.field, ve.Field)
			}
		})
	}
}

func TestNormalizeListsNeverNil(t *testing.T) {
	rec, err := Normalize(&SubmissionPayload{
		FirstName: "Jane", LastName: "Doe", Email: "j@x.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ContentGoals == nil || rec.CurrentTools == nil || rec.Integrations == nil {
		t.Error("list fields must default to empty, not nil")
	}
	if rec.Answers == nil || rec.AssessmentAnswers == nil {
		t.Error("answer shapes must default to empty, not nil")
	}
}

func TestNormalizePreservesBothAnswerShapes(t *testing.T) {
	rec, err := Normalize(&SubmissionPayload{
		FirstName: "Jane", LastName: "Doe", Email: "j@x.com",
		Answers: AnswerMap{"budget": " enterprise ", " ": "dropped"},
		AssessmentAnswers: []AssessmentAnswer{
			{QuestionID: "budget", Category: "fit", Answer: " enterprise ", Score: 10},
			{QuestionID: "", Answer: ""},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Answers["budget"] != "enterprise" {
		t.Errorf("flat answer not trimmed: %q", rec.Answers["budget"])
	}
	if _, ok := rec.Answers[" "]; ok {
		t.Error("blank answer key should be dropped")
	}
	if len(rec.AssessmentAnswers) != 1 || rec.AssessmentAnswers[0].Answer != "enterprise" {
		t.Errorf("rich answers not cleaned: %+v", rec.AssessmentAnswers)
	}
}

func TestNormalizeIgnoresClientScore(t *testing.T) {
	rec, err := Normalize(&SubmissionPayload{
		FirstName: "Jane", LastName: "Doe", Email: "j@x.com",
		ClientLeadScore:   99,
		ClientLeadQuality: "hot",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.LeadScore != 0 || rec.LeadQuality != "" {
		t.Errorf("client-supplied score must not reach the record: %+v", rec)
	}
}
