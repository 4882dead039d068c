package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentflowhq/lead-pipeline/internal/fieldsync"
	"github.com/contentflowhq/lead-pipeline/internal/highlevel"
	"github.com/contentflowhq/lead-pipeline/internal/leadform"
	"github.com/contentflowhq/lead-pipeline/internal/mapping"
	"github.com/contentflowhq/lead-pipeline/internal/notify"
)

type fakeCRM struct {
	mu         sync.Mutex
	configured bool
	upsertErr  error
	requests   []highlevel.UpsertContactRequest
}

func (f *fakeCRM) Configured() bool   { return f.configured }
func (f *fakeCRM) LocationID() string { return "loc_123" }

func (f *fakeCRM) UpsertContact(ctx context.Context, req highlevel.UpsertContactRequest) (*highlevel.UpsertContactResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return &highlevel.UpsertContactResult{ContactID: "contact_1", New: true}, nil
}

type fakeResolver struct {
	catalog fieldsync.ResolvedCatalog
	err     error
	calls   int
}

func (f *fakeResolver) Resolve(ctx context.Context, specs []fieldsync.FieldSpec) (fieldsync.ResolvedCatalog, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []notify.EmailMessage
	err  error
}

func (f *fakeEmail) Send(ctx context.Context, msg notify.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func resolvedCatalog() fieldsync.ResolvedCatalog {
	catalog := make(fieldsync.ResolvedCatalog)
	for _, spec := range mapping.RequiredFields(mapping.DefaultVersion) {
		catalog[spec.Key] = fieldsync.RemoteField{ID: "cf_" + spec.Key, Name: spec.Name, DataType: spec.DataType}
	}
	return catalog
}

func newTestService(crm *fakeCRM, resolver *fakeResolver, email *fakeEmail, repo leadform.Repository) *Service {
	svc := NewService(Options{
		Repo:     repo,
		CRM:      crm,
		Resolver: resolver,
		Email:    email,
		NotifyTo: []string{"ops@example.com"},
	})
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	svc.newID = func() string { return "lead_test_1" }
	return svc
}

func assessmentPayload() *leadform.SubmissionPayload {
	return &leadform.SubmissionPayload{
		FirstName:       "Grace",
		LastName:        "Hopper",
		Email:           "grace@example.com",
		Phone:           "+15550002222",
		Source:          "readiness-assessment",
		ScorePercentage: 80,
		ReadinessLevel:  "ready",
		Recommendation:  "growth-engine",
		AssessmentAnswers: []leadform.AssessmentAnswer{
			{QuestionID: "current-content", Answer: "weekly", Score: 3},
		},
	}
}

func TestProcessSyncsAssessmentLead(t *testing.T) {
	crm := &fakeCRM{configured: true}
	resolver := &fakeResolver{catalog: resolvedCatalog()}
	email := &fakeEmail{}
	repo := leadform.NewInMemoryRepository()
	svc := newTestService(crm, resolver, email, repo)

	result, err := svc.Process(context.Background(), assessmentPayload())
	require.NoError(t, err)

	assert.True(t, result.Synced)
	assert.Empty(t, result.SoftFail)
	assert.Equal(t, "contact_1", result.ContactID)
	assert.Equal(t, leadform.FormTypeAssessment, result.Lead.FormType)
	assert.Equal(t, leadform.QualityHot, result.Lead.LeadQuality)
	assert.Empty(t, email.sent)

	require.Len(t, crm.requests, 1)
	req := crm.requests[0]
	assert.Equal(t, "loc_123", req.LocationID)
	assert.Equal(t, "Grace", req.FirstName)
	assert.Equal(t, "grace@example.com", req.Email)
	assert.Contains(t, req.Tags, "assessment-lead")
	assert.Contains(t, req.Tags, "hot-lead")

	byID := make(map[string]string, len(req.CustomFields))
	for _, f := range req.CustomFields {
		byID[f.ID] = f.Value
	}
	assert.Equal(t, "80", byID["cf_assessment_score"])
	assert.Equal(t, "ready", byID["cf_readiness_level"])
	assert.Equal(t, "assessment", byID["cf_form_type"])

	archived, err := repo.GetByID(context.Background(), "lead_test_1")
	require.NoError(t, err)
	assert.Equal(t, leadform.QualityHot, archived.LeadQuality)
}

func TestProcessRejectsInvalidSubmission(t *testing.T) {
	crm := &fakeCRM{configured: true}
	email := &fakeEmail{}
	svc := newTestService(crm, &fakeResolver{catalog: resolvedCatalog()}, email, leadform.NewInMemoryRepository())

	_, err := svc.Process(context.Background(), &leadform.SubmissionPayload{
		FirstName: "Grace",
		LastName:  "Hopper",
	})
	require.Error(t, err)
	assert.True(t, leadform.IsValidationError(err))
	assert.Empty(t, crm.requests)
	assert.Empty(t, email.sent)
}

func TestProcessFallsBackToEmailOnUpsertFailure(t *testing.T) {
	crm := &fakeCRM{configured: true, upsertErr: errors.New("boom")}
	email := &fakeEmail{}
	svc := newTestService(crm, &fakeResolver{catalog: resolvedCatalog()}, email, leadform.NewInMemoryRepository())

	result, err := svc.Process(context.Background(), assessmentPayload())
	require.NoError(t, err)

	assert.False(t, result.Synced)
	assert.Equal(t, "crm upsert failed", result.SoftFail)
	assert.Empty(t, result.ContactID)
	require.Len(t, email.sent, 1)
	assert.Contains(t, email.sent[0].Body, "grace@example.com")
}

func TestProcessFallsBackWhenCRMNotConfigured(t *testing.T) {
	crm := &fakeCRM{configured: false}
	resolver := &fakeResolver{catalog: resolvedCatalog()}
	email := &fakeEmail{}
	svc := newTestService(crm, resolver, email, leadform.NewInMemoryRepository())

	result, err := svc.Process(context.Background(), assessmentPayload())
	require.NoError(t, err)

	assert.Equal(t, "crm not configured", result.SoftFail)
	assert.Zero(t, resolver.calls)
	assert.Empty(t, crm.requests)
	require.Len(t, email.sent, 1)
}

func TestProcessUpsertsIdentityWhenResolverFails(t *testing.T) {
	crm := &fakeCRM{configured: true}
	resolver := &fakeResolver{err: errors.New("catalog unavailable")}
	email := &fakeEmail{}
	svc := newTestService(crm, resolver, email, leadform.NewInMemoryRepository())

	result, err := svc.Process(context.Background(), assessmentPayload())
	require.NoError(t, err)

	assert.True(t, result.Synced)
	require.Len(t, crm.requests, 1)
	assert.Empty(t, crm.requests[0].CustomFields)
	assert.Equal(t, "grace@example.com", crm.requests[0].Email)
	assert.Empty(t, email.sent)
}

func TestProcessIgnoresClientScore(t *testing.T) {
	crm := &fakeCRM{configured: true}
	svc := newTestService(crm, &fakeResolver{catalog: resolvedCatalog()}, &fakeEmail{}, leadform.NewInMemoryRepository())

	payload := assessmentPayload()
	payload.ClientLeadScore = 100
	payload.ClientLeadQuality = "hot"
	payload.ScorePercentage = 10
	payload.AssessmentAnswers = nil

	result, err := svc.Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Lead.LeadScore)
	assert.Equal(t, leadform.QualityCold, result.Lead.LeadQuality)
}

func TestProcessSurvivesArchiveFailure(t *testing.T) {
	crm := &fakeCRM{configured: true}
	svc := newTestService(crm, &fakeResolver{catalog: resolvedCatalog()}, &fakeEmail{}, failingRepo{})

	result, err := svc.Process(context.Background(), assessmentPayload())
	require.NoError(t, err)
	assert.True(t, result.Synced)
}

type failingRepo struct{}

func (failingRepo) Save(ctx context.Context, rec *leadform.LeadRecord) error {
	return errors.New("db down")
}

func (failingRepo) GetByID(ctx context.Context, id string) (*leadform.LeadRecord, error) {
	return nil, leadform.ErrLeadNotFound
}

func (failingRepo) ListRecent(ctx context.Context, limit int) ([]*leadform.LeadRecord, error) {
	return nil, errors.New("db down")
}
