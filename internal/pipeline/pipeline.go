package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/contentflowhq/lead-pipeline/internal/fieldsync"
	"github.com/contentflowhq/lead-pipeline/internal/highlevel"
	"github.com/contentflowhq/lead-pipeline/internal/leadform"
	"github.com/contentflowhq/lead-pipeline/internal/mapping"
	"github.com/contentflowhq/lead-pipeline/internal/notify"
	"github.com/contentflowhq/lead-pipeline/internal/observability/metrics"
	"github.com/contentflowhq/lead-pipeline/pkg/logging"
)

var tracer = otel.Tracer("leadpipeline.internal.pipeline")

// CRMClient is the subset of the HighLevel client the pipeline needs.
type CRMClient interface {
	Configured() bool
	LocationID() string
	UpsertContact(ctx context.Context, req highlevel.UpsertContactRequest) (*highlevel.UpsertContactResult, error)
}

// SchemaResolver resolves required field specs to remote field ids.
type SchemaResolver interface {
	Resolve(ctx context.Context, specs []fieldsync.FieldSpec) (fieldsync.ResolvedCatalog, error)
}

// Result reports what happened to one accepted submission. A submission is
// accepted whenever it validates; delivery problems downstream degrade to
// SoftFail instead of bouncing the visitor.
type Result struct {
	Lead      *leadform.LeadRecord
	ContactID string
	Synced    bool
	// SoftFail names the degraded path taken when the CRM sync did not
	// complete. Empty means the contact reached the CRM.
	SoftFail string
}

// Service runs a submission through normalize, classify, score, archive, and
// CRM delivery with email fallback.
type Service struct {
	repo           leadform.Repository
	crm            CRMClient
	resolver       SchemaResolver
	email          notify.EmailSender
	notifyTo       []string
	mappingVersion string
	metrics        *metrics.IntakeMetrics
	logger         *logging.Logger

	now   func() time.Time
	newID func() string
}

// Options carries the optional collaborators for NewService.
type Options struct {
	Repo           leadform.Repository
	CRM            CRMClient
	Resolver       SchemaResolver
	Email          notify.EmailSender
	NotifyTo       []string
	MappingVersion string
	Metrics        *metrics.IntakeMetrics
	Logger         *logging.Logger
}

// NewService wires the intake pipeline.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.MappingVersion == "" {
		opts.MappingVersion = mapping.DefaultVersion
	}
	return &Service{
		repo:           opts.Repo,
		crm:            opts.CRM,
		resolver:       opts.Resolver,
		email:          opts.Email,
		notifyTo:       opts.NotifyTo,
		mappingVersion: opts.MappingVersion,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Process accepts one raw submission. The returned error is non-nil only for
// validation failures; every downstream problem is absorbed into the Result.
func (s *Service) Process(ctx context.Context, payload *leadform.SubmissionPayload) (*Result, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Process")
	defer span.End()
	start := s.now()

	rec, err := leadform.Normalize(payload)
	if err != nil {
		return nil, err
	}

	rec.FormType = leadform.Classify(rec)
	rec.LeadScore = leadform.Score(rec, rec.FormType)
	rec.LeadQuality = leadform.QualityFor(rec.LeadScore)
	rec.ID = s.newID()
	rec.SubmittedAt = s.now().UTC()

	span.SetAttributes(
		attribute.String("lead.form_type", string(rec.FormType)),
		attribute.Int("lead.score", rec.LeadScore),
		attribute.String("lead.quality", string(rec.LeadQuality)),
	)

	// Client-side scores are logged for drift visibility, never trusted.
	if payload.ClientLeadScore != 0 && int(payload.ClientLeadScore) != rec.LeadScore {
		s.logger.Info("client lead score drift",
			"lead_id", rec.ID,
			"client_score", float64(payload.ClientLeadScore),
			"server_score", rec.LeadScore)
	}

	s.metrics.ObserveSubmission(string(rec.FormType), string(rec.LeadQuality))
	defer func() {
		s.metrics.ObserveIntakeLatency(string(rec.FormType), s.now().Sub(start).Seconds())
	}()

	s.archive(ctx, rec)

	result := &Result{Lead: rec}
	if s.crm == nil || !s.crm.Configured() {
		s.logger.Warn("crm not configured, delivering lead by email", "lead_id", rec.ID)
		result.SoftFail = "crm not configured"
		s.sendFallback(ctx, rec, "CRM credentials are not configured; this lead exists only in the archive and this email.")
		return result, nil
	}

	catalog := s.resolveCatalog(ctx)
	fields, skipped := mapping.Map(rec, catalog, s.mappingVersion)
	if len(skipped) > 0 {
		s.logger.Warn("some custom fields could not be resolved", "lead_id", rec.ID, "keys", skipped)
	}

	contact, err := s.crm.UpsertContact(ctx, s.upsertRequest(rec, fields))
	if err != nil {
		s.logger.Error("crm upsert failed, delivering lead by email", "error", err, "lead_id", rec.ID)
		s.metrics.ObserveCRMSync("error")
		result.SoftFail = "crm upsert failed"
		s.sendFallback(ctx, rec, "CRM upsert failed; this lead exists only in the archive and this email.")
		return result, nil
	}

	s.metrics.ObserveCRMSync("ok")
	result.ContactID = contact.ContactID
	result.Synced = true
	s.logger.Info("lead synced to crm",
		"lead_id", rec.ID,
		"contact_id", contact.ContactID,
		"new_contact", contact.New,
		"form_type", rec.FormType,
		"quality", rec.LeadQuality)
	return result, nil
}

// archive stores the lead locally. Archive failures never block delivery.
func (s *Service) archive(ctx context.Context, rec *leadform.LeadRecord) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		s.logger.Error("failed to archive lead", "error", err, "lead_id", rec.ID)
	}
}

// resolveCatalog fetches the remote field catalog, degrading to an empty
// catalog when the schema resolver is down. Identity fields still upsert.
func (s *Service) resolveCatalog(ctx context.Context) fieldsync.ResolvedCatalog {
	if s.resolver == nil {
		return nil
	}
	catalog, err := s.resolver.Resolve(ctx, mapping.RequiredFields(s.mappingVersion))
	if err != nil {
		s.logger.Error("field catalog resolution failed, upserting identity only", "error", err)
		return nil
	}
	return catalog
}

func (s *Service) upsertRequest(rec *leadform.LeadRecord, fields []mapping.MappedField) highlevel.UpsertContactRequest {
	values := make([]highlevel.CustomFieldValue, 0, len(fields))
	for _, f := range fields {
		values = append(values, highlevel.CustomFieldValue{ID: f.RemoteFieldID, Value: f.Value})
	}
	return highlevel.UpsertContactRequest{
		LocationID:   s.crm.LocationID(),
		FirstName:    rec.First,
		LastName:     rec.Last,
		Email:        rec.Email,
		Phone:        rec.Phone,
		Source:       "website-lead-pipeline",
		Tags:         []string{"website-lead", string(rec.FormType) + "-lead", string(rec.LeadQuality) + "-lead"},
		CustomFields: values,
	}
}

// sendFallback emails the full lead to the operators. The fallback itself is
// best-effort; a failure here is logged and counted but never surfaced.
func (s *Service) sendFallback(ctx context.Context, rec *leadform.LeadRecord, note string) {
	if s.email == nil || len(s.notifyTo) == 0 {
		s.logger.Warn("email fallback unavailable", "lead_id", rec.ID)
		s.metrics.ObserveEmailFallback("skipped")
		return
	}
	msg := notify.LeadEmail(rec, s.notifyTo, note)
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("email fallback failed", "error", err, "lead_id", rec.ID)
		s.metrics.ObserveEmailFallback("error")
		return
	}
	s.metrics.ObserveEmailFallback("sent")
}
