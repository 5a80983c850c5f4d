// Package intake sequences one lead submission end to end: validate,
// suppress duplicates, route, persist, emit audit entries, and hand the
// caller a WhatsApp deep link. Every path terminates in exactly one
// Result; nothing retries.
package intake

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kodmani-estates/leadflow/internal/audit"
	"github.com/kodmani-estates/leadflow/internal/leads"
	"github.com/kodmani-estates/leadflow/internal/observability/metrics"
	"github.com/kodmani-estates/leadflow/internal/routing"
	"github.com/kodmani-estates/leadflow/internal/whatsapp"
	"github.com/kodmani-estates/leadflow/pkg/logging"
)

// Auditor receives fire-and-forget audit entries.
type Auditor interface {
	Enqueue(entry audit.Entry)
}

// User-facing messages. Internal error detail never leaves the service.
const (
	msgValidation         = "خطأ في التحقق من البيانات / Validation error"
	msgStoreFailedCapture = "Failed to capture lead. Please try again."
	msgStoreFailedSubmit  = "فشل في حفظ البيانات. يرجى المحاولة مرة أخرى. / Failed to save data. Please try again."
	msgUnexpected         = "حدث خطأ غير متوقع. يرجى الاتصال بالدعم. / An unexpected error occurred. Please contact support."
	msgDuplicate          = "لقد تواصلت معنا مؤخراً. سنعيد توجيهك إلى محادثتك السابقة. / You recently contacted us. Redirecting to your previous conversation."
)

// Service orchestrates lead submissions.
type Service struct {
	repo        leads.Repository
	auditor     Auditor
	metrics     *metrics.IntakeMetrics
	logger      *logging.Logger
	tracer      trace.Tracer
	validate    *validator.Validate
	agentNumber string
	dupWindow   int // days

	now func() time.Time
}

// NewService wires the submission orchestrator. agentNumber is the
// destination WhatsApp number for generated links; dupWindowDays is the
// duplicate-suppression window.
func NewService(repo leads.Repository, auditor Auditor, m *metrics.IntakeMetrics, agentNumber string, dupWindowDays int, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if dupWindowDays <= 0 {
		dupWindowDays = 7
	}
	return &Service{
		repo:        repo,
		auditor:     auditor,
		metrics:     m,
		logger:      logger.Component("intake"),
		tracer:      otel.Tracer("leadflow.internal.intake"),
		validate:    newValidator(),
		agentNumber: agentNumber,
		dupWindow:   dupWindowDays,
		now:         time.Now,
	}
}

// Capture runs the showcase-funnel path.
func (s *Service) Capture(ctx context.Context, req CaptureRequest) (res Result) {
	ctx, span := s.tracer.Start(ctx, "intake.capture")
	defer span.End()
	defer func() { s.metrics.ObserveSubmission("capture", res.Outcome) }()
	defer s.recoverSubmission("capture", span, &res)

	if err := s.validate.Struct(req); err != nil {
		fields, first := validationErrors(err)
		span.SetAttributes(attribute.String("outcome", OutcomeValidationFailed))
		return Result{
			Success:          false,
			Outcome:          OutcomeValidationFailed,
			Error:            first,
			ValidationErrors: fields,
		}
	}

	phone := leads.NormalizePhone(req.Phone)

	if existing := s.findDuplicate(ctx, phone); existing != nil {
		link, err := whatsapp.CaptureLink(s.agentNumber, whatsapp.CaptureParams{
			LeadID:            existing.ID,
			Name:              req.Name,
			PropertyRef:       req.PropertyRef,
			PropertyType:      req.PropertyType,
			BudgetRange:       req.BudgetRange,
			ContactPreference: req.ContactPreference,
		})
		if err != nil {
			s.logger.Error("capture link for duplicate failed", "error", err, "lead_id", existing.ID)
		}
		span.SetAttributes(attribute.String("outcome", OutcomeDuplicate))
		return Result{
			Success:          true,
			Outcome:          OutcomeDuplicate,
			LeadID:           existing.ID,
			WhatsAppLink:     link,
			IsDuplicate:      true,
			DuplicateMessage: msgDuplicate,
		}
	}

	assignment := routing.Assign(req.BudgetRange, req.PropertyType)
	s.metrics.ObserveRouting(assignment.Agent.Name, assignment.Priority)

	lead := &leads.Lead{
		FullName:          req.Name,
		Phone:             phone,
		PropertyInterest:  req.PropertyRef,
		PropertyRef:       req.PropertyRef,
		BudgetRange:       req.BudgetRange,
		PropertyType:      req.PropertyType,
		ContactPreference: req.ContactPreference,
		Source:            "website_demo",
		AssignedAgent:     assignment.Agent.Name,
		Priority:          assignment.Priority,
		Status:            leads.StatusNew,
	}

	id, err := s.repo.Insert(ctx, lead)
	if err != nil {
		return s.storeFailure(span, "capture", phone, msgStoreFailedCapture, err)
	}

	s.emitSubmissionAudits(id, phone)

	link, err := whatsapp.CaptureLink(s.agentNumber, whatsapp.CaptureParams{
		LeadID:            id,
		Name:              req.Name,
		PropertyRef:       req.PropertyRef,
		PropertyType:      req.PropertyType,
		BudgetRange:       req.BudgetRange,
		ContactPreference: req.ContactPreference,
	})
	if err != nil {
		s.logger.Error("capture link generation failed", "error", err, "lead_id", id)
	}

	s.logger.Info("lead captured",
		"lead_id", id,
		"phone", phone,
		"agent", assignment.Agent.Name,
		"priority", assignment.Priority,
	)
	span.SetAttributes(attribute.String("outcome", OutcomeCreated))
	return Result{
		Success:      true,
		Outcome:      OutcomeCreated,
		LeadID:       id,
		WhatsAppLink: link,
	}
}

// Submit runs the landing-form path.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, meta Metadata) (res Result) {
	ctx, span := s.tracer.Start(ctx, "intake.submit")
	defer span.End()
	defer func() { s.metrics.ObserveSubmission("submit", res.Outcome) }()
	defer s.recoverSubmission("submit", span, &res)

	if err := s.validate.Struct(req); err != nil {
		fields, _ := validationErrors(err)
		span.SetAttributes(attribute.String("outcome", OutcomeValidationFailed))
		return Result{
			Success:          false,
			Outcome:          OutcomeValidationFailed,
			Error:            msgValidation,
			ValidationErrors: fields,
		}
	}

	phone := leads.NormalizePhone(req.Phone)
	source := req.Source
	if source == "" {
		source = "website_demo"
	}

	if existing := s.findDuplicate(ctx, phone); existing != nil {
		link, err := whatsapp.GreetingLink(s.agentNumber, existing.ID, req.FullName, req.PropertyInterest)
		if err != nil {
			s.logger.Error("greeting link for duplicate failed", "error", err, "lead_id", existing.ID)
		}
		span.SetAttributes(attribute.String("outcome", OutcomeDuplicate))
		return Result{
			Success:          true,
			Outcome:          OutcomeDuplicate,
			LeadID:           existing.ID,
			WhatsAppLink:     link,
			IsDuplicate:      true,
			DuplicateMessage: msgDuplicate,
		}
	}

	assignment := routing.Assign(req.BudgetRange, "")
	s.metrics.ObserveRouting(assignment.Agent.Name, assignment.Priority)

	lead := &leads.Lead{
		FullName:         req.FullName,
		Phone:            phone,
		Email:            req.Email,
		PropertyInterest: req.PropertyInterest,
		PropertyRef:      req.PropertyRef,
		BudgetRange:      req.BudgetRange,
		Source:           source,
		AssignedAgent:    assignment.Agent.Name,
		Priority:         assignment.Priority,
		Status:           leads.StatusNew,
		UserAgent:        meta.UserAgent,
		IPAddress:        meta.IPAddress,
		ReferrerURL:      req.ReferrerURL,
		UTMSource:        req.UTMSource,
		UTMMedium:        req.UTMMedium,
		UTMCampaign:      req.UTMCampaign,
	}

	id, err := s.repo.Insert(ctx, lead)
	if err != nil {
		return s.storeFailure(span, "submit", phone, msgStoreFailedSubmit, err)
	}

	s.emitSubmissionAudits(id, phone)

	link, err := whatsapp.GreetingLink(s.agentNumber, id, req.FullName, req.PropertyInterest)
	if err != nil {
		s.logger.Error("greeting link generation failed", "error", err, "lead_id", id)
	}

	s.logger.Info("lead created",
		"lead_id", id,
		"phone", phone,
		"property", req.PropertyInterest,
		"agent", assignment.Agent.Name,
	)
	span.SetAttributes(attribute.String("outcome", OutcomeCreated))
	return Result{
		Success:      true,
		Outcome:      OutcomeCreated,
		LeadID:       id,
		WhatsAppLink: link,
	}
}

// findDuplicate returns the most recent lead for phone when its last
// contact falls inside the duplicate window. Lookup faults fail open:
// a diagnostic error never blocks a submission.
func (s *Service) findDuplicate(ctx context.Context, phone string) *leads.Lead {
	existing, err := s.repo.FindMostRecentByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, leads.ErrLeadNotFound) {
			s.logger.Error("duplicate check failed, proceeding as new lead", "error", err, "phone", phone)
		}
		return nil
	}

	elapsedDays := int(s.now().UTC().Sub(existing.LastSeenAt()).Hours() / 24)
	if elapsedDays < s.dupWindow {
		return existing
	}
	return nil
}

func (s *Service) emitSubmissionAudits(leadID, phone string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Enqueue(audit.Entry{
		EventType: audit.EventWhatsAppOutbound,
		Status:    audit.StatusQueued,
		LeadID:    leadID,
		Details: audit.Details(map[string]any{
			"recipient": phone,
			"template":  "welcome_luxury_investor",
			"provider":  "Meta Cloud API",
		}),
	})
	s.auditor.Enqueue(audit.Entry{
		EventType: audit.EventCRMSync,
		Status:    audit.StatusSuccess,
		LeadID:    leadID,
		Details: audit.Details(map[string]any{
			"crm":        "Salesforce",
			"action":     "create_contact",
			"latency_ms": 124,
		}),
	})
}

func (s *Service) storeFailure(span trace.Span, path, phone, message string, err error) Result {
	s.logger.Error("lead insert failed", "error", err, "path", path, "phone", phone)
	span.RecordError(err)
	span.SetAttributes(attribute.String("outcome", OutcomeStoreFailed))
	if s.auditor != nil {
		s.auditor.Enqueue(audit.Entry{
			EventType: audit.EventLeadCaptureError,
			Status:    audit.StatusFailed,
			Details: audit.Details(map[string]any{
				"error": err.Error(),
				"path":  path,
			}),
		})
	}
	return Result{
		Success: false,
		Outcome: OutcomeStoreFailed,
		Error:   message,
	}
}

// recoverSubmission converts a panic anywhere in the pipeline into the
// generic failure result so one bad submission cannot crash the process.
func (s *Service) recoverSubmission(path string, span trace.Span, res *Result) {
	if r := recover(); r != nil {
		s.logger.Error("unexpected failure in submission", "path", path, "panic", r)
		span.SetAttributes(attribute.String("outcome", OutcomeStoreFailed))
		*res = Result{
			Success: false,
			Outcome: OutcomeStoreFailed,
			Error:   msgUnexpected,
		}
	}
}
