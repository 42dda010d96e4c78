package services

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"solara/internal/domain"
	"solara/internal/metrics"
	"solara/internal/notify"
	"solara/internal/store"
	"solara/internal/validate"
	"solara/pkg/errors"
)

// Field length caps applied before persistence.
const (
	maxNameLength    = 100
	maxEmailLength   = 100
	maxPhoneLength   = 20
	maxCityLength    = 50
	maxMessageLength = 1000
)

// placeholderAnnualSavings is the flat annual-savings figure quoted in
// notifications: 2000 DZD/month at an 85% offset. It does not depend on the
// submission. TODO: replace with a consumption-based estimate once tariff
// data is available.
const placeholderAnnualSavings = 2000 * 12 * 85 / 100

// Notifier forwards a lead summary to an external alerting channel.
type Notifier interface {
	Send(ctx context.Context, n LeadNotification) error
}

// SubmitLeadInput holds the raw lead form fields.
type SubmitLeadInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SubmitLeadResult is returned after a successful submission.
type SubmitLeadResult struct {
	ID      uint
	Message string
}

// LeadListResult holds every captured lead plus aggregate counts.
type LeadListResult struct {
	Leads []domain.Lead
	Stats *domain.LeadStats
}

// LeadService implements lead capture and the admin read path.
type LeadService struct {
	leads      *store.Leads
	dispatcher *notify.Dispatcher
	notifier   Notifier
}

// NewLeadService creates a new lead service
func NewLeadService(leads *store.Leads, dispatcher *notify.Dispatcher, notifier Notifier) *LeadService {
	return &LeadService{
		leads:      leads,
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

// Submit validates and persists a lead, then queues the Telegram
// notification. The notification runs in the background: the lead counts as
// captured once the insert succeeds, whatever happens to the delivery.
func (s *LeadService) Submit(ctx context.Context, in SubmitLeadInput) (*SubmitLeadResult, error) {
	log.Printf("[LEAD] Submit request: name=%s, phone=%s", strings.TrimSpace(in.Name), strings.TrimSpace(in.Phone))

	if err := validateSubmission(in); err != nil {
		log.Printf("[LEAD] Submit rejected: %v", err)
		metrics.RecordLeadValidationFailure()
		return nil, err
	}

	lead := &domain.Lead{
		Name:    validate.Sanitize(in.Name, maxNameLength),
		Email:   validate.Sanitize(in.Email, maxEmailLength),
		Phone:   validate.Sanitize(in.Phone, maxPhoneLength),
		City:    validate.Sanitize(in.City, maxCityLength),
		Type:    domain.NormalizeType(in.Type),
		Message: validate.Sanitize(in.Message, maxMessageLength),
	}

	if err := s.leads.Insert(ctx, lead); err != nil {
		log.Printf("[LEAD] Submit failed: database error: %v", err)
		return nil, errors.Wrap(errors.ErrCodeInternalError, "خطأ في الخادم", err)
	}

	log.Printf("[LEAD] Submit successful: id=%d, type=%s", lead.ID, lead.Type)
	metrics.RecordLeadSubmission(lead.Type)

	notification := LeadNotification{
		Name:    lead.Name,
		Phone:   lead.Phone,
		City:    lead.City,
		Type:    lead.Type,
		Savings: placeholderAnnualSavings,
	}
	s.dispatcher.Enqueue(notify.Task{
		Name: "telegram-lead-notification",
		Run: func(ctx context.Context) error {
			return s.notifier.Send(ctx, notification)
		},
	})

	return &SubmitLeadResult{
		ID:      lead.ID,
		Message: "تم إرسال طلبك بنجاح!",
	}, nil
}

// List returns every lead, newest first, plus the per-type counts shown on
// the admin dashboard.
func (s *LeadService) List(ctx context.Context) (*LeadListResult, error) {
	leads, err := s.leads.ListNewestFirst(ctx)
	if err != nil {
		log.Printf("[LEAD] List failed: database error: %v", err)
		return nil, errors.Wrap(errors.ErrCodeInternalError, "خطأ في جلب البيانات", err)
	}

	stats, err := s.leads.Stats(ctx)
	if err != nil {
		log.Printf("[LEAD] Stats failed: database error: %v", err)
		return nil, errors.Wrap(errors.ErrCodeInternalError, "خطأ في جلب البيانات", err)
	}

	log.Printf("[LEAD] List successful: returned %d leads", len(leads))
	return &LeadListResult{Leads: leads, Stats: stats}, nil
}

// validateSubmission applies the submission checks in order: name, phone,
// then email when provided. Type is normalized elsewhere, never rejected.
func validateSubmission(in SubmitLeadInput) error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < 2 {
		return errors.New(errors.ErrCodeValidation, "الاسم مطلوب")
	}
	if !validate.Phone(strings.TrimSpace(in.Phone)) {
		return errors.New(errors.ErrCodeValidation, "رقم الهاتف غير صالح")
	}
	if email := strings.TrimSpace(in.Email); email != "" && !validate.Email(email) {
		return errors.New(errors.ErrCodeValidation, "البريد الإلكتروني غير صالح")
	}
	return nil
}
