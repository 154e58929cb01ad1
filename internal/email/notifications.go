package email

import (
	"context"

	"annuaire/internal/config"
	"annuaire/internal/models"
)

// Notifier sends email notifications for moderation and lead events. Every
// send is best-effort: delivery happens asynchronously and failures are
// logged, never surfaced to the triggering operation.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
	}
}

// NotifySubmissionApproved notifies the submitter that their practice is
// now published. Submissions without an email are skipped.
func (n *Notifier) NotifySubmissionApproved(_ context.Context, sub *models.PendingDentist, dent *models.Dentist) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyOnApproval {
		return
	}
	if sub.Email == nil || *sub.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.SubmissionApproved(sub, dent)
	n.service.SendAsync([]string{*sub.Email}, subject, htmlBody, textBody)
}

// NotifySubmissionRejected notifies the submitter that their submission
// was rejected, including the reason if one was given.
func (n *Notifier) NotifySubmissionRejected(_ context.Context, sub *models.PendingDentist, reason string) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyOnRejection {
		return
	}
	if sub.Email == nil || *sub.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.SubmissionRejected(sub, reason)
	n.service.SendAsync([]string{*sub.Email}, subject, htmlBody, textBody)
}

// NotifySubmissionLinked notifies the submitter that an existing listing
// was attached to their email.
func (n *Notifier) NotifySubmissionLinked(_ context.Context, sub *models.PendingDentist, dent *models.Dentist) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyOnLink {
		return
	}
	if sub.Email == nil || *sub.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.SubmissionLinked(sub, dent)
	n.service.SendAsync([]string{*sub.Email}, subject, htmlBody, textBody)
}

// NotifyLeadReceived notifies a practice that a patient left a message on
// their listing. Listings without a contact email are skipped.
func (n *Notifier) NotifyLeadReceived(_ context.Context, dent *models.Dentist, lead *models.Lead) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyOnLead {
		return
	}
	if dent.Email == nil || *dent.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.LeadReceived(dent, lead)
	n.service.SendAsync([]string{*dent.Email}, subject, htmlBody, textBody)
}
