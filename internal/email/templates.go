package email

import (
	"fmt"
	"html"

	"annuaire/internal/config"
	"annuaire/internal/models"
)

// Templates provides email template generation. All user-facing mail is in
// French, matching the site.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #059669; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #059669; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>%s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteFooter), t.cfg.BaseURL, t.cfg.BaseURL)
}

// SubmissionApproved generates the email sent when a submission is
// published as a new listing.
func (t *Templates) SubmissionApproved(sub *models.PendingDentist, dent *models.Dentist) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Votre fiche est publiée sur %s", t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p>Bonjour %s,</p>
        <p>Félicitations ! Votre fiche est maintenant publiée sur <strong>%s</strong>.</p>
        <p>Vous pouvez la consulter et la gérer depuis votre tableau de bord.</p>
        <p style="text-align: center;">
            <a href="%s/dentiste/%s" class="button">Voir ma fiche</a>
        </p>
        <p><a href="%s/dashboard">Accéder à mon tableau de bord</a></p>
        <p>Cordialement,<br/>L'équipe %s</p>
    `,
		html.EscapeString(sub.Name),
		html.EscapeString(t.cfg.SiteTitle),
		t.cfg.BaseURL,
		html.EscapeString(dent.Slug),
		t.cfg.BaseURL,
		html.EscapeString(t.cfg.SiteTitle),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Bonjour %s,

Félicitations ! Votre fiche est maintenant publiée sur %s.

Votre fiche : %s/dentiste/%s
Tableau de bord : %s/dashboard

Cordialement,
L'équipe %s`,
		sub.Name,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
		dent.Slug,
		t.cfg.BaseURL,
		t.cfg.SiteTitle,
	)

	return
}

// SubmissionRejected generates the email sent when a submission is
// rejected, including the reason when one was given.
func (t *Templates) SubmissionRejected(sub *models.PendingDentist, reason string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Mise à jour de votre demande – %s", t.cfg.SiteTitle)

	reasonHTML := ""
	reasonText := ""
	if reason != "" {
		reasonHTML = fmt.Sprintf(`<div class="info-box"><p><span class="label">Motif :</span> %s</p></div>`, html.EscapeString(reason))
		reasonText = fmt.Sprintf("\nMotif : %s\n", reason)
	}

	content := fmt.Sprintf(`
        <p>Bonjour %s,</p>
        <p>Nous avons examiné votre demande de publication sur <strong>%s</strong> et nous ne pouvons pas la retenir en l'état.</p>
        %s
        <p>Vous pouvez soumettre une nouvelle demande en corrigeant les informations.</p>
        <p style="text-align: center;">
            <a href="%s/ajouter-cabinet" class="button">Soumettre à nouveau</a>
        </p>
        <p>Cordialement,<br/>L'équipe %s</p>
    `,
		html.EscapeString(sub.Name),
		html.EscapeString(t.cfg.SiteTitle),
		reasonHTML,
		t.cfg.BaseURL,
		html.EscapeString(t.cfg.SiteTitle),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Bonjour %s,

Nous avons examiné votre demande de publication sur %s et nous ne pouvons pas la retenir en l'état.
%s
Vous pouvez soumettre une nouvelle demande en corrigeant les informations : %s/ajouter-cabinet

Cordialement,
L'équipe %s`,
		sub.Name,
		t.cfg.SiteTitle,
		reasonText,
		t.cfg.BaseURL,
		t.cfg.SiteTitle,
	)

	return
}

// SubmissionLinked generates the email sent when a submission is linked to
// an already-published listing.
func (t *Templates) SubmissionLinked(sub *models.PendingDentist, dent *models.Dentist) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Votre fiche existante vous a été attribuée – %s", t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p>Bonjour %s,</p>
        <p>Votre cabinet figurait déjà dans l'annuaire <strong>%s</strong>. Nous avons rattaché la fiche existante à votre adresse email : vous pouvez désormais la gérer depuis votre tableau de bord.</p>
        <p style="text-align: center;">
            <a href="%s/dentiste/%s" class="button">Voir ma fiche</a>
        </p>
        <p><a href="%s/dashboard">Accéder à mon tableau de bord</a></p>
        <p>Cordialement,<br/>L'équipe %s</p>
    `,
		html.EscapeString(sub.Name),
		html.EscapeString(t.cfg.SiteTitle),
		t.cfg.BaseURL,
		html.EscapeString(dent.Slug),
		t.cfg.BaseURL,
		html.EscapeString(t.cfg.SiteTitle),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Bonjour %s,

Votre cabinet figurait déjà dans l'annuaire %s. Nous avons rattaché la fiche existante à votre adresse email.

Votre fiche : %s/dentiste/%s
Tableau de bord : %s/dashboard

Cordialement,
L'équipe %s`,
		sub.Name,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
		dent.Slug,
		t.cfg.BaseURL,
		t.cfg.SiteTitle,
	)

	return
}

// LeadReceived generates the email sent to a practice when a patient
// leaves a contact message on their listing.
func (t *Templates) LeadReceived(dent *models.Dentist, lead *models.Lead) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Nouveau message patient – %s", t.cfg.SiteTitle)

	name := "Un patient"
	if lead.PatientName != nil && *lead.PatientName != "" {
		name = *lead.PatientName
	}

	var details string
	var detailsText string
	if lead.Email != nil && *lead.Email != "" {
		details += fmt.Sprintf(`<p><span class="label">Email :</span> %s</p>`, html.EscapeString(*lead.Email))
		detailsText += fmt.Sprintf("Email : %s\n", *lead.Email)
	}
	if lead.Phone != nil && *lead.Phone != "" {
		details += fmt.Sprintf(`<p><span class="label">Téléphone :</span> %s</p>`, html.EscapeString(*lead.Phone))
		detailsText += fmt.Sprintf("Téléphone : %s\n", *lead.Phone)
	}
	if lead.Message != nil && *lead.Message != "" {
		details += fmt.Sprintf(`<p><span class="label">Message :</span> %s</p>`, html.EscapeString(*lead.Message))
		detailsText += fmt.Sprintf("Message : %s\n", *lead.Message)
	}
	if !lead.HasContact() {
		details += `<p>Le patient n'a pas laissé de coordonnées.</p>`
		detailsText += "Le patient n'a pas laissé de coordonnées.\n"
	}

	content := fmt.Sprintf(`
        <p>Bonjour %s,</p>
        <p><strong>%s</strong> vous a laissé un message via votre fiche %s.</p>
        <div class="info-box">%s</div>
        <p><a href="%s/dashboard">Répondre depuis mon tableau de bord</a></p>
    `,
		html.EscapeString(dent.Name),
		html.EscapeString(name),
		html.EscapeString(t.cfg.SiteTitle),
		details,
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Bonjour %s,

%s vous a laissé un message via votre fiche %s.

%s
Tableau de bord : %s/dashboard`,
		dent.Name,
		name,
		t.cfg.SiteTitle,
		detailsText,
		t.cfg.BaseURL,
	)

	return
}
