package email

import (
	"strings"
	"testing"

	"annuaire/internal/config"
	"annuaire/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		SiteTitle:  "Annuaire Dentistes",
		SiteFooter: "Annuaire des dentistes du Maroc",
		BaseURL:    "https://annuaire.example.com",
	}
}

func TestNewTemplates(t *testing.T) {
	cfg := testConfig()

	tmpl := NewTemplates(cfg)
	if tmpl == nil {
		t.Fatal("NewTemplates returned nil")
	}
	if tmpl.cfg != cfg {
		t.Error("Templates config not set correctly")
	}
}

func TestTemplates_BaseHTML(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	html := tmpl.baseHTML("Test Title", "<p>Test content</p>")

	checks := []string{
		"<!DOCTYPE html>",
		"<title>Test Title</title>",
		"Annuaire Dentistes",
		"https://annuaire.example.com",
		"<p>Test content</p>",
	}

	for _, check := range checks {
		if !strings.Contains(html, check) {
			t.Errorf("baseHTML missing %q", check)
		}
	}
}

func TestTemplates_BaseHTML_EscapesHTML(t *testing.T) {
	cfg := testConfig()
	cfg.SiteTitle = "<script>alert('xss')</script>"
	tmpl := NewTemplates(cfg)

	html := tmpl.baseHTML("Test", "Content")

	// Should escape the script tag in site title
	if strings.Contains(html, "<script>") {
		t.Error("baseHTML should escape HTML in site title")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("baseHTML should contain escaped script tag")
	}
}

func TestTemplates_SubmissionApproved(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	email := "amina@example.com"
	sub := &models.PendingDentist{
		Name:  "Dr. Amina Tazi",
		City:  "Casablanca",
		Email: &email,
	}
	dent := &models.Dentist{
		Name: "Dr. Amina Tazi",
		Slug: "dr-amina-tazi-k3x9p",
	}

	subject, htmlBody, textBody := tmpl.SubmissionApproved(sub, dent)

	if !strings.Contains(subject, "publiée") {
		t.Errorf("Subject should mention publication, got: %s", subject)
	}
	if !strings.Contains(subject, "Annuaire Dentistes") {
		t.Errorf("Subject should contain site title, got: %s", subject)
	}

	htmlChecks := []string{
		"Dr. Amina Tazi",
		"/dentiste/dr-amina-tazi-k3x9p",
		"/dashboard",
	}
	for _, check := range htmlChecks {
		if !strings.Contains(htmlBody, check) {
			t.Errorf("HTML body missing %q", check)
		}
	}

	textChecks := []string{
		"Dr. Amina Tazi",
		"/dentiste/dr-amina-tazi-k3x9p",
		"/dashboard",
	}
	for _, check := range textChecks {
		if !strings.Contains(textBody, check) {
			t.Errorf("Text body missing %q", check)
		}
	}
}

func TestTemplates_SubmissionRejected(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	sub := &models.PendingDentist{
		Name: "Dr. Karim Bennani",
		City: "Rabat",
	}

	tests := []struct {
		name   string
		reason string
	}{
		{name: "with reason", reason: "Numéro de téléphone introuvable"},
		{name: "without reason", reason: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, htmlBody, textBody := tmpl.SubmissionRejected(sub, tt.reason)

			if !strings.Contains(subject, "Annuaire Dentistes") {
				t.Errorf("Subject should contain site title, got: %s", subject)
			}

			if !strings.Contains(htmlBody, "Dr. Karim Bennani") {
				t.Error("HTML body should contain submitter name")
			}

			if tt.reason != "" {
				if !strings.Contains(htmlBody, tt.reason) {
					t.Error("HTML body should contain reason when provided")
				}
				if !strings.Contains(textBody, tt.reason) {
					t.Error("Text body should contain reason when provided")
				}
			} else {
				if strings.Contains(htmlBody, "Motif") {
					t.Error("HTML body should omit reason box when no reason given")
				}
			}

			// Should link back to the submission form
			if !strings.Contains(htmlBody, "/ajouter-cabinet") {
				t.Error("HTML body should contain link to resubmit")
			}
		})
	}
}

func TestTemplates_SubmissionLinked(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	sub := &models.PendingDentist{
		Name: "Dr. Salma El Fassi",
		City: "Fès",
	}
	dent := &models.Dentist{
		Name: "Cabinet Dentaire El Fassi",
		Slug: "cabinet-dentaire-el-fassi-7hq2m",
	}

	subject, htmlBody, textBody := tmpl.SubmissionLinked(sub, dent)

	if !strings.Contains(subject, "attribuée") {
		t.Errorf("Subject should mention attribution, got: %s", subject)
	}

	htmlChecks := []string{
		"Dr. Salma El Fassi",
		"/dentiste/cabinet-dentaire-el-fassi-7hq2m",
		"/dashboard",
	}
	for _, check := range htmlChecks {
		if !strings.Contains(htmlBody, check) {
			t.Errorf("HTML body missing %q", check)
		}
	}

	if !strings.Contains(textBody, "/dentiste/cabinet-dentaire-el-fassi-7hq2m") {
		t.Error("Text body should contain listing URL")
	}
}

func TestTemplates_LeadReceived(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	dent := &models.Dentist{
		Name: "Dr. Amina Tazi",
		Slug: "dr-amina-tazi-k3x9p",
	}

	patientName := "Youssef Alami"
	email := "youssef@example.com"
	phone := "+212600112233"
	message := "Bonjour, je souhaite prendre rendez-vous."
	lead := &models.Lead{
		PatientName: &patientName,
		Email:       &email,
		Phone:       &phone,
		Message:     &message,
	}

	subject, htmlBody, textBody := tmpl.LeadReceived(dent, lead)

	if !strings.Contains(subject, "Nouveau message patient") {
		t.Errorf("Subject should announce a new message, got: %s", subject)
	}

	htmlChecks := []string{
		"Dr. Amina Tazi",
		"Youssef Alami",
		"youssef@example.com",
		"+212600112233",
		"je souhaite prendre rendez-vous",
		"/dashboard",
	}
	for _, check := range htmlChecks {
		if !strings.Contains(htmlBody, check) {
			t.Errorf("HTML body missing %q", check)
		}
	}

	textChecks := []string{
		"Youssef Alami",
		"youssef@example.com",
		"+212600112233",
	}
	for _, check := range textChecks {
		if !strings.Contains(textBody, check) {
			t.Errorf("Text body missing %q", check)
		}
	}
}

func TestTemplates_LeadReceived_AnonymousNoContact(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	dent := &models.Dentist{Name: "Dr. Amina Tazi", Slug: "dr-amina-tazi-k3x9p"}
	lead := &models.Lead{}

	_, htmlBody, textBody := tmpl.LeadReceived(dent, lead)

	if !strings.Contains(htmlBody, "Un patient") {
		t.Error("HTML body should fall back to anonymous label")
	}
	if !strings.Contains(textBody, "Un patient") {
		t.Error("Text body should fall back to anonymous label")
	}
	if strings.Contains(htmlBody, "Téléphone :") {
		t.Error("HTML body should omit phone row when absent")
	}
	if !strings.Contains(htmlBody, "pas laissé de coordonnées") {
		t.Error("HTML body should note the missing contact details")
	}
	if !strings.Contains(textBody, "pas laissé de coordonnées") {
		t.Error("Text body should note the missing contact details")
	}
}

func TestTemplates_HTMLEscaping(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	dent := &models.Dentist{Name: "Dr. Amina Tazi", Slug: "dr-amina-tazi-k3x9p"}
	patientName := "<script>evil</script>"
	message := "<img src=x onerror=alert('xss')>"
	lead := &models.Lead{
		PatientName: &patientName,
		Message:     &message,
	}

	_, htmlBody, _ := tmpl.LeadReceived(dent, lead)

	if strings.Contains(htmlBody, "<script>evil") {
		t.Error("HTML body should escape script tags in patient name")
	}
	if !strings.Contains(htmlBody, "&lt;script&gt;evil") {
		t.Error("HTML body should contain escaped patient name")
	}
	if strings.Contains(htmlBody, "<img src=x") {
		t.Error("HTML body should escape img tags in message")
	}
}
