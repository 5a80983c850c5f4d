// Package whatsapp builds wa.me deep links pre-filled with a templated
// message body. The URL is the entire contract with the messaging
// provider; nothing here talks to an API.
package whatsapp

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"text/template"
)

const captureMessage = `High-Priority Lead [{{.LeadID}}]: Interested in {{.PropertyRef}} ({{.PropertyType}}). Budget: {{.BudgetRange}}. Contact preferred via {{.ContactPreference}}. My name is {{.Name}}. Lead Reference: {{.ShortRef}}`

const greetingMessage = `مرحباً، أنا {{.Name}}. أنا مهتم بـ {{.Interest}}.

Hello, I am {{.Name}}. I am interested in {{.Interest}}.

رقم المرجع / Lead Reference: {{.ShortRef}}`

var (
	captureTmpl  = template.Must(template.New("capture").Option("missingkey=error").Parse(captureMessage))
	greetingTmpl = template.Must(template.New("greeting").Option("missingkey=error").Parse(greetingMessage))
)

// CaptureParams feed the showcase-funnel message template.
type CaptureParams struct {
	LeadID            string
	Name              string
	PropertyRef       string
	PropertyType      string
	BudgetRange       string
	ContactPreference string
}

// CaptureLink builds the deep link for a captured showcase lead.
func CaptureLink(agentNumber string, p CaptureParams) (string, error) {
	body, err := render(captureTmpl, map[string]string{
		"LeadID":            p.LeadID,
		"Name":              p.Name,
		"PropertyRef":       p.PropertyRef,
		"PropertyType":      p.PropertyType,
		"BudgetRange":       p.BudgetRange,
		"ContactPreference": p.ContactPreference,
		"ShortRef":          ShortRef(p.LeadID),
	})
	if err != nil {
		return "", err
	}
	return Link(agentNumber, body), nil
}

// GreetingLink builds the bilingual deep link for a landing-form lead.
func GreetingLink(agentNumber, leadID, name, interest string) (string, error) {
	body, err := render(greetingTmpl, map[string]string{
		"Name":     name,
		"Interest": interest,
		"ShortRef": ShortRef(leadID),
	})
	if err != nil {
		return "", err
	}
	return Link(agentNumber, body), nil
}

// Link assembles https://wa.me/<number-without-plus>?text=<encoded body>.
func Link(agentNumber, body string) string {
	number := strings.TrimPrefix(strings.TrimSpace(agentNumber), "+")
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, encodeBody(body))
}

// ShortRef is the human-quotable fragment of a lead identifier.
func ShortRef(leadID string) string {
	if len(leadID) <= 8 {
		return leadID
	}
	return leadID[:8]
}

// encodeBody matches percent-style encoding (spaces as %20, not +) so
// the text survives the wa.me redirect intact.
func encodeBody(body string) string {
	return strings.ReplaceAll(url.QueryEscape(body), "+", "%20")
}

func render(t *template.Template, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("whatsapp: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
