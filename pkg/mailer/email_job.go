package mailer

import (
	"fmt"
	"slices"
	"strings"

	mailtpl "github.com/oksasatya/stands-ims/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "universal" or one of the universal types, e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}

// Normalize fills recipient fields and folds a bare email type into the universal template.
func (j *EmailJob) Normalize() {
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	for _, k := range []string{"Email", "RecipientEmail"} {
		if v, ok := j.Data[k]; !ok || fmt.Sprintf("%v", v) == "" {
			j.Data[k] = j.To
		}
	}

	name := strings.ToLower(j.Template)
	if slices.Contains(mailtpl.KnownTypes, name) {
		if v, ok := j.Data["Type"]; !ok || fmt.Sprintf("%v", v) == "" {
			j.Data["Type"] = name
		}
		j.Template = mailtpl.Universal
	}
}

// SubjectFor picks the subject line for a universal email from its Type.
func SubjectFor(data map[string]any) string {
	switch strings.ToLower(fmt.Sprintf("%v", data["Type"])) {
	case mailtpl.Welcome:
		return "Welcome to StAnds IMS"
	case mailtpl.VerifyEmail:
		return "Verify your email address"
	case mailtpl.ForgotPassword:
		return "Reset your password"
	case mailtpl.ProfileUpdated:
		return "Your profile was updated successfully"
	default:
		return "Notification"
	}
}
