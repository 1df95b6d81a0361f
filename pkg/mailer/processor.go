package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/stands-ims/pkg/mailer/templates"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota
	Drop            // nack without requeue
	Requeue         // nack with requeue
)

var errEmptyBody = errors.New("job has neither template nor body")

// Processor turns queued email jobs into sent mail.
type Processor struct {
	Sender      Sender
	Logger      logrus.FieldLogger
	SendTimeout time.Duration
}

func NewProcessor(sender Sender, logger logrus.FieldLogger) *Processor {
	return &Processor{Sender: sender, Logger: logger, SendTimeout: 15 * time.Second}
}

// Handle decodes, renders and sends one job. Malformed or unrenderable jobs are
// dropped; delivery failures are requeued.
func (p *Processor) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil || job.To == "" {
		p.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	job.Normalize()

	subject, text, html, err := render(job)
	if err != nil {
		p.Logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, p.SendTimeout)
	defer cancel()
	if err := p.Sender.Send(c, job.To, subject, text, html); err != nil {
		p.Logger.WithError(err).WithField("to", job.To).Warn("send failed")
		return Requeue
	}
	p.Logger.WithField("to", job.To).WithField("subject", subject).Info("email sent")
	return Ack
}

func render(job EmailJob) (subject, text, html string, err error) {
	switch {
	case strings.EqualFold(job.Template, mailtpl.Universal):
		text, html, err = mailtpl.Render(mailtpl.Universal, job.Data)
		if err != nil {
			return "", "", "", err
		}
		subject = job.Subject
		if subject == "" {
			subject = SubjectFor(job.Data)
		}
		return subject, text, html, nil
	case job.Template != "":
		text, html, err = mailtpl.Render(job.Template, job.Data)
		return job.Subject, text, html, err
	case job.Text == "" && job.HTML == "":
		return "", "", "", errEmptyBody
	default:
		return job.Subject, job.Text, job.HTML, nil
	}
}
