package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/config"
	"github.com/oksasatya/stands-ims/internal/application"
	"github.com/oksasatya/stands-ims/pkg/helpers"
	"github.com/oksasatya/stands-ims/pkg/mailer"
	mailtpl "github.com/oksasatya/stands-ims/pkg/mailer/templates"
	"github.com/oksasatya/stands-ims/pkg/response"
)

type EmailHandler struct {
	Pub    application.EmailPublisher
	Logger logrus.FieldLogger
	Cfg    *config.Config
}

func NewEmailHandler(pub application.EmailPublisher, logger logrus.FieldLogger, cfg *config.Config) *EmailHandler {
	return &EmailHandler{Pub: pub, Logger: logger, Cfg: cfg}
}

type sendEmailRequest struct {
	To       string         `json:"to" binding:"required,email"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
	Subject  string         `json:"subject"`
	Text     string         `json:"text"`
	HTML     string         `json:"html"`
}

// job turns the request into a queue payload, or returns the field errors.
func (r sendEmailRequest) job() (mailer.EmailJob, map[string]string) {
	if r.Template != "" {
		name := strings.ToLower(r.Template)
		if name != mailtpl.Universal && !slices.Contains(mailtpl.KnownTypes, name) {
			return mailer.EmailJob{}, map[string]string{"template": "must be one of: " + strings.Join(mailtpl.KnownTypes, ", ")}
		}
		return mailer.EmailJob{To: r.To, Template: name, Data: r.Data}, nil
	}
	problems := map[string]string{}
	if r.Subject == "" {
		problems["subject"] = "is required without a template"
	}
	if r.Text == "" && r.HTML == "" {
		problems["text"] = "text or html is required without a template"
	}
	if len(problems) > 0 {
		return mailer.EmailJob{}, problems
	}
	return mailer.EmailJob{To: r.To, Subject: r.Subject, Text: r.Text, HTML: r.HTML}, nil
}

// Send POST /api/email/send
func (h *EmailHandler) Send(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	job, problems := req.job()
	if problems != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", problems)
		return
	}

	if (h.Cfg != nil && !h.Cfg.MailSendEnabled) || h.Pub == nil {
		response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": false, "disabled": true}, "email sending disabled", nil)
		return
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		helpers.LogError(h.Logger, "publish email job failed", err, logrus.Fields{"to": job.To, "template": job.Template})
		response.Error[any](c, http.StatusBadGateway, "failed to enqueue", nil)
		return
	}
	response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": true}, "email enqueued", nil)
}
