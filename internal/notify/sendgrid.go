package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const crisisEmailSubject = "We're here for you - support resources from NariCare"

// SendGridConfig SendGrid v3 API 配置
type SendGridConfig struct {
	BaseURL   string
	APIKey    string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridMessage struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// SendGridMailer 通过 SendGrid 发送危机邮件（不重试）
type SendGridMailer struct {
	httpClient *resty.Client
	from       sendGridAddress
	logger     *zap.Logger
}

func NewSendGridMailer(cfg SendGridConfig, logger *zap.Logger) *SendGridMailer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &SendGridMailer{
		httpClient: client,
		from:       sendGridAddress{Email: cfg.FromEmail, Name: cfg.FromName},
		logger:     logger,
	}
}

var _ CrisisNotifier = (*SendGridMailer)(nil)

func (m *SendGridMailer) SendCrisisEmail(ctx context.Context, toEmail, firstName string, resources domain.CrisisResources) error {
	if toEmail == "" {
		return fmt.Errorf("recipient email is required")
	}

	htmlBody, err := renderCrisisHTML(firstName, resources)
	if err != nil {
		return fmt.Errorf("failed to render crisis email: %w", err)
	}

	msg := sendGridMessage{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{{Email: toEmail, Name: firstName}}},
		},
		From:    m.from,
		Subject: crisisEmailSubject,
		Content: []sendGridContent{
			{Type: "text/plain", Value: renderCrisisText(firstName, resources)},
			{Type: "text/html", Value: htmlBody},
		},
	}

	resp, err := m.httpClient.R().
		SetContext(ctx).
		SetBody(msg).
		Post("/v3/mail/send")
	if err != nil {
		return fmt.Errorf("failed to call SendGrid API: %w", err)
	}
	if !resp.IsSuccess() {
		m.logger.Error("SendGrid API returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return fmt.Errorf("SendGrid API error: status %d", resp.StatusCode())
	}

	m.logger.Info("Crisis email accepted by SendGrid", zap.Int("status_code", resp.StatusCode()))
	return nil
}

func greetingName(firstName string) string {
	if strings.TrimSpace(firstName) == "" {
		return "there"
	}
	return firstName
}

func renderCrisisText(firstName string, r domain.CrisisResources) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", greetingName(firstName))
	b.WriteString(domain.CrisisSupportMessage)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Suicide & Crisis Lifeline: call or text %s\n", r.CrisisHotline)
	fmt.Fprintf(&b, "Crisis Text Line: text HOME to %s\n", r.TextLine)
	fmt.Fprintf(&b, "National Maternal Mental Health Hotline: %s\n", r.MaternalHotline)
	fmt.Fprintf(&b, "Emergency: %s\n", r.Emergency)
	fmt.Fprintf(&b, "Local support: %s\n\n", r.LocalResources)
	b.WriteString("With care,\nThe NariCare team\n")
	return b.String()
}

var crisisHTMLTemplate = template.Must(template.New("crisis").Parse(`<p>Hi {{.Name}},</p>
<p>{{.Message}}</p>
<ul>
<li>Suicide &amp; Crisis Lifeline: call or text <strong>{{.Resources.CrisisHotline}}</strong></li>
<li>Crisis Text Line: text HOME to <strong>{{.Resources.TextLine}}</strong></li>
<li>National Maternal Mental Health Hotline: <strong>{{.Resources.MaternalHotline}}</strong></li>
<li>Emergency: <strong>{{.Resources.Emergency}}</strong></li>
<li>Local support: <a href="{{.Resources.LocalResources}}">{{.Resources.LocalResources}}</a></li>
</ul>
<p>With care,<br>The NariCare team</p>`))

func renderCrisisHTML(firstName string, r domain.CrisisResources) (string, error) {
	var buf bytes.Buffer
	err := crisisHTMLTemplate.Execute(&buf, struct {
		Name      string
		Message   string
		Resources domain.CrisisResources
	}{
		Name:      greetingName(firstName),
		Message:   domain.CrisisSupportMessage,
		Resources: r,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
