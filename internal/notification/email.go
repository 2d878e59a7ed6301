package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

const (
	approvalSubject     = "FuelGo Registration APPROVED - Welcome to FuelGo!"
	resubmissionSubject = "FuelGo Registration - Document Review Required"
)

var approvalTemplate = template.Must(template.New("approval").Parse(`<html><body>
	<p>Dear {{.Name}},</p>
	<p>Congratulations! Your gas station registration has been <strong>APPROVED</strong>.</p>
	<p><strong>Your Registration Details:</strong></p>
	<ul>
		<li>Name: {{.Name}}</li>
		<li>Station: {{.Station}}</li>
		<li>Status: APPROVED</li>
	</ul>
	<p><strong>Next Steps:</strong></p>
	<p>You can now log into your owner account and start managing your gas station.
	Upload fuel prices, manage inventory, and serve customers through the FuelGo platform.</p>
	<p>If you have any questions or need assistance, don't hesitate to reply to this email.</p>
	<p>Best regards,<br/>
	The FuelGo Team<br/>
	FuelGo System Admin</p>
</body></html>`))

var resubmissionTemplate = template.Must(template.New("resubmission").Parse(`<html><body>
	<p>Dear {{.Name}},</p>
	<p>Your registration requires document review.</p>
	<p><strong>Details:</strong></p>
	<ul>
		<li>Name: {{.Name}}</li>
		<li>Station: {{.Station}}</li>
		<li>Status: Resubmission</li>
	</ul>
	{{if .Reason}}<p><strong>Reason:</strong> {{.Reason}}</p>{{end}}
	<p>Please resubmit with clearer documents (check for blurry images, expired IDs, or missing info).</p>
	<p>Reply if you have questions.</p>
	<p>Best regards,<br/>
	The FuelGo Team</p>
</body></html>`))

type emailData struct {
	Name    string
	Station string
	Reason  string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

type EmailService struct {
	config EmailConfig
}

func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendApprovalEmail notifies a station owner that their registration was
// approved.
func (s *EmailService) SendApprovalEmail(to, name, station string) error {
	subject, body, err := renderApproval(name, station)
	if err != nil {
		return err
	}
	return s.sendEmail(to, subject, body)
}

// SendResubmissionEmail notifies a station owner that their registration
// documents need to be resubmitted. Reason is optional free text.
func (s *EmailService) SendResubmissionEmail(to, name, station, reason string) error {
	subject, body, err := renderResubmission(name, station, reason)
	if err != nil {
		return err
	}
	return s.sendEmail(to, subject, body)
}

func renderApproval(name, station string) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := approvalTemplate.Execute(&buf, emailData{Name: name, Station: station}); err != nil {
		return "", "", fmt.Errorf("failed to render approval email: %w", err)
	}
	return approvalSubject, buf.String(), nil
}

func renderResubmission(name, station, reason string) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := resubmissionTemplate.Execute(&buf, emailData{Name: name, Station: station, Reason: reason}); err != nil {
		return "", "", fmt.Errorf("failed to render resubmission email: %w", err)
	}
	return resubmissionSubject, buf.String(), nil
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg))
}
