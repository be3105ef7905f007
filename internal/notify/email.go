// Package notify delivers finished conversation transcripts to their owner.
package notify

import (
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"brookschat/internal/config"
	"brookschat/internal/models"

	mail "github.com/wneessen/go-mail"
)

// EmailSink emails conversation transcripts over SMTP. It satisfies
// session.NotificationSink; delivery failures are logged and reported as
// false, never raised.
type EmailSink struct {
	cfg config.EmailConfig
	now func() time.Time
}

// NewEmailSink validates the SMTP configuration and returns the sink, or nil
// if email is not configured (a nil sink simply retains sessions).
func NewEmailSink(cfg config.EmailConfig) *EmailSink {
	if cfg.SMTPHost == "" || cfg.Sender == "" || cfg.Password == "" || cfg.Recipient == "" {
		log.Printf("email configuration incomplete, transcript export disabled")
		return nil
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	return &EmailSink{cfg: cfg, now: time.Now}
}

// Deliver renders the transcript as HTML and sends it. Reports success.
func (s *EmailSink) Deliver(sessionID string, transcript []models.Message) bool {
	if s == nil {
		return false
	}
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.Sender); err != nil {
		log.Printf("email sink: invalid sender: %v", err)
		return false
	}
	if err := msg.To(s.cfg.Recipient); err != nil {
		log.Printf("email sink: invalid recipient: %v", err)
		return false
	}
	msg.Subject(fmt.Sprintf("New Chat with AI - %s", s.now().Format("2006-01-02 15:04")))
	msg.SetBodyString(mail.TypeTextHTML, RenderTranscript(sessionID, transcript, s.now()))

	client, err := mail.NewClient(s.cfg.SMTPHost,
		mail.WithPort(s.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Sender),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		log.Printf("email sink: create client: %v", err)
		return false
	}
	if err := client.DialAndSend(msg); err != nil {
		log.Printf("email sink: send transcript for session %s: %v", sessionID, err)
		return false
	}
	return true
}

// RenderTranscript produces the HTML body for an exported conversation.
func RenderTranscript(sessionID string, transcript []models.Message, at time.Time) string {
	var b strings.Builder
	b.WriteString("<html>\n<body>\n")
	b.WriteString("<h2>New Conversation with Your AI</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Time:</strong> %s</p>\n", at.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "<p><strong>Session:</strong> %s</p>\n", html.EscapeString(sessionID))
	for _, msg := range transcript {
		b.WriteString("<hr>\n")
		switch msg.Role {
		case models.RoleUser:
			b.WriteString("<h3>User Message:</h3>\n")
		default:
			b.WriteString("<h3>AI Response:</h3>\n")
		}
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(msg.Content))
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
