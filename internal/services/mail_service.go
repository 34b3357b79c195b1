package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dlavelle7/LavelleBlog/internal/models"

	"gopkg.in/gomail.v2"
)

// MailService sends notification emails in the background. Disabled (a
// silent no-op) unless the SMTP environment variables are all present.
// Delivery is best effort: one attempt per event, failures are logged and
// never reach the caller.
type MailService struct {
	dialer  *gomail.Dialer
	from    string
	siteURL string
	Enabled bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
		return &MailService{Enabled: false, siteURL: siteURL}
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		log.Printf("MailService disabled: invalid SMTP_PORT %q", port)
		return &MailService{Enabled: false, siteURL: siteURL}
	}

	return &MailService{
		dialer:  gomail.NewDialer(host, portNum, user, pass),
		from:    from,
		siteURL: siteURL,
		Enabled: true,
	}
}

func (s *MailService) sendAsync(to, subject, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		m := gomail.NewMessage()
		m.SetHeader("From", s.from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", subject)
		m.SetBody("text/html", body)

		if err := s.dialer.DialAndSend(m); err != nil {
			log.Printf("Failed to send email to %s: %v", to, err)
			return
		}
		log.Printf("Email sent to %s: %s", to, subject)
	}()
}

func (s *MailService) parseTemplate(templateName string, data interface{}) (string, error) {
	path := filepath.Join("web", "templates", "email", templateName)
	t, err := template.ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

// SendFollowerNotification tells followed that follower started following
// them. The triggering request never waits on this.
func (s *MailService) SendFollowerNotification(followed, follower *models.User) {
	if !s.Enabled {
		return
	}
	body, err := s.parseTemplate("follower.html", map[string]interface{}{
		"User":       followed,
		"Follower":   follower,
		"ProfileURL": fmt.Sprintf("%s/u/%s", s.siteURL, follower.Nickname),
	})
	if err != nil {
		log.Printf("Error rendering follower email: %v", err)
		return
	}
	s.sendAsync(followed.Email, fmt.Sprintf("[microblog] %s is now following you!", follower.Nickname), body)
}
