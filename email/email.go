package email

import (
	"fmt"
	"os"
	"strconv"

	mail "gopkg.in/mail.v2"

	"codecritical/models"
)

type EmailService struct {
	host      string
	port      int
	user      string
	password  string
	from      string
	recipient string
}

func NewEmailService() *EmailService {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	recipient := os.Getenv("CONTACT_RECIPIENT")
	if recipient == "" {
		recipient = os.Getenv("SMTP_USER")
	}

	return &EmailService{
		host:      os.Getenv("SMTP_HOST"),
		port:      port,
		user:      os.Getenv("SMTP_USER"),
		password:  os.Getenv("SMTP_PASSWORD"),
		from:      os.Getenv("SMTP_FROM"),
		recipient: recipient,
	}
}

// SendContactNotification forwards a saved contact message to the site
// owner. Reply-To is set to the visitor so a plain reply reaches them.
func (e *EmailService) SendContactNotification(msg *models.ContactMessage) error {
	m := mail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.recipient)
	m.SetHeader("Reply-To", msg.Email)
	m.SetHeader("Subject", "[CodeCritical] "+msg.Subject)
	m.SetBody("text/plain", fmt.Sprintf(
		"Name: %s\nEmail: %s\n\nMessage:\n%s\n", msg.Name, msg.Email, msg.Message))

	dialer := mail.NewDialer(e.host, e.port, e.user, e.password)
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending contact notification: %w", err)
	}

	return nil
}
