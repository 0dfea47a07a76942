package mailer

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Send delivers a single email through SendGrid. Failures are returned so
// the caller can log them; nothing here blocks or retries.
func Send(to, subject, htmlBody string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "noreply@storefront.local"
	}

	fromEmail := mail.NewEmail("Storefront", from)
	toEmail := mail.NewEmail("", to)
	message := mail.NewSingleEmail(fromEmail, subject, toEmail, "", htmlBody)

	response, err := sendgrid.NewSendClient(apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}

	log.Printf("[mailer] mail sent: status=%d to=%s subject=%s", response.StatusCode, to, subject)
	return nil
}

// SendAsync fires the email in the background. Delivery is best effort;
// errors are logged, never propagated.
func SendAsync(to, subject, htmlBody string) {
	go func() {
		if err := Send(to, subject, htmlBody); err != nil {
			log.Printf("[mailer] send failed for %s: %v", to, err)
		}
	}()
}
