package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/fjod/evermarket/internal/cart"
	"github.com/shopspring/decimal"
)

const (
	invoiceSubject = "Invoice from Evermarket"
	resetSubject   = "Password Reset"

	salesAddress = "sales@evermarket.com"
	helpAddress  = "help@evermarket.com"
)

// Mailer delivers a single plain-text email.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// BuildInvoiceBody renders the purchase summary, one line per cart
// entry plus the grand total.
func BuildInvoiceBody(username string, lines []cart.Entry, total decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\nThank you for your purchase!\nPlease find the details of your purchase below:\n\n", username)

	if len(lines) == 0 {
		b.WriteString("No items found in cart.")
	} else {
		for i, line := range lines {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%d x %s @ R%s - R%s",
				line.Quantity, line.Name, line.UnitPrice.String(), line.Subtotal().String())
		}
	}

	fmt.Fprintf(&b, "\nTotal: R%s\n\nIf you require further assistance with your order, don't hesitate to contact us at %s.\nWe hope to see you again!",
		total.String(), helpAddress)
	return b.String()
}

func BuildPasswordResetBody(username, resetURL string) string {
	return fmt.Sprintf("Hi %s,\nHere is your link to reset your password: %s", username, resetURL)
}

type SMTPMailer struct {
	addr     string
	username string
	password string
	host     string
}

func NewSMTPMailer(host, port, username, password string) *SMTPMailer {
	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%s", host, port),
		username: username,
		password: password,
		host:     host,
	}
}

func (m *SMTPMailer) Send(_ context.Context, from, to, subject, body string) error {
	msg := []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	var a smtp.Auth
	if m.username != "" {
		a = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(m.addr, a, from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// PasswordResetSender mails reset links synchronously; the flow is
// user-initiated so there is no outbox hop.
type PasswordResetSender struct {
	mailer Mailer
}

func NewPasswordResetSender(mailer Mailer) *PasswordResetSender {
	return &PasswordResetSender{mailer: mailer}
}

func (s *PasswordResetSender) SendPasswordReset(ctx context.Context, username, email, resetURL string) error {
	return s.mailer.Send(ctx, helpAddress, email, resetSubject, BuildPasswordResetBody(username, resetURL))
}
