package otpmail

import (
	"context"

	"github.com/tambo-labs/tambo/pkg/notifx"
)

const templateName = "otp-code"

const codeTemplate = `<html>
<body style="font-family: sans-serif;">
	<h2>Your verification code</h2>
	<p>Use this code to verify your email address:</p>
	<p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
	<p>The code expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>
</body>
</html>`

// Mailer delivers one-time codes by email through a notifx client.
type Mailer struct {
	client      *notifx.Client
	fromAddress string
	ttlMinutes  int
}

// NewMailer creates the mailer and registers its template with the client.
func NewMailer(client *notifx.Client, fromAddress string, ttlMinutes int) (*Mailer, error) {
	if err := client.RegisterTemplate(templateName, codeTemplate); err != nil {
		return nil, err
	}
	if ttlMinutes <= 0 {
		ttlMinutes = 5
	}
	return &Mailer{
		client:      client,
		fromAddress: fromAddress,
		ttlMinutes:  ttlMinutes,
	}, nil
}

// SendCode emails the code to the address.
func (m *Mailer) SendCode(ctx context.Context, email, code string) error {
	data := struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: m.ttlMinutes}

	return m.client.SendTemplatedEmail(ctx, templateName, data, notifx.EmailMessage{
		From:     m.fromAddress,
		To:       []string{email},
		Subject:  "Your verification code",
		TextBody: "Your verification code is " + code,
	})
}
