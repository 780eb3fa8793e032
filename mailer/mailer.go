package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer is the notification gateway. A failed send is returned to the caller
// and surfaced as a 502 instead of being dropped inside the request handler.
type Mailer interface {
	SendOTP(toEmail, name, otp, purpose string) error
}

type SendGridMailer struct {
	apiKey     string
	fromEmail  string
	senderName string
}

func NewSendGridMailer(apiKey, fromEmail, senderName string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		senderName: senderName,
	}
}

// SendOTP mails a one-time code. purpose names the flow and lands in the
// subject line: "registration", "login", "email update", "password reset",
// "superadmin registration".
func (m *SendGridMailer) SendOTP(toEmail, name, otp, purpose string) error {
	from := mail.NewEmail(m.senderName, m.fromEmail)
	to := mail.NewEmail(name, toEmail)
	subject := "OTP for " + purpose
	plain := fmt.Sprintf("Your OTP is %s valid for 3 minutes", otp)

	message := mail.NewSingleEmail(from, subject, to, plain, otpTemplate(otp))
	client := sendgrid.NewSendClient(m.apiKey)

	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send OTP email: status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func otpTemplate(otp string) string {
	return fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);">
					<h2 style="color: #333333; text-align: center;">CourseHub Verification</h2>
					<p style="font-size: 16px; color: #555555; text-align: center;">Your One Time Password (OTP) is:</p>
					<h1 style="text-align: center; color: #4CAF50; font-size: 40px; margin: 20px 0;">%s</h1>
					<p style="font-size: 14px; color: #999999; text-align: center;">Valid for 3 minutes. Do not share this OTP with anyone.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Thank you for using our service.</p>
				</div>
			</body>
		</html>
	`, otp)
}
