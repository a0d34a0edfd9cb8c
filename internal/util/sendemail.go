package util

import (
	"gopkg.in/gomail.v2"
)

func SendEmail(smtpHost string, smtpPort int, senderName string, senderEmail string, senderPassowrd string, receiverEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", senderEmail, senderName)
	mailer.SetHeader("To", receiverEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	dialer := gomail.NewDialer(
		smtpHost,
		smtpPort,
		senderEmail,
		senderPassowrd,
	)

	err := dialer.DialAndSend(mailer)
	if err != nil {
		return err
	}

	return nil
}

// SMTPMailer binds SendEmail to one sender account.
type SMTPMailer struct {
	Host           string
	Port           int
	SenderName     string
	SenderEmail    string
	SenderPassword string
}

func (mailer SMTPMailer) Send(receiverEmail string, subject string, body string) error {
	return SendEmail(mailer.Host, mailer.Port, mailer.SenderName, mailer.SenderEmail, mailer.SenderPassword, receiverEmail, subject, body)
}
