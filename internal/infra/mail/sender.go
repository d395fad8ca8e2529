package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

// SendConfirmation mails the "your seat is saved" message. The template
// branches on is_programmer so programmers get the advanced-track pitch.
func (s *EmailSender) SendConfirmation(to string, isProgrammer bool) error {
	data := ConfirmationEmailData{
		EventName:    "AI Code Pro",
		IsProgrammer: isProgrammer,
	}

	tmplPath := filepath.Join("templates", "confirmation.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("parse confirmation template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("render confirmation template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "no-reply@aicodepro.com")
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your seat at AI Code Pro is saved 🎓")
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}

	return nil
}
