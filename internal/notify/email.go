package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailSender interface {
	SendTeamInvite(email, teamName, inviterName string) error
	SendDueReminder(email, taskTitle, projectName string) error
}

type emailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailSender(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailSender {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailSender{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailSender) SendTeamInvite(email, teamName, inviterName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("You were added to %s", teamName))

	body := fmt.Sprintf(`
		<h2>You were added to %s</h2>
		<p>%s added you to the team <strong>%s</strong>.</p>
		<p>Sign in to see the team's projects and tasks.</p>
	`, teamName, inviterName, teamName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send team invite email: %w", err)
	}

	return nil
}

func (s *emailSender) SendDueReminder(email, taskTitle, projectName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Task due soon: %s", taskTitle))

	body := fmt.Sprintf(`
		<h3>Task due soon</h3>
		<p>The task <strong>%s</strong> in project <strong>%s</strong> is due within 24 hours.</p>
	`, taskTitle, projectName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send due reminder email: %w", err)
	}

	return nil
}
