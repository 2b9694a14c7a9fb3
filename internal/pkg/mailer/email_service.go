package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendExpiryWarning(toEmail, storeName string, daysLeft int) error
	SendSuspensionNotice(toEmail, storeName string) error
	SendDeletionNotice(toEmail, storeName string) error
	SendOrderConfirmation(toEmail, orderRef string, grossAmount int64) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", subject, toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] %q sent to %s\n", subject, toEmail)
	return nil
}

func (s *emailService) SendExpiryWarning(toEmail, storeName string, daysLeft int) error {
	renewLink := fmt.Sprintf("%s/vendor/billing", s.frontendURL)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your subscription is expiring soon</h2>
			<p>The subscription for <b>%s</b> expires in <b>%d days</b>.</p>
			<p>Renew now to keep your store, products and bookings online:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Renew Subscription</a>
			<p>If you already renewed, you can ignore this email.</p>
		</div>
	`, storeName, daysLeft, renewLink)

	return s.send(toEmail, fmt.Sprintf("Subscription expires in %d days", daysLeft), body)
}

func (s *emailService) SendSuspensionNotice(toEmail, storeName string) error {
	renewLink := fmt.Sprintf("%s/vendor/billing", s.frontendURL)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your store has been suspended</h2>
			<p>The subscription for <b>%s</b> has expired and the store is now hidden from buyers.</p>
			<p>You have 7 days to renew before your account and its data are permanently removed:</p>
			<a href="%s" style="background-color: #DC3545; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Renew Now</a>
		</div>
	`, storeName, renewLink)

	return s.send(toEmail, "Your store has been suspended", body)
}

func (s *emailService) SendDeletionNotice(toEmail, storeName string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your account has been removed</h2>
			<p>The grace period for <b>%s</b> ended without a renewal, so the store and its data have been removed.</p>
			<p>Order history visible to your buyers is kept for their records.</p>
			<p>You are welcome to sign up again at any time.</p>
		</div>
	`, storeName)

	return s.send(toEmail, "Your account has been removed", body)
}

func (s *emailService) SendOrderConfirmation(toEmail, orderRef string, grossAmount int64) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Payment received</h2>
			<p>We received your payment for order <b>%s</b>.</p>
			<h1 style="color: #4CAF50;">Rp %d</h1>
			<p>The vendors have been notified and will start processing your items.</p>
		</div>
	`, orderRef, grossAmount)

	return s.send(toEmail, fmt.Sprintf("Payment received for order %s", orderRef), body)
}
