package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"thrift-market/config"
	"thrift-market/models"
)

// EmailService sends transactional mail over SMTP. Construction fails when
// SMTP is not configured; callers treat a nil service as "mail disabled".
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(cfg *config.Config) (*EmailService, error) {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	return &EmailService{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.SMTPFrom,
	}, nil
}

func (s *EmailService) SendOTP(toEmail, otp string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your verification code - Thrift Market")

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
    <div style="max-width: 500px; margin: auto; background-color: #fff; border-radius: 8px; padding: 24px;">
        <h2 style="color: #333;">Email Verification</h2>
        <p style="font-size: 15px; color: #555;">Your one-time code is:</p>
        <div style="font-size: 32px; font-weight: bold; color: #16a34a; text-align: center; letter-spacing: 8px; margin: 20px 0;">%s</div>
        <p style="font-size: 13px; color: #999;">
            This code expires in 10 minutes. Do not share it with anyone.<br><br>
            Thrift Market Team
        </p>
    </div>
</body>
</html>
	`, otp)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) SendOrderConfirmation(toEmail string, order *models.Order) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Order confirmation #%d - Thrift Market", order.ID))

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
    <div style="max-width: 500px; margin: auto; background-color: #fff; border-radius: 8px; padding: 24px;">
        <h2 style="color: #333;">Thanks for your order!</h2>
        <div style="background-color: #f0fdf4; padding: 16px; border-radius: 8px; margin: 16px 0;">
            <p><strong>Order:</strong> #%d</p>
            <p><strong>Items:</strong> %d</p>
            <p><strong>Total:</strong> %s</p>
        </div>
        <p style="font-size: 14px; color: #555;">
            Your order has been received and the sellers have been notified.
        </p>
        <p style="font-size: 13px; color: #999;">Thrift Market Team</p>
    </div>
</body>
</html>
	`, order.ID, len(order.Items), order.TotalAmount.StringFixed(2))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
