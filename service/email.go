package service

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"saldoplus/config"
)

// EmailService sends transactional mail over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates an email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendPasswordResetEmail mails a tokenized reset link to the user.
func (s *EmailService) SendPasswordResetEmail(toEmail, username, resetLink string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service disabled, set FINANCE_EMAIL_ENABLED=true")
	}

	subject := "[Saldo+] Redefinição de senha"
	body := s.generateResetEmailBody(username, resetLink)

	return s.sendEmail(toEmail, subject, body)
}

// generateResetEmailBody renders the pt-BR reset mail.
func (s *EmailService) generateResetEmailBody(username, resetLink string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #00b894, #00cec9); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .btn { display: inline-block; background: linear-gradient(135deg, #00b894, #00cec9); color: white !important; text-decoration: none; padding: 14px 40px; border-radius: 8px; font-weight: 600; margin: 20px 0; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .warning p { margin: 0; color: #856404; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
        .link { word-break: break-all; color: #00b894; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 Saldo+</h1>
        </div>
        <div class="content">
            <p>Olá, <strong>%s</strong>!</p>
            <p>Recebemos um pedido para redefinir a sua senha. Clique no botão abaixo para continuar:</p>
            <p style="text-align: center;">
                <a href="%s" class="btn">Redefinir senha</a>
            </p>
            <div class="warning">
                <p>⚠️ Este link expira em <strong>30 minutos</strong>.</p>
                <p>⚠️ Se você não pediu a redefinição, ignore este e-mail.</p>
            </div>
            <p>Se o botão não funcionar, copie o link abaixo no navegador:</p>
            <p class="link">%s</p>
        </div>
        <div class="footer">
            <p>E-mail automático, não responda</p>
            <p>© Saldo+ — seu assistente de finanças pessoais</p>
        </div>
    </div>
</body>
</html>
`, username, resetLink, resetLink)
}

// sendEmail dials SMTP and delivers one HTML message.
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
