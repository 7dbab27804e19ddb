package service

import (
	"fmt"
	"strings"

	"estudio/config"
	"estudio/models"

	"gopkg.in/gomail.v2"
)

// EmailService serviço de e-mail
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService cria o serviço de e-mail
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendAppointmentReminder envia ao estúdio o resumo dos agendamentos do dia
// seguinte.
func (s *EmailService) SendAppointmentReminder(appointments []models.Appointment) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("serviço de e-mail desativado, configure email.enabled=true")
	}
	if s.cfg.To == "" {
		return fmt.Errorf("destinatário não configurado (email.to)")
	}

	subject := fmt.Sprintf("[Estúdio] %d agendamento(s) para amanhã", len(appointments))
	body := s.generateReminderBody(appointments)

	return s.sendEmail(s.cfg.To, subject, body)
}

// generateReminderBody gera o corpo do lembrete
func (s *EmailService) generateReminderBody(appointments []models.Appointment) string {
	var rows strings.Builder
	for _, a := range appointments {
		clientName := "—"
		if a.Client != nil {
			clientName = a.Client.Name
		}
		location := a.Location
		if location == "" {
			location = "—"
		}
		rows.WriteString(fmt.Sprintf(`
        <tr>
            <td>%s</td>
            <td>%s</td>
            <td>%s – %s</td>
            <td>%s</td>
        </tr>`,
			a.Title,
			clientName,
			a.StartDate.Format("15:04"),
			a.EndDate.Format("15:04"),
			location,
		))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #7c3aed, #5b21b6); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 30px; }
        table { width: 100%%; border-collapse: collapse; }
        th { text-align: left; color: #6c757d; font-size: 12px; text-transform: uppercase; padding: 8px; border-bottom: 2px solid #e9ecef; }
        td { padding: 10px 8px; border-bottom: 1px solid #e9ecef; color: #333; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>📷 Agenda de amanhã</h1>
        </div>
        <div class="content">
            <table>
                <tr><th>Sessão</th><th>Cliente</th><th>Horário</th><th>Local</th></tr>%s
            </table>
        </div>
        <div class="footer">
            <p>E-mail automático, não responda</p>
        </div>
    </div>
</body>
</html>
`, rows.String())
}

// sendEmail envia um e-mail
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("falha ao enviar e-mail: %w", err)
	}

	return nil
}

// SendTestEmail envia um e-mail de teste de configuração
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("serviço de e-mail desativado")
	}

	subject := "[Estúdio] Teste de configuração de e-mail"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ Configuração de e-mail funcionando</h2>
    <p>Se você recebeu esta mensagem, o serviço de e-mail está correto.</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}
