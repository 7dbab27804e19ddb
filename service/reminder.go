package service

import (
	"log"
	"time"

	"estudio/config"
	"estudio/database"
	"estudio/models"

	"github.com/robfig/cron/v3"
)

// ReminderScheduler job diário que envia por e-mail a agenda do dia seguinte.
// Melhor esforço: falhas são apenas registradas no log.
type ReminderScheduler struct {
	cron  *cron.Cron
	email *EmailService
	spec  string
}

// NewReminderScheduler cria o agendador de lembretes
func NewReminderScheduler(cfg *config.Config) *ReminderScheduler {
	return &ReminderScheduler{
		cron:  cron.New(),
		email: NewEmailService(&cfg.Email),
		spec:  cfg.Email.ReminderCron,
	}
}

// Start registra e inicia o job
func (s *ReminderScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.SendDailyReminder); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("lembretes de agendamento ativados (cron: %s)", s.spec)
	return nil
}

// Stop encerra o agendador
func (s *ReminderScheduler) Stop() {
	s.cron.Stop()
}

// SendDailyReminder envia os agendamentos de amanhã com status scheduled
func (s *ReminderScheduler) SendDailyReminder() {
	appointments, err := TomorrowAppointments(time.Now())
	if err != nil {
		log.Printf("lembrete: falha ao consultar agendamentos: %v", err)
		return
	}
	if len(appointments) == 0 {
		return
	}
	if err := s.email.SendAppointmentReminder(appointments); err != nil {
		log.Printf("lembrete: falha ao enviar e-mail: %v", err)
	}
}

// TomorrowAppointments consulta os agendamentos do dia seguinte a "now"
func TomorrowAppointments(now time.Time) ([]models.Appointment, error) {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	end := tomorrow.AddDate(0, 0, 1).Add(-time.Second)

	var appointments []models.Appointment
	err := database.DB.
		Preload("Client").
		Where("status = ? AND start_date >= ? AND start_date <= ?", models.StatusScheduled, tomorrow, end).
		Order("start_date ASC").
		Find(&appointments).Error
	return appointments, err
}
