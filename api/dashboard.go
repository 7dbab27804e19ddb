package api

import (
	"context"
	"log"
	"time"

	"estudio/database"
	"estudio/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DashboardHandler painel com os números do mês
type DashboardHandler struct{}

// NewDashboardHandler cria o handler do painel
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// DashboardStats estatísticas do painel
type DashboardStats struct {
	TotalClients         int64   `json:"total_clients" example:"42"`
	TotalServices        int64   `json:"total_services" example:"6"`
	MonthlyIncome        float64 `json:"monthly_income" example:"4200.00"`
	MonthlyExpense       float64 `json:"monthly_expense" example:"1100.00"`
	MonthlyBalance       float64 `json:"monthly_balance" example:"3100.00"`
	YearlyIncome         float64 `json:"yearly_income" example:"38500.00"`
	UpcomingAppointments int64   `json:"upcoming_appointments" example:"3"`
}

// Get devolve as estatísticas do painel
// @Summary Painel
// @Description Total de clientes e serviços, receitas/despesas do mês corrente, receitas do ano e agendamentos futuros. As seis consultas rodam em paralelo; qualquer falha aborta o cálculo inteiro.
// @Tags painel
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=DashboardStats} "ok"
// @Failure 401 {object} Response "não autorizado"
// @Failure 500 {object} Response "falha em alguma das consultas"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	stats, err := ComputeDashboard(c.Request.Context(), database.DB, time.Now())
	if err != nil {
		// sem retry: o painel mantém os números anteriores no cliente
		log.Printf("painel: falha ao agregar estatísticas: %v", err)
		InternalError(c, SafeErrorMessage(err, "falha ao montar o painel"))
		return
	}
	Success(c, stats)
}

// ComputeDashboard agrega as estatísticas relativas a "now".
// Mês e ano são os do calendário local, com os dois limites inclusos; listas
// vazias somam zero. As consultas correm em paralelo e a primeira falha
// cancela as demais.
func ComputeDashboard(ctx context.Context, db *gorm.DB, now time.Time) (*DashboardStats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	yearEnd := time.Date(now.Year(), 12, 31, 23, 59, 59, 0, now.Location())

	var stats DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Client{}).
			Count(&stats.TotalClients).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Service{}).
			Count(&stats.TotalServices).Error
	})
	g.Go(func() error {
		return sumTransactions(gctx, db, models.TypeIncome, monthStart, monthEnd, &stats.MonthlyIncome)
	})
	g.Go(func() error {
		return sumTransactions(gctx, db, models.TypeExpense, monthStart, monthEnd, &stats.MonthlyExpense)
	})
	g.Go(func() error {
		return sumTransactions(gctx, db, models.TypeIncome, yearStart, yearEnd, &stats.YearlyIncome)
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Appointment{}).
			Where("status = ? AND start_date >= ?", models.StatusScheduled, now).
			Count(&stats.UpcomingAppointments).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.MonthlyBalance = models.Round2(stats.MonthlyIncome - stats.MonthlyExpense)
	return &stats, nil
}

// sumTransactions soma os lançamentos de um tipo dentro do intervalo
func sumTransactions(ctx context.Context, db *gorm.DB, txType string, start, end time.Time, out *float64) error {
	return db.WithContext(ctx).Model(&models.Transaction{}).
		Where("type = ? AND transaction_date >= ? AND transaction_date <= ?", txType, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(out).Error
}
