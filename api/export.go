package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"estudio/database"
	"estudio/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler relatórios do caixa
type ExportHandler struct{}

// NewExportHandler cria o handler de relatórios
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportRange interpreta e valida o intervalo de datas da query string
func exportRange(c *gin.Context) (start, end time.Time, label string, ok bool) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")

	if startStr == "" || endStr == "" {
		BadRequest(c, "informe start_date e end_date")
		return
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		BadRequest(c, "start_date inválido, use o formato 2006-01-02")
		return
	}
	end, err = time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "end_date inválido, use o formato 2006-01-02")
		return
	}
	// o dia final entra por inteiro
	end = end.Add(24*time.Hour - time.Second)
	label = fmt.Sprintf("%s_%s", startStr, endStr)
	ok = true
	return
}

// fetchTransactions busca os lançamentos do intervalo com categoria e cliente
func fetchTransactions(c *gin.Context, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := database.DB.WithContext(c.Request.Context()).
		Preload("Category").Preload("Client").
		Where("transaction_date >= ? AND transaction_date <= ?", start, end).
		Order("transaction_date ASC").
		Find(&transactions).Error
	return transactions, err
}

func transactionTypeLabel(t string) string {
	if t == models.TypeIncome {
		return "Receita"
	}
	return "Despesa"
}

// ExportCSV exporta os lançamentos do período em CSV
// @Summary Exportar lançamentos (CSV)
// @Description Exporta os lançamentos do intervalo em CSV (com BOM para abrir corretamente no Excel)
// @Tags relatórios
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string true "data inicial (2025-01-01)"
// @Param end_date query string true "data final (2025-12-31)"
// @Success 200 {file} file "arquivo CSV"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Failure 401 {object} Response "não autorizado"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	start, end, label, ok := exportRange(c)
	if !ok {
		return
	}

	transactions, err := fetchTransactions(c, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}

	buf := new(bytes.Buffer)
	// BOM para o Excel reconhecer UTF-8
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"Data", "Tipo", "Valor", "Descrição", "Categoria", "Cliente"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "falha ao gerar o CSV")
		return
	}

	for _, tx := range transactions {
		categoryName := ""
		if tx.Category != nil {
			categoryName = tx.Category.Name
		}
		clientName := ""
		if tx.Client != nil {
			clientName = tx.Client.Name
		}
		row := []string{
			tx.TransactionDate.Format("2006-01-02"),
			transactionTypeLabel(tx.Type),
			fmt.Sprintf("%.2f", tx.Amount),
			tx.Description,
			categoryName,
			clientName,
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "falha ao gerar o CSV")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "falha ao gerar o CSV")
		return
	}

	filename := fmt.Sprintf("caixa_%s.csv", label)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel exporta os lançamentos do período em Excel
// @Summary Exportar lançamentos (Excel)
// @Description Exporta os lançamentos do intervalo numa planilha, com totais de receita, despesa e saldo ao final
// @Tags relatórios
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string true "data inicial (2025-01-01)"
// @Param end_date query string true "data final (2025-12-31)"
// @Success 200 {file} file "arquivo XLSX"
// @Failure 400 {object} Response "parâmetros inválidos"
// @Failure 401 {object} Response "não autorizado"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	start, end, label, ok := exportRange(c)
	if !ok {
		return
	}

	transactions, err := fetchTransactions(c, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "falha na consulta"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Caixa"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Data", "Tipo", "Valor", "Descrição", "Categoria", "Cliente"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	var totalIncome, totalExpense float64
	for row, tx := range transactions {
		categoryName := ""
		if tx.Category != nil {
			categoryName = tx.Category.Name
		}
		clientName := ""
		if tx.Client != nil {
			clientName = tx.Client.Name
		}
		values := []interface{}{
			tx.TransactionDate.Format("2006-01-02"),
			transactionTypeLabel(tx.Type),
			tx.Amount,
			tx.Description,
			categoryName,
			clientName,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
		if tx.Type == models.TypeIncome {
			totalIncome += tx.Amount
		} else {
			totalExpense += tx.Amount
		}
	}

	// linha de totais
	summaryRow := len(transactions) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Receitas")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), models.Round2(totalIncome))
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Despesas")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+1), models.Round2(totalExpense))
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+2), "Saldo")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+2), models.Round2(totalIncome-totalExpense))

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "falha ao gerar a planilha")
		return
	}

	filename := fmt.Sprintf("caixa_%s.xlsx", label)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
