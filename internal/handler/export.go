package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/mohammeder55/CS50-finance/internal/engine"
	"github.com/mohammeder55/CS50-finance/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler downloads an account's trade history.
type ExportHandler struct {
	Engine *engine.Engine
}

func NewExportHandler(e *engine.Engine) *ExportHandler {
	return &ExportHandler{Engine: e}
}

var exportHeader = []string{"ID", "Symbol", "Shares", "Price", "Total", "Time"}

// ExportCSV streams the trade history as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	acct, ok := currentAccount(c)
	if !ok {
		return
	}

	txns, err := h.Engine.History(acct.ID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"history_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so Excel opens the file correctly
	if _, err := c.Writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		_ = c.Error(err)
		return
	}

	writer := csv.NewWriter(c.Writer)
	writer.Write(exportHeader)

	for _, t := range txns {
		writer.Write([]string{
			fmt.Sprintf("%d", t.ID),
			t.Symbol,
			fmt.Sprintf("%d", t.Quantity),
			util.FormatPrice(t.UnitPriceCents),
			util.FormatUSD(t.Quantity * t.UnitPriceCents),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	// row write failures latch inside the csv writer; surface them so a
	// truncated download is not logged as a success
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = c.Error(err)
	}
}

// ExportXLSX downloads the trade history as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	acct, ok := currentAccount(c)
	if !ok {
		return
	}

	txns, err := h.Engine.History(acct.ID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "History"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, head := range exportHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	for idx, t := range txns {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.Symbol)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Quantity)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), util.FormatPrice(t.UnitPriceCents))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), util.FormatUSD(t.Quantity*t.UnitPriceCents))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 22)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"history_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
