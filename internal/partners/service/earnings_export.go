package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	bookingdomain "github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	"github.com/xuri/excelize/v2"
)

const earningsSheet = "Earnings"

var earningsHeaders = []string{"Order ID", "Customer", "Service", "Amount", "Status", "Booked At"}

// EarningsExport is a rendered xlsx workbook.
type EarningsExport struct {
	Filename string
	Data     []byte
}

// ExportEarnings renders the provider's orders into a workbook with a
// revenue total row.
func (s *ConsoleService) ExportEarnings(ctx context.Context, providerID string) (*EarningsExport, error) {
	p, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	data, err := renderEarnings(orders)
	if err != nil {
		return nil, err
	}
	return &EarningsExport{
		Filename: fmt.Sprintf("earnings_%s_%s.xlsx", p.ID, time.Now().Format("20060102_150405")),
		Data:     data,
	}, nil
}

func renderEarnings(orders []bookingdomain.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", earningsSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range earningsHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(earningsSheet, cell, h)
		f.SetCellStyle(earningsSheet, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(earningsSheet, colName, colName, 20)
	}

	var revenue float64
	row := 2
	for _, o := range orders {
		values := []interface{}{o.ID, o.UserEmail, o.Category, o.Amount, string(o.Status), o.CreatedAt.Format("2006-01-02 15:04")}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(earningsSheet, cell, v)
		}
		if o.Status.CountsAsRevenue() {
			revenue += o.Amount
		}
		row++
	}

	label, _ := excelize.CoordinatesToCellName(3, row)
	total, _ := excelize.CoordinatesToCellName(4, row)
	f.SetCellValue(earningsSheet, label, "Revenue")
	f.SetCellValue(earningsSheet, total, revenue)
	f.SetCellStyle(earningsSheet, label, total, headerStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
