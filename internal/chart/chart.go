// Package chart renders category breakdowns as images.
package chart

import (
	"errors"
	"fmt"

	"github.com/go-analyze/charts"

	"gitlab.com/yelinaung/expense-manager/internal/models"
)

// ErrEmptyBreakdown is returned when there is nothing to draw.
var ErrEmptyBreakdown = errors.New("no categories to chart")

// RenderBreakdown draws shares as a pie chart and returns PNG bytes.
func RenderBreakdown(title string, shares []models.CategoryShare) ([]byte, error) {
	if len(shares) == 0 {
		return nil, ErrEmptyBreakdown
	}

	values := make([]float64, 0, len(shares))
	names := make([]string, 0, len(shares))
	for _, s := range shares {
		values = append(values, s.Amount.InexactFloat64())
		names = append(names, s.Category)
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{Text: title}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}

// Filename names the chart of one month, like "chart_expense_2024-02.png".
func Filename(typ models.TransactionType, year, month int) string {
	return fmt.Sprintf("chart_%s_%04d-%02d.png", typ, year, month)
}
