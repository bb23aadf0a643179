//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/expense-manager/internal/chart"
	"gitlab.com/yelinaung/expense-manager/internal/models"
	"gitlab.com/yelinaung/expense-manager/internal/services"
)

func main() {
	expenses := []models.Expense{
		{Amount: decimal.NewFromFloat(150.50), Category: models.CategoryFood, Type: models.TypeExpense},
		{Amount: decimal.NewFromFloat(130.50), Category: models.CategoryFood, Type: models.TypeExpense},
		{Amount: decimal.NewFromFloat(60.00), Category: models.CategoryTransport, Type: models.TypeExpense},
		{Amount: decimal.NewFromFloat(25.00), Category: models.CategoryEntertainment, Type: models.TypeExpense},
		{Amount: decimal.NewFromFloat(120.00), Category: models.CategoryBills, Type: models.TypeExpense},
	}

	shares := services.CategoryBreakdown(expenses, models.TypeExpense)
	chartData, err := chart.RenderBreakdown("Expenses - January 2026", shares)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("graph.png", chartData, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Created graph.png - Example expense breakdown chart")
}
