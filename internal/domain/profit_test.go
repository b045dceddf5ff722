package domain

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeProfit(t *testing.T) {
	expenses := []Expense{
		{Category: "Seeds", Amount: 100},
		{Category: "Labor", Amount: 300},
		{Category: "Seeds", Amount: 50},
	}

	s := SummarizeProfit(1000, expenses)

	assert.Equal(t, 1000.0, s.Revenue)
	assert.Equal(t, 450.0, s.TotalExpenses)
	assert.Equal(t, 550.0, s.Profit)
	assert.InDelta(t, 55.0, s.MarginPercent, 1e-9)
	assert.Equal(t, []CategoryTotal{
		{Category: "Seeds", Amount: 150},
		{Category: "Labor", Amount: 300},
	}, s.ByCategory)
}

func TestSummarizeProfit_NoRevenue(t *testing.T) {
	s := SummarizeProfit(0, []Expense{{Category: "Seeds", Amount: 40}})

	assert.Equal(t, -40.0, s.Profit)
	assert.Zero(t, s.MarginPercent)
}

func TestSummarizeProfit_NoExpenses(t *testing.T) {
	s := SummarizeProfit(500, nil)

	assert.Equal(t, 500.0, s.Profit)
	assert.Equal(t, 100.0, s.MarginPercent)
	assert.NotNil(t, s.ByCategory)
	assert.Empty(t, s.ByCategory)
}

func TestExpense_Validate(t *testing.T) {
	assert.NoError(t, Expense{Category: "Seeds", Amount: 1}.Validate())
	assert.Error(t, Expense{Category: " ", Amount: 1}.Validate())
	assert.Error(t, Expense{Category: "Seeds"}.Validate())
	assert.Error(t, Expense{Category: "Seeds", Amount: -5}.Validate())
}

func TestWriteExpensesCSV(t *testing.T) {
	date := time.Date(2024, 7, 1, 9, 5, 0, 0, time.UTC)
	expenses := []Expense{
		{Category: "Seeds", Description: "hybrid maize, 10kg", Amount: 1250, Date: date},
		{Category: "Labor", Description: "", Amount: 300.5, Date: date},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExpensesCSV(&buf, expenses))

	want := "category,description,amount,date\n" +
		"Seeds,\"hybrid maize, 10kg\",1250.00,2024-07-01 09:05:00\n" +
		"Labor,,300.50,2024-07-01 09:05:00\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteExpensesCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExpensesCSV(&buf, nil))
	assert.Equal(t, "category,description,amount,date\n", buf.String())
}
