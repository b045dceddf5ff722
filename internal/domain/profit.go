package domain

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ExpenseTimeLayout is how expense dates are written in exports.
const ExpenseTimeLayout = time.DateTime

// DefaultExpenseCategories seeds the category list of a new ledger.
var DefaultExpenseCategories = []string{
	"Seeds",
	"Fertilizers",
	"Pesticides",
	"Labor",
	"Equipment",
	"Irrigation",
	"Transportation",
	"Others",
	"Cleaning",
}

// Expense is one farm cost.
type Expense struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

// Validate rejects expenses with no category or a non-positive amount.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("expense category required")
	}
	if e.Amount <= 0 {
		return fmt.Errorf("expense amount must be positive, got %g", e.Amount)
	}
	return nil
}

// CategoryTotal is the summed amount of one expense category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ProfitSummary compares revenue against expenses.
type ProfitSummary struct {
	Revenue       float64         `json:"revenue"`
	TotalExpenses float64         `json:"total_expenses"`
	Profit        float64         `json:"profit"`
	MarginPercent float64         `json:"margin_percent"`
	ByCategory    []CategoryTotal `json:"by_category"`
}

// SummarizeProfit totals expenses, overall and per category in first-seen
// order, and derives profit and margin. Margin is 0 when revenue is not
// positive.
func SummarizeProfit(revenue float64, expenses []Expense) ProfitSummary {
	s := ProfitSummary{Revenue: revenue, ByCategory: []CategoryTotal{}}
	index := make(map[string]int)

	for _, e := range expenses {
		s.TotalExpenses += e.Amount
		i, ok := index[e.Category]
		if !ok {
			i = len(s.ByCategory)
			index[e.Category] = i
			s.ByCategory = append(s.ByCategory, CategoryTotal{Category: e.Category})
		}
		s.ByCategory[i].Amount += e.Amount
	}

	s.Profit = revenue - s.TotalExpenses
	if revenue > 0 {
		s.MarginPercent = s.Profit / revenue * 100
	}
	return s
}

// WriteExpensesCSV writes expenses with a header row of category,
// description, amount and date.
func WriteExpensesCSV(w io.Writer, expenses []Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"category", "description", "amount", "date"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			e.Category,
			e.Description,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Date.Format(ExpenseTimeLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
