// Package insight derives the health score, advice and forecast shown on the
// dashboard. Everything here is a pure function of the ledger numbers.
package insight

import (
	"math"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

// GoalRatio is the savings ratio, in percent, that counts as a fully met
// savings goal.
const GoalRatio = 30

// Health score weights.
const (
	savingsWeight   = 0.5
	budgetWeight    = 0.3
	stabilityWeight = 0.2
)

// Grades for HealthScore.
const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeFair      = "fair"
	GradePoor      = "poor"
)

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// SavingsRatio is savings as a percentage of income, 0 without income. It is
// negative when expenses exceed income.
func SavingsRatio(income, expense int64) float64 {
	if income <= 0 {
		return 0
	}

	return float64(income-expense) / float64(income) * 100
}

// HealthScore rates the month on 0..100 from the savings ratio, budget
// adherence and how much of income is spent. It is 0 without income.
func HealthScore(income, expense, savings, budget int64) int {
	if income <= 0 {
		return 0
	}

	ratio := float64(savings) / float64(income) * 100
	savingsScore := clamp(ratio*2.5, 0, 100)

	budgetScore := 100.0
	if budget > 0 && expense > budget {
		overspend := float64(expense-budget) / float64(budget) * 100
		budgetScore = clamp(100-2*overspend, 0, 100)
	}

	spent := float64(expense) / float64(income)
	stabilityScore := clamp(100-math.Max(0, spent-0.8)*125, 0, 100)

	score := savingsWeight*savingsScore + budgetWeight*budgetScore + stabilityWeight*stabilityScore

	return int(math.Round(clamp(score, 0, 100)))
}

func Grade(score int) string {
	switch {
	case score >= 80:
		return GradeExcellent
	case score >= 60:
		return GradeGood
	case score >= 40:
		return GradeFair
	default:
		return GradePoor
	}
}

// GoalProgress is how close the savings ratio is to GoalRatio, 0..100. It is
// unrelated to the progress of individual goals.
func GoalProgress(ratio float64) float64 {
	return clamp(ratio/GoalRatio*100, 0, 100)
}

// Health bundles the score with its inputs for display.
type Health struct {
	Score        int
	Grade        string
	SavingsRatio float64
	GoalProgress float64
}

func Evaluate(txs []transaction.Transaction, budget int64) Health {
	income := transaction.TotalIncome(txs)
	expense := transaction.TotalExpense(txs)
	ratio := SavingsRatio(income, expense)
	score := HealthScore(income, expense, income-expense, budget)

	return Health{
		Score:        score,
		Grade:        Grade(score),
		SavingsRatio: ratio,
		GoalProgress: GoalProgress(ratio),
	}
}
