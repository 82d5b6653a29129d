package insight

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type Level string

const (
	LevelInfo     Level = "info"
	LevelSuccess  Level = "success"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Savings ratio bands, in percent.
const (
	lowSavingsRatio    = 20
	strongSavingsRatio = 40
)

// concentrationShare is the share of income above which one expense category
// is called out.
const concentrationShare = 0.25

type Input struct {
	Income     int64
	Expense    int64
	Budget     int64
	Categories []transaction.CategoryAmount
}

// InputFrom collects the advice inputs from a transaction log.
func InputFrom(txs []transaction.Transaction, budget int64) Input {
	return Input{
		Income:     transaction.TotalIncome(txs),
		Expense:    transaction.TotalExpense(txs),
		Budget:     budget,
		Categories: transaction.ExpensesByCategory(txs),
	}
}

type Advice struct {
	Level   Level
	Message string
}

// Advise returns exactly one message for the given numbers. The first
// matching rule wins; a concentration note may be appended to it.
func Advise(in Input) Advice {
	savings := in.Income - in.Expense

	var a Advice

	switch ratio := SavingsRatio(in.Income, in.Expense); {
	case in.Income <= 0:
		return Advice{Level: LevelInfo, Message: "Add income to activate financial insights."}
	case savings < 0:
		a = Advice{
			Level:   LevelCritical,
			Message: fmt.Sprintf("Negative savings of %s. Immediate cost restructuring required.", money(-savings)),
		}
	case in.Budget > 0 && in.Expense > in.Budget:
		a = Advice{
			Level:   LevelWarning,
			Message: fmt.Sprintf("Budget exceeded by %s. Review this month's spending.", money(in.Expense-in.Budget)),
		}
	case ratio < lowSavingsRatio:
		a = Advice{Level: LevelWarning, Message: "Low savings rate. Cut discretionary expenses and automate investments."}
	case ratio > strongSavingsRatio:
		a = Advice{Level: LevelSuccess, Message: "Strong capital accumulation. Consider diversified long-term investments."}
	default:
		a = Advice{Level: LevelSuccess, Message: "Balanced financial structure. Maintain expense discipline."}
	}

	if top, ok := largest(in.Categories); ok && float64(top.Amount) > float64(in.Income)*concentrationShare {
		a.Message += fmt.Sprintf(" %s takes %.0f%% of income; consider reducing it.",
			top.Category, float64(top.Amount)/float64(in.Income)*100)
	}

	return a
}

func largest(cats []transaction.CategoryAmount) (transaction.CategoryAmount, bool) {
	if len(cats) == 0 {
		return transaction.CategoryAmount{}, false
	}

	return transaction.SortByAmount(cats)[0], true
}

func money(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
