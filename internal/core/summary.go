package core

// Summary holds the aggregate figures shown above the transaction list.
type Summary struct {
	Income       Money
	Expense      Money
	Balance      Money
	IncomeCount  int
	ExpenseCount int
}

// TotalIncome sums the amounts of every income transaction.
func TotalIncome(txs []Transaction) Money {
	return total(txs, Income)
}

// TotalExpense sums the amounts of every expense transaction.
func TotalExpense(txs []Transaction) Money {
	return total(txs, Expense)
}

// Balance is TotalIncome minus TotalExpense. It may be negative.
func Balance(txs []Transaction) Money {
	return TotalIncome(txs).Sub(TotalExpense(txs))
}

// CountByKind counts the transactions of kind k.
func CountByKind(txs []Transaction, k Kind) int {
	n := 0
	for _, t := range txs {
		if t.Kind == k {
			n++
		}
	}
	return n
}

// Summarize computes every aggregate in a single pass.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Kind {
		case Income:
			s.Income = s.Income.Add(t.Amount)
			s.IncomeCount++
		case Expense:
			s.Expense = s.Expense.Add(t.Amount)
			s.ExpenseCount++
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

func total(txs []Transaction, k Kind) Money {
	var sum Money
	for _, t := range txs {
		if t.Kind == k {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}
