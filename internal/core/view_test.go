package core

import (
	"slices"
	"testing"
	"time"
)

func sample() []Transaction {
	return []Transaction{
		tx("a", Income, 150000, "Salary", NewDate(2025, 3, 1)),
		tx("b", Expense, 4250, "Food & Dining", NewDate(2025, 3, 5)),
		tx("c", Income, 150000, "Salary", NewDate(2025, 2, 1)),
		tx("d", Expense, 90000, "Travel", NewDate(2025, 3, 5)),
		tx("e", Income, 20000, "Freelance", NewDate(2025, 1, 20)),
	}
}

func ids(txs []Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func TestFilterAll(t *testing.T) {
	in := sample()
	got := Filter(in, SelectAll)
	if !slices.Equal(ids(got), ids(in)) {
		t.Fatalf("expected %v, got %v", ids(in), ids(got))
	}
}

func TestFilterByKind(t *testing.T) {
	got := Filter(sample(), Selector(Expense))
	if !slices.Equal(ids(got), []string{"b", "d"}) {
		t.Fatalf("unexpected expense filter: %v", ids(got))
	}
	for _, tr := range Filter(sample(), Selector(Income)) {
		if tr.Kind != Income {
			t.Fatalf("income filter let through %+v", tr)
		}
	}
}

func TestFilterByCategory(t *testing.T) {
	in := []Transaction{
		tx("1", Income, 100, "Salary", NewDate(2025, 1, 1)),
		tx("2", Expense, 100, "Food & Dining", NewDate(2025, 1, 1)),
		// A Salary record under the wrong kind, e.g. hand edited storage.
		tx("3", Expense, 100, "Salary", NewDate(2025, 1, 1)),
	}
	got := Filter(in, "Salary")
	if !slices.Equal(ids(got), []string{"1", "3"}) {
		t.Fatalf("expected both Salary transactions, got %v", ids(got))
	}
	if got := Filter(in, "Gift"); len(got) != 0 {
		t.Fatalf("expected nothing for unused category, got %v", ids(got))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := sample()
	before := ids(in)
	_ = View(in, Selector(Income), SortByAmount)
	if !slices.Equal(ids(in), before) {
		t.Fatalf("input reordered: %v", ids(in))
	}
}

func TestSortByDate(t *testing.T) {
	in := sample()
	// b and d share a date; d was created later.
	in[3].CreatedAt = in[1].CreatedAt.Add(time.Minute)
	got := Sort(in, SortByDate)
	if !slices.Equal(ids(got), []string{"d", "b", "a", "c", "e"}) {
		t.Fatalf("unexpected date order: %v", ids(got))
	}
}

func TestSortByDateFullTieKeepsInputOrder(t *testing.T) {
	on := NewDate(2025, 1, 1)
	in := []Transaction{tx("x", Income, 1, "Gift", on), tx("y", Income, 2, "Gift", on), tx("z", Income, 3, "Gift", on)}
	got := Sort(in, SortByDate)
	if !slices.Equal(ids(got), []string{"x", "y", "z"}) {
		t.Fatalf("expected stable order, got %v", ids(got))
	}
}

func TestSortByAmount(t *testing.T) {
	got := Sort(sample(), SortByAmount)
	for i := 1; i < len(got); i++ {
		if got[i-1].Amount.Cents < got[i].Amount.Cents {
			t.Fatalf("not descending at %d: %v", i, ids(got))
		}
	}
	// a and c tie on amount and keep their relative order.
	if !slices.Equal(ids(got), []string{"a", "c", "d", "e", "b"}) {
		t.Fatalf("unexpected amount order: %v", ids(got))
	}
}

func TestSortByCategory(t *testing.T) {
	got := Sort(sample(), SortByCategory)
	c := NewCategoryCollator()
	for i := 1; i < len(got); i++ {
		if c.CompareString(got[i-1].Category, got[i].Category) > 0 {
			t.Fatalf("not non-decreasing at %d: %q > %q", i, got[i-1].Category, got[i].Category)
		}
	}
	want := []string{"Food & Dining", "Freelance", "Salary", "Salary", "Travel"}
	var cats []string
	for _, tr := range got {
		cats = append(cats, tr.Category)
	}
	if !slices.Equal(cats, want) {
		t.Fatalf("expected %v, got %v", want, cats)
	}
}

func TestSortByCategoryIgnoresCase(t *testing.T) {
	in := []Transaction{
		tx("1", Expense, 1, "travel", NewDate(2025, 1, 1)),
		tx("2", Expense, 1, "Shopping", NewDate(2025, 1, 1)),
	}
	got := Sort(in, SortByCategory)
	if !slices.Equal(ids(got), []string{"2", "1"}) {
		t.Fatalf("expected collation order, got %v", ids(got))
	}
}

func TestSortUnknownKeyKeepsOrder(t *testing.T) {
	in := sample()
	got := Sort(in, "color")
	if !slices.Equal(ids(got), ids(in)) {
		t.Fatalf("expected input order, got %v", ids(got))
	}
}

func TestSortEmpty(t *testing.T) {
	if got := Sort(nil, SortByDate); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestViewFiltersThenSorts(t *testing.T) {
	got := View(sample(), Selector(Income), SortByAmount)
	if !slices.Equal(ids(got), []string{"a", "c", "e"}) {
		t.Fatalf("unexpected view: %v", ids(got))
	}
}

func TestParseSortKey(t *testing.T) {
	cases := map[string]SortKey{"": SortByDate, "date": SortByDate, "Amount": SortByAmount, " category ": SortByCategory}
	for in, want := range cases {
		got, err := ParseSortKey(in)
		if err != nil || got != want {
			t.Fatalf("%q: expected %q, got %q (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParseSortKey("size"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestCategories(t *testing.T) {
	got := Categories(sample())
	want := []string{"Salary", "Food & Dining", "Travel", "Freelance"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := Categories(nil); len(got) != 0 {
		t.Fatalf("expected no categories, got %v", got)
	}
}

func TestCategoryHint(t *testing.T) {
	if CategoryHint("Salary") != HintSalary || CategoryHint("Travel") != HintTravel {
		t.Fatalf("unexpected hint for known category")
	}
	if CategoryHint("Crypto") != HintOther || CategoryHint("") != HintOther {
		t.Fatalf("expected fallback hint")
	}
}
