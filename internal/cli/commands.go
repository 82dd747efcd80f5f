package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"tracker/internal/core"
	"tracker/internal/services"
	"tracker/internal/store"
)

// Output streams, swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Register adds the tracker subcommands to c.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")

	c.Register(&addCmd{}, "transactions")
	c.Register(&editCmd{}, "transactions")
	c.Register(&rmCmd{}, "transactions")

	c.Register(&lsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&categoriesCmd{}, "reports")
}

// run loads configuration, opens the app and hands it to fn.
func run(ctx context.Context, fn func(*App) subcommands.ExitStatus) subcommands.ExitStatus {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	logger := SetupLogger(cfg)

	app, err := Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer app.Close()
	return fn(app)
}

// report prints err and maps it to an exit status. Write failures are
// warnings: the command's effect is kept for this session only. A change
// refused because the saved data could not be read is a failure.
func report(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	if errors.Is(err, store.ErrPersistence) && !errors.Is(err, store.ErrReadFailed) {
		fmt.Fprintln(stderr, "Warning: change not saved:", err)
		return subcommands.ExitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	return subcommands.ExitFailure
}

// formFlags are the transaction fields shared by add and edit.
type formFlags struct {
	form services.Form
}

func (p *formFlags) set(f *flag.FlagSet) {
	f.StringVar(&p.form.Kind, "kind", "", "income or expense.")
	f.StringVar(&p.form.Amount, "amount", "", "Positive amount, e.g. 12.34 or 12,34.")
	f.StringVar(&p.form.Category, "category", "", "Category; must belong to the kind's category set.")
	f.StringVar(&p.form.Description, "desc", "", "Optional description.")
	f.StringVar(&p.form.Date, "date", "", "Date the transaction occurred (YYYY-MM-DD). Defaults to today.")
}

type addCmd struct{ formFlags }

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or expense" }
func (*addCmd) Usage() string {
	return `tracker add -kind <income|expense> -amount <amount> -category <category> [-desc <text>] [-date <YYYY-MM-DD>]

  Records a new transaction and prints its id.
`
}
func (p *addCmd) SetFlags(f *flag.FlagSet) { p.set(f) }

func (p *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(app *App) subcommands.ExitStatus {
		t, err := app.Ledger.Add(ctx, p.form)
		status := report(err)
		if status == subcommands.ExitSuccess {
			fmt.Fprintf(stdout, "%s added: %s %s (%s)\n", t.Kind.Label(), t.Category, t.Amount.Format(app.Config.Currency), t.ID)
		}
		return status
	})
}

type editCmd struct {
	formFlags
	id string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "replace every field of a transaction" }
func (*editCmd) Usage() string {
	return `tracker edit -id <id> -kind <income|expense> -amount <amount> -category <category> [-desc <text>] [-date <YYYY-MM-DD>]

  Replaces the transaction wholesale; omitted optional fields are cleared.
`
}

func (p *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the transaction to replace.")
	p.set(f)
}

func (p *editCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.id == "" {
		fmt.Fprintln(stderr, "Error: -id is required.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(app *App) subcommands.ExitStatus {
		t, err := app.Ledger.Edit(ctx, p.id, p.form)
		status := report(err)
		if status == subcommands.ExitSuccess {
			fmt.Fprintf(stdout, "Updated %s: %s %s\n", t.ID, t.Category, t.Amount.Format(app.Config.Currency))
		}
		return status
	})
}

type rmCmd struct{}

func (*rmCmd) Name() string             { return "rm" }
func (*rmCmd) Synopsis() string         { return "delete transactions by id" }
func (*rmCmd) Usage() string            { return "tracker rm <id>...\n\n  Deletes transactions. Unknown ids are ignored.\n" }
func (*rmCmd) SetFlags(_ *flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: at least one id is required.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(app *App) subcommands.ExitStatus {
		status := subcommands.ExitSuccess
		for _, id := range f.Args() {
			t, found := app.Ledger.Get(id)
			removed, err := app.Ledger.Remove(ctx, id)
			s := report(err)
			switch {
			case s != subcommands.ExitSuccess:
				status = s
			case removed && found:
				fmt.Fprintf(stdout, "Deleted %s: %s %s\n", id, t.Category, signed(t, app.Config.Currency))
			case !removed:
				fmt.Fprintln(stdout, "No transaction", id)
			}
		}
		return status
	})
}

type lsCmd struct {
	filter string
	sort   string
	hints  bool
}

func (*lsCmd) Name() string     { return "ls" }
func (*lsCmd) Synopsis() string { return "list transactions" }
func (*lsCmd) Usage() string {
	return `tracker ls [-filter <all|income|expense|category>] [-sort <date|amount|category>] [-hints]

  Lists transactions, filtered then sorted. Dates sort newest first,
  amounts largest first, categories alphabetically.
`
}

func (p *lsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.filter, "filter", string(core.SelectAll), "all, income, expense or a category name.")
	f.StringVar(&p.sort, "sort", string(core.SortByDate), "date, amount or category.")
	f.BoolVar(&p.hints, "hints", false, "Show the icon hint for each category.")
}

func (p *lsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key, err := core.ParseSortKey(p.sort)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	sel := core.Selector(p.filter)
	if k, err := core.ParseKind(p.filter); err == nil {
		sel = core.Selector(k)
	} else if strings.EqualFold(p.filter, string(core.SelectAll)) {
		sel = core.SelectAll
	}

	return run(ctx, func(app *App) subcommands.ExitStatus {
		txs := app.Ledger.List(sel, key)
		if len(txs) == 0 {
			fmt.Fprintln(stdout, "No transactions.")
			return subcommands.ExitSuccess
		}
		w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		header := "DATE\tKIND\tCATEGORY\tAMOUNT\tDESCRIPTION\tID"
		if p.hints {
			header += "\tHINT"
		}
		fmt.Fprintln(w, header)
		for _, t := range txs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s", t.OccurredOn, t.Kind, t.Category, signed(t, app.Config.Currency), t.Description, t.ID)
			if p.hints {
				fmt.Fprintf(w, "\t%s", core.CategoryHint(t.Category))
			}
			fmt.Fprintln(w)
		}
		if err := w.Flush(); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}

// signed shows income with a leading + and expense with a leading -.
func signed(t core.Transaction, currency string) string {
	if t.Kind == core.Expense {
		return "-" + t.Amount.Format(currency)
	}
	return "+" + t.Amount.Format(currency)
}

type summaryCmd struct{}

func (*summaryCmd) Name() string             { return "summary" }
func (*summaryCmd) Synopsis() string         { return "show total income, expense and balance" }
func (*summaryCmd) Usage() string            { return "tracker summary\n" }
func (*summaryCmd) SetFlags(_ *flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(app *App) subcommands.ExitStatus {
		s := app.Ledger.Summary()
		cur := app.Config.Currency
		w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(w, "Balance\t%s\t\n", s.Balance.Format(cur))
		fmt.Fprintf(w, "Income\t%s\t%d transactions\t\n", s.Income.Format(cur), s.IncomeCount)
		fmt.Fprintf(w, "Expense\t%s\t%d transactions\t\n", s.Expense.Format(cur), s.ExpenseCount)
		if err := w.Flush(); err != nil {
			return report(err)
		}
		return subcommands.ExitSuccess
	})
}

type categoriesCmd struct {
	kind string
	used bool
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list categories" }
func (*categoriesCmd) Usage() string {
	return `tracker categories [-kind <income|expense>] [-used]

  Without -used, prints the fixed category sets. With -used, prints the
  filter options available for the current transactions.
`
}

func (p *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.kind, "kind", "", "Only list categories of this kind.")
	f.BoolVar(&p.used, "used", false, "List the filter options derived from recorded transactions.")
}

func (p *categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.used {
		return run(ctx, func(app *App) subcommands.ExitStatus {
			for _, opt := range app.Ledger.FilterOptions() {
				fmt.Fprintln(stdout, opt)
			}
			return subcommands.ExitSuccess
		})
	}

	kinds := []core.Kind{core.Income, core.Expense}
	if p.kind != "" {
		k, err := core.ParseKind(p.kind)
		if err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
		kinds = []core.Kind{k}
	}
	for _, k := range kinds {
		fmt.Fprintf(stdout, "%s:\n", k.Label())
		for _, c := range core.CategoriesFor(k) {
			fmt.Fprintf(stdout, "  %s\n", c)
		}
	}
	return subcommands.ExitSuccess
}
