package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/homeapp/internal/domain"
	"github.com/dvloznov/homeapp/internal/logger"
	"github.com/dvloznov/homeapp/internal/store"
)

func runSchedules(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("schedules", flag.ExitOnError)
	id := fs.String("id", "", "Schedule id to update")
	del := fs.String("delete", "", "Schedule id to delete")
	name := fs.String("name", "", "Schedule name; creates a schedule unless -id is set")
	amount := fs.String("amount", "", "Amount per occurrence")
	kind := fs.String("type", string(domain.Debit), "Debit or Credit")
	currency := fs.String("currency", string(domain.DefaultCurrency), "CAD or RMB")
	category := fs.String("category", "", "Category")
	frequency := fs.String("frequency", string(domain.Monthly), "Weekly, Biweekly or Monthly")
	days := fs.String("days", "", "Comma separated days of month for monthly schedules, e.g. 1,15")
	start := fs.String("start", "", "Start date, YYYY-MM-DD (default today)")
	end := fs.String("end", "", "Optional end date, YYYY-MM-DD")
	merchant := fs.String("merchant", "", "Merchant")
	fs.Parse(args)

	s := store.NewScheduleStore(a.client, logger.Component(a.log, "schedules"))

	switch {
	case *del != "":
		if err := s.Delete(ctx, *del); err != nil {
			return err
		}
		fmt.Printf("Deleted schedule %s\n", *del)
		return nil
	case *name != "":
		in, err := scheduleInput(*name, *amount, *kind, *currency, *category, *frequency, *days, *start, *end, *merchant)
		if err != nil {
			return err
		}
		if *id != "" {
			err = s.Update(ctx, *id, in)
		} else {
			err = s.Create(ctx, in)
		}
		if err != nil {
			return err
		}
	default:
		if err := s.Load(ctx); err != nil {
			return err
		}
	}

	snap := s.Snapshot()
	if snap.Err != nil {
		return snap.Err
	}
	for _, sch := range snap.Items {
		fmt.Printf("%s  %-24s %s%s %s  %-14s %s (from %s)\n",
			sch.ID, sch.Name, sch.Currency.Symbol(), sch.Amount.StringFixed(2), sch.Type,
			sch.Category, sch.FrequencyLabel(), sch.StartDate.Format("2006-01-02"))
	}
	fmt.Printf("\n%d schedules\n", len(snap.Items))
	return nil
}

func scheduleInput(name, amount, kind, currency, category, frequency, days, start, end, merchant string) (domain.ScheduleInput, error) {
	in := domain.ScheduleInput{
		Name:     name,
		Merchant: domain.StringPtr(merchant),
	}
	var err error
	if in.Amount, err = decimal.NewFromString(amount); err != nil {
		return in, fmt.Errorf("-amount: %w", err)
	}
	if in.Type, err = domain.ParseTransactionType(kind); err != nil {
		return in, err
	}
	if in.Currency, err = domain.ParseCurrency(currency); err != nil {
		return in, err
	}
	if in.Category, err = domain.ParseCategory(category); err != nil {
		return in, err
	}
	if in.Frequency, err = domain.ParseScheduleFrequency(frequency); err != nil {
		return in, err
	}
	if in.MonthlyDates, err = parseDays(days); err != nil {
		return in, err
	}
	if in.StartDate, err = parseTime(start); err != nil {
		return in, fmt.Errorf("-start: %w", err)
	}
	if end != "" {
		t, err := parseTime(end)
		if err != nil {
			return in, fmt.Errorf("-end: %w", err)
		}
		in.EndDate = &t
	}
	return in, in.Validate()
}

func parseDays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("-days: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

func runBalances(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("balances", flag.ExitOnError)
	cad := fs.String("cad", "", "Record a CAD balance (requires -rmb)")
	rmb := fs.String("rmb", "", "Record an RMB balance (requires -cad)")
	note := fs.String("note", "", "Note for a recorded balance")
	at := fs.String("at", "", "Record time, RFC3339 or YYYY-MM-DD (default now)")
	del := fs.String("delete", "", "Balance id to delete")
	fs.Parse(args)

	s := store.NewBalanceStore(a.client, logger.Component(a.log, "balances"))

	switch {
	case *del != "":
		if err := s.Delete(ctx, *del); err != nil {
			return err
		}
		fmt.Printf("Deleted balance %s\n", *del)
		return nil
	case *cad != "" || *rmb != "":
		if *cad == "" || *rmb == "" {
			return errors.New("-cad and -rmb must be given together")
		}
		in := domain.BalanceInput{Note: domain.StringPtr(*note)}
		var err error
		if in.CADBalance, err = decimal.NewFromString(*cad); err != nil {
			return fmt.Errorf("-cad: %w", err)
		}
		if in.RMBBalance, err = decimal.NewFromString(*rmb); err != nil {
			return fmt.Errorf("-rmb: %w", err)
		}
		if in.RecordTime, err = parseTime(*at); err != nil {
			return fmt.Errorf("-at: %w", err)
		}
		res, err := s.Create(ctx, in)
		if err != nil {
			return err
		}
		if res.Reconciled {
			fmt.Printf("Recorded balance %s: reconciled\n", res.BalanceID)
		} else {
			fmt.Printf("Recorded balance %s: off by $%s and ¥%s\n",
				res.BalanceID, res.CADOffAmount.StringFixed(2), res.RMBOffAmount.StringFixed(2))
		}
	default:
		if err := s.Load(ctx); err != nil {
			return err
		}
	}

	snap := s.Snapshot()
	if snap.Err != nil {
		return snap.Err
	}
	for _, b := range snap.Items {
		status := "reconciled"
		if !b.Reconciled {
			status = fmt.Sprintf("off $%s ¥%s", b.CADOffAmount.StringFixed(2), b.RMBOffAmount.StringFixed(2))
		}
		fmt.Printf("%s  %s  $%s  ¥%s  %s\n",
			b.ID, b.RecordTime.Local().Format("2006-01-02 15:04"),
			b.CADBalance.StringFixed(2), b.RMBBalance.StringFixed(2), status)
	}
	return nil
}

func runCash(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("cash", flag.ExitOnError)
	add := fs.String("add", "", "Amount to add; a leading minus records cash spent")
	reset := fs.Bool("reset", false, "Clear the cash ledger")
	fs.Parse(args)

	s := store.NewCashStore(a.client, logger.Component(a.log, "cash"))

	switch {
	case *reset:
		if err := s.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("Cash ledger reset")
	case *add != "":
		amt, err := decimal.NewFromString(*add)
		if err != nil {
			return fmt.Errorf("-add: %w", err)
		}
		if amt.IsZero() {
			return domain.ErrZeroAmount
		}
		in := domain.CashInput{Amount: amt.Abs(), Type: domain.Credit}
		if amt.IsNegative() {
			in.Type = domain.Debit
		}
		if err := s.Add(ctx, in); err != nil {
			return err
		}
	default:
		if err := s.Load(ctx); err != nil {
			return err
		}
	}

	snap := s.Snapshot()
	if snap.Err != nil {
		return snap.Err
	}
	if snap.Status == nil {
		return nil
	}
	fmt.Printf("Cash on hand: $%s (updated %s)\n",
		snap.Status.Balance.Balance.StringFixed(2), snap.Status.Balance.LastUpdatedDate)
	for _, t := range snap.Status.Transactions {
		fmt.Printf("  %s  %s\n", t.Timestamp.Local().Format("2006-01-02 15:04"), t.Signed().StringFixed(2))
	}
	return nil
}

func runInsights(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("insights", flag.ExitOnError)
	months := fs.Int("months", store.DefaultTrendMonths, "Number of past months in the trend")
	category := fs.String("category", "", "Narrow the trend to one category")
	period := fs.String("period", "last-month", "Breakdown period: last-month, this-year or last-year")
	fs.Parse(args)

	p, err := parsePeriod(*period)
	if err != nil {
		return err
	}

	s := store.NewInsightsStore(a.client, logger.Component(a.log, "insights"))
	s.SelectPeriod(p)
	if *category != "" {
		c, err := domain.ParseCategory(*category)
		if err != nil {
			return err
		}
		_ = s.SetCategory(ctx, &c)
	}
	if err := s.SetMonths(ctx, *months); err != nil {
		return err
	}
	_ = s.LoadBreakdown(ctx)

	snap := s.Snapshot()
	if snap.TrendErr != nil {
		fmt.Printf("Trend unavailable: %v\n", snap.TrendErr)
	} else if tr := snap.Trend; tr != nil {
		fmt.Printf("Spending trend, last %d months\n", tr.MonthsRequested)
		for _, m := range tr.Trend {
			fmt.Printf("  %s  %s\n", m.Month, m.NetExpense.StringFixed(2))
		}
		fmt.Printf("  %s  %s so far, %d days remaining\n",
			tr.CurrentMonth.Month, tr.CurrentMonth.NetExpense.StringFixed(2), tr.CurrentMonth.DaysRemaining)
		fmt.Printf("Earned last month: %s\n", tr.PreviousMonthEarning.StringFixed(2))
	}

	if snap.BreakdownErr != nil {
		fmt.Printf("\nBreakdown unavailable: %v\n", snap.BreakdownErr)
	} else if sel := snap.Selected(); sel != nil {
		fmt.Printf("\n%s (%s): %s\n", snap.Period, sel.Period, sel.NetExpense.StringFixed(2))
		names := make([]string, 0, len(sel.NetByCategory))
		for name := range sel.NetByCategory {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return sel.NetByCategory[names[i]].GreaterThan(sel.NetByCategory[names[j]])
		})
		for _, name := range names {
			fmt.Printf("  %-22s %10s  (%d)\n", name, sel.NetByCategory[name].StringFixed(2), sel.CountByCategory[name])
		}
	}

	if snap.TrendErr != nil && snap.BreakdownErr != nil {
		return errors.Join(snap.TrendErr, snap.BreakdownErr)
	}
	return nil
}

func parsePeriod(s string) (domain.BreakdownPeriod, error) {
	switch s {
	case "last-month":
		return domain.PeriodLastMonth, nil
	case "this-year":
		return domain.PeriodCurrentYear, nil
	case "last-year":
		return domain.PeriodLastYear, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}
