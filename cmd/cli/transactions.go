package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/homeapp/internal/domain"
	"github.com/dvloznov/homeapp/internal/logger"
	"github.com/dvloznov/homeapp/internal/netmon"
	"github.com/dvloznov/homeapp/internal/receipt"
	"github.com/dvloznov/homeapp/internal/store"
)

func (a *app) transactionStore(opts ...store.Option) *store.TransactionStore {
	opts = append([]store.Option{
		store.WithPageSize(a.cfg.PageSize),
		store.WithMonitor(netmon.NewStatic(true)),
		store.WithLogger(logger.Component(a.log, "transactions")),
	}, opts...)
	return store.NewTransactionStore(a.client, opts...)
}

// loadRange loads tr into a fresh store.
func (a *app) loadRange(ctx context.Context, tr string, opts ...store.Option) (*store.TransactionStore, error) {
	r, err := domain.ParseTimeRange(tr)
	if err != nil {
		return nil, err
	}
	s := a.transactionStore(opts...)
	if err := s.SetTimeRange(ctx, r); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func findTransaction(s *store.TransactionStore, id string) (domain.Transaction, bool) {
	s.ClearFilters()
	s.SetSearchText("")
	for s.LoadMore() {
	}
	for _, t := range s.Snapshot().Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Transaction{}, false
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	timeRange := fs.String("range", string(domain.DefaultTimeRange), "Time range: 1M, 3M, 6M or 1Y")
	search := fs.String("search", "", "Match merchant, description or category")
	category := fs.String("category", "", "Only this category")
	kind := fs.String("type", "", "Only Debit or Credit")
	currency := fs.String("currency", "", "Only CAD or RMB")
	hasReceipt := fs.String("receipt", "", "true for transactions with a receipt, false for those without")
	recurring := fs.String("recurring", "", "true for recurring payments, false for one-off")
	minAmount := fs.String("min", "", "Minimum amount, inclusive")
	maxAmount := fs.String("max", "", "Maximum amount, inclusive")
	all := fs.Bool("all", false, "Show every match instead of the first page")
	fs.Parse(args)

	filters, err := parseFilters(*category, *kind, *currency, *hasReceipt, *recurring, *minAmount, *maxAmount)
	if err != nil {
		return err
	}

	s, err := a.loadRange(ctx, *timeRange)
	if err != nil {
		return err
	}
	defer s.Close()

	s.SetFilters(filters)
	s.SetSearchText(*search)
	if *all {
		for s.LoadMore() {
		}
	}

	snap := s.Snapshot()
	for _, t := range snap.Transactions {
		printTransaction(t)
	}
	fmt.Printf("\nShowing %d of %d matches (%d loaded for %s)\n",
		len(snap.Transactions), snap.Total, snap.Resident, snap.TimeRange.DisplayName())
	if snap.CanLoadMore {
		fmt.Println("Use -all to show the rest.")
	}
	return nil
}

func parseFilters(category, kind, currency, hasReceipt, recurring, minAmount, maxAmount string) (domain.TransactionFilters, error) {
	var f domain.TransactionFilters
	if category != "" {
		c, err := domain.ParseCategory(category)
		if err != nil {
			return f, err
		}
		f.Category = &c
	}
	if kind != "" {
		t, err := domain.ParseTransactionType(kind)
		if err != nil {
			return f, err
		}
		f.Type = &t
	}
	if currency != "" {
		c, err := domain.ParseCurrency(currency)
		if err != nil {
			return f, err
		}
		f.Currency = &c
	}
	var err error
	if f.HasReceipt, err = parseOptionalBool("receipt", hasReceipt); err != nil {
		return f, err
	}
	if f.RecurringPayment, err = parseOptionalBool("recurring", recurring); err != nil {
		return f, err
	}
	if f.MinAmount, err = parseOptionalAmount("min", minAmount); err != nil {
		return f, err
	}
	if f.MaxAmount, err = parseOptionalAmount("max", maxAmount); err != nil {
		return f, err
	}
	return f, nil
}

func parseOptionalBool(name, s string) (*bool, error) {
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "true", "yes":
		return domain.BoolPtr(true), nil
	case "false", "no":
		return domain.BoolPtr(false), nil
	}
	return nil, fmt.Errorf("-%s: expected true or false, got %q", name, s)
}

func parseOptionalAmount(name, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("-%s: %w", name, err)
	}
	return &d, nil
}

func printTransaction(t domain.Transaction) {
	sign := "-"
	if t.IsCredit() {
		sign = "+"
	}
	merchant := ""
	if t.Merchant != nil {
		merchant = *t.Merchant
	}
	marks := ""
	if t.HasReceipt() {
		marks += " [receipt]"
	}
	if t.IsRecurring() {
		marks += " [recurring]"
	}
	fmt.Printf("%s  %s  %s%s%s  %-20s %s%s\n",
		t.ID, t.CreatedAt.Local().Format("2006-01-02 15:04"),
		sign, t.Currency.Symbol(), t.Amount.StringFixed(2), t.Category, merchant, marks)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

func runCreate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	amount := fs.String("amount", "", "Amount; a leading minus records income (required)")
	category := fs.String("category", "", "Category (required)")
	currency := fs.String("currency", string(domain.DefaultCurrency), "Currency: CAD or RMB")
	merchant := fs.String("merchant", "", "Merchant name")
	description := fs.String("description", "", "Free-form description")
	postal := fs.String("postal-code", "", "Postal code of the merchant")
	recurring := fs.Bool("recurring", false, "Mark as a recurring payment")
	at := fs.String("at", "", "When it happened, RFC3339 or YYYY-MM-DD (default now)")
	fs.Parse(args)

	if *amount == "" || *category == "" {
		fs.Usage()
		return errors.New("-amount and -category are required")
	}
	amt, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("-amount: %w", err)
	}
	cat, err := domain.ParseCategory(*category)
	if err != nil {
		return err
	}
	cur, err := domain.ParseCurrency(*currency)
	if err != nil {
		return err
	}
	when, err := parseTime(*at)
	if err != nil {
		return fmt.Errorf("-at: %w", err)
	}

	draft, err := domain.DraftFromSigned(amt, cat, when)
	if err != nil {
		return err
	}
	draft.Currency = cur
	draft.Merchant = domain.StringPtr(*merchant)
	draft.Description = domain.StringPtr(*description)
	draft.PostalCode = domain.StringPtr(*postal)
	if *recurring {
		draft.RecurringPayment = domain.BoolPtr(true)
	}
	if err := draft.Validate(); err != nil {
		return err
	}

	s := a.transactionStore()
	defer s.Close()
	id, err := s.Create(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Printf("Created transaction %s (%s %s%s)\n", id, draft.Type, cur.Symbol(), draft.Amount.StringFixed(2))
	if snap := s.Snapshot(); snap.Err != nil {
		fmt.Fprintf(os.Stderr, "Warning: reload after create failed: %v\n", snap.Err)
	}
	return nil
}

func runUpdate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "Transaction id (required)")
	timeRange := fs.String("range", string(domain.OneYear), "Time range to look the transaction up in")
	amount := fs.String("amount", "", "New amount")
	kind := fs.String("type", "", "New type: Debit or Credit")
	category := fs.String("category", "", "New category")
	currency := fs.String("currency", "", "New currency")
	merchant := fs.String("merchant", "", "New merchant")
	description := fs.String("description", "", "New description")
	recurring := fs.String("recurring", "", "true or false")
	fs.Parse(args)

	if *id == "" {
		fs.Usage()
		return errors.New("-id is required")
	}

	s, err := a.loadRange(ctx, *timeRange)
	if err != nil {
		return err
	}
	defer s.Close()

	t, ok := findTransaction(s, *id)
	if !ok {
		return fmt.Errorf("transaction %s not found in the last %s", *id, *timeRange)
	}

	if *amount != "" {
		if t.Amount, err = decimal.NewFromString(*amount); err != nil {
			return fmt.Errorf("-amount: %w", err)
		}
	}
	if *kind != "" {
		if t.Type, err = domain.ParseTransactionType(*kind); err != nil {
			return err
		}
	}
	if *category != "" {
		if t.Category, err = domain.ParseCategory(*category); err != nil {
			return err
		}
	}
	if *currency != "" {
		if t.Currency, err = domain.ParseCurrency(*currency); err != nil {
			return err
		}
	}
	if *merchant != "" {
		t.Merchant = domain.StringPtr(*merchant)
	}
	if *description != "" {
		t.Description = domain.StringPtr(*description)
	}
	if t.RecurringPayment, err = mergeBool(t.RecurringPayment, *recurring); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if err := s.Update(ctx, t); err != nil {
		return err
	}
	fmt.Printf("Updated transaction %s\n", t.ID)
	printTransaction(t)
	return nil
}

func mergeBool(current *bool, flagValue string) (*bool, error) {
	v, err := parseOptionalBool("recurring", flagValue)
	if err != nil || v == nil {
		return current, err
	}
	return v, nil
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "Transaction id (required)")
	fs.Parse(args)

	if *id == "" {
		fs.Usage()
		return errors.New("-id is required")
	}

	s := a.transactionStore()
	defer s.Close()
	if err := s.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Deleted transaction %s\n", *id)
	return nil
}

func runAttach(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("attach", flag.ExitOnError)
	id := fs.String("id", "", "Transaction id (required)")
	file := fs.String("file", "", "Receipt file: a PDF, or an image to be sent as a photo (required)")
	photo := fs.Bool("photo", false, "Always recompress the file as a JPEG photo")
	fs.Parse(args)

	if *id == "" || *file == "" {
		fs.Usage()
		return errors.New("-id and -file are required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read receipt: %w", err)
	}
	var rf domain.ReceiptFile
	if *photo {
		rf, err = receipt.PreparePhoto(data, a.cfg.ReceiptJPEGQuality, time.Now())
	} else {
		rf, err = receipt.PrepareFile(*file, data, a.cfg.ReceiptJPEGQuality, time.Now())
	}
	if err != nil {
		return err
	}

	pipeline := receipt.New(a.client,
		receipt.WithLogger(logger.Component(a.log, "receipts")),
		receipt.WithObserver(func(transactionID string, state domain.UploadState) {
			fmt.Printf("%s: %s\n", transactionID, state)
		}),
	)
	s := a.transactionStore(store.WithReceipts(pipeline))
	defer s.Close()

	receiptID, err := s.AttachReceipt(ctx, *id, rf)
	if err != nil {
		return err
	}
	fmt.Printf("Attached %s (%s, %d bytes) as receipt %s\n", rf.Filename, rf.ContentType, len(rf.Data), receiptID)
	return nil
}

func runViewURL(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("view-url", flag.ExitOnError)
	id := fs.String("id", "", "Transaction id (required)")
	save := fs.String("save", "", "Download the receipt to this path")
	fs.Parse(args)

	if *id == "" {
		fs.Usage()
		return errors.New("-id is required")
	}

	s := a.transactionStore()
	defer s.Close()
	target, err := s.FetchReceiptViewURL(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n(valid for %s, %s)\n", target.URL, target.ExpiresIn, target.ContentType)

	if *save == "" {
		return nil
	}
	data, err := a.download(ctx, target.URL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*save, data, 0o644); err != nil {
		return fmt.Errorf("save receipt: %w", err)
	}
	fmt.Printf("Saved %d bytes to %s\n", len(data), *save)
	return nil
}

// download reads a receipt from a signed HTTP link or a gs:// object.
func (a *app) download(ctx context.Context, target string) ([]byte, error) {
	if strings.HasPrefix(target, "gs://") {
		return a.objects.Download(ctx, target)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download receipt: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download receipt: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
