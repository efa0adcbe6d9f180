package store

import (
	"context"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
)

// The store interfaces are the slices of *apiclient.Client each store uses.

type TransactionAPI interface {
	ListTransactions(ctx context.Context, w domain.Window) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, d domain.Draft) (codec.CreateResult, error)
	UpdateTransaction(ctx context.Context, t domain.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	RequestViewTarget(ctx context.Context, transactionID string) (domain.ViewTarget, error)
}

// Attacher runs receipt uploads; *receipt.Pipeline implements it.
type Attacher interface {
	Attach(ctx context.Context, transactionID string, file domain.ReceiptFile) (string, error)
	State(transactionID string) domain.UploadState
}

type ScheduleAPI interface {
	ListSchedules(ctx context.Context) ([]domain.PaymentSchedule, error)
	CreateSchedule(ctx context.Context, in domain.ScheduleInput) error
	UpdateSchedule(ctx context.Context, id string, in domain.ScheduleInput) error
	DeleteSchedule(ctx context.Context, id string) error
}

type BalanceAPI interface {
	ListBalances(ctx context.Context) ([]domain.Balance, error)
	CreateBalance(ctx context.Context, in domain.BalanceInput) (domain.BalanceResult, error)
	DeleteBalance(ctx context.Context, id string) error
}

type CashAPI interface {
	CashStatus(ctx context.Context) (domain.CashStatus, error)
	AddCashTransaction(ctx context.Context, in domain.CashInput) error
	ResetCash(ctx context.Context) error
}

type InsightsAPI interface {
	SpendingTrend(ctx context.Context, months int, category *domain.Category) (domain.SpendingTrend, error)
	CategoryBreakdown(ctx context.Context) (domain.CategoryBreakdown, error)
}
