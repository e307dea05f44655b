package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange - диапазон, возвращаемый вместе с отчётом.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Type      string    `json:"type,omitempty"`
}

// SumCount - сумма и количество записей агрегирующего запроса.
type SumCount struct {
	Sum   decimal.Decimal `json:"sum"`
	Count int64           `json:"count"`
}

// DashboardMetrics - показатели главной панели.
type DashboardMetrics struct {
	TotalMRR              decimal.Decimal `json:"totalMRR"`
	TotalExpenses         decimal.Decimal `json:"totalExpenses"`
	NetProfit             decimal.Decimal `json:"netProfit"`
	PaymentsReceived      decimal.Decimal `json:"paymentsReceived"`
	PaymentsCount         int64           `json:"paymentsCount"`
	ExpensesCount         int64           `json:"expensesCount"`
	ActiveSubscriptions   int64           `json:"activeSubscriptions"`
	ClientsCount          int64           `json:"clientsCount"`
	OverduePayments       decimal.Decimal `json:"overduePayments"`
	OverduePaymentsCount  int64           `json:"overduePaymentsCount"`
	UpcomingExpenses      decimal.Decimal `json:"upcomingExpenses"`
	UpcomingExpensesCount int64           `json:"upcomingExpensesCount"`
	DateRange             DateRange       `json:"dateRange"`
}

// ReportFilter - фильтры отчётов. Пустые строки означают «без фильтра».
type ReportFilter struct {
	Start    time.Time
	End      time.Time
	Currency string
	Type     string
}

// RevenueItem - строка отчёта о выручке.
type RevenueItem struct {
	ID          int64           `json:"id"`
	ClientID    int64           `json:"clientId"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	PaymentDate time.Time       `json:"paymentDate"`
	ClientName  *string         `json:"clientName"`
}

// RevenueReport - завершённые платежи за период.
type RevenueReport struct {
	Payments  []RevenueItem   `json:"payments"`
	Total     decimal.Decimal `json:"total"`
	Count     int             `json:"count"`
	DateRange DateRange       `json:"dateRange"`
}

// ExpenseItem - строка отчёта о расходах.
type ExpenseItem struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	PaidDate    time.Time       `json:"paidDate"`
	Vendor      *string         `json:"vendor"`
	Category    *string         `json:"category"`
}

// ExpenseTypeTotal - сумма и количество расходов одного типа.
type ExpenseTypeTotal struct {
	Type  string          `json:"type"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// ExpenseReport - оплаченные расходы за период с разбивкой по типам.
type ExpenseReport struct {
	Expenses  []ExpenseItem      `json:"expenses"`
	Total     decimal.Decimal    `json:"total"`
	Count     int                `json:"count"`
	ByType    []ExpenseTypeTotal `json:"byType"`
	DateRange DateRange          `json:"dateRange"`
}

// CashFlowReport - выручка минус расходы за период.
type CashFlowReport struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	Net       decimal.Decimal `json:"net"`
	DateRange DateRange       `json:"dateRange"`
}

// ReportQuery - параметры запроса отчёта. From и To учитываются только для custom.
type ReportQuery struct {
	Range    string
	From     *time.Time
	To       *time.Time
	Currency string
	Type     string
}
