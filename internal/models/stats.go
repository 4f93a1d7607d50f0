package models

import "github.com/shopspring/decimal"

// StatSummary totals for a period (stat-daily/summary/)
type StatSummary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalOrders  int             `json:"total_orders"`
	TotalAlerts  int             `json:"total_alerts"`
}

// DailyStat is one per-day row of a summary
type DailyStat struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
	Orders  int             `json:"orders"`
}

// MachineRanking is one row of the machine revenue ranking
type MachineRanking struct {
	MachineCode string          `json:"machine__machine_code"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
	Orders      int             `json:"orders"`
}

// StatReport is the full summary response
type StatReport struct {
	Period         string           `json:"period"`
	StartDate      string           `json:"start_date"`
	EndDate        string           `json:"end_date"`
	Summary        StatSummary      `json:"summary"`
	DailyStats     []DailyStat      `json:"daily_stats"`
	MachineRanking []MachineRanking `json:"machine_ranking"`
}

// GenerateResult is the response of stat-daily/generate/
type GenerateResult struct {
	Message           string `json:"message"`
	MachinesProcessed int    `json:"machines_processed"`
	NewRecords        int    `json:"new_records"`
}
