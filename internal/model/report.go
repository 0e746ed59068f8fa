package model

import "time"

// StockTotals содержит накопленные суммы по журналу поступлений и доставкам.
type StockTotals struct {
	InboundFull    int64
	DeliveredFull  int64
	RecoveredEmpty int64
}

// DailyTotals содержит суммы по доставкам за один календарный день.
type DailyTotals struct {
	Deliveries     int64
	DeliveredFull  int64
	RecoveredEmpty int64
}

// StockSummary содержит оценку остатков на дату (или за всю историю, если дата не задана).
type StockSummary struct {
	Date                  *time.Time
	InboundFull           int64
	DeliveredFull         int64
	RecoveredEmpty        int64
	EstimatedFullOnHand   int64
	EstimatedEmptyAtDepot int64
	PendingRecovery       int64
}

// DailyReport описывает операционный отчёт за день.
type DailyReport struct {
	Date           time.Time
	Deliveries     int64
	DeliveredFull  int64
	RecoveredEmpty int64
	Pending        int64
}

// NewStockSummary выводит оценки остатков из сумм. Значения не ограничиваются нулём:
// отрицательная оценка означает несогласованные данные и отдаётся как есть.
func NewStockSummary(cutoff *time.Time, t StockTotals) StockSummary {
	return StockSummary{
		Date:                  cutoff,
		InboundFull:           t.InboundFull,
		DeliveredFull:         t.DeliveredFull,
		RecoveredEmpty:        t.RecoveredEmpty,
		EstimatedFullOnHand:   t.InboundFull - t.DeliveredFull,
		EstimatedEmptyAtDepot: t.RecoveredEmpty,
		PendingRecovery:       t.DeliveredFull - t.RecoveredEmpty,
	}
}

// NewDailyReport выводит дневной отчёт из сумм за день.
func NewDailyReport(day time.Time, t DailyTotals) DailyReport {
	return DailyReport{
		Date:           day,
		Deliveries:     t.Deliveries,
		DeliveredFull:  t.DeliveredFull,
		RecoveredEmpty: t.RecoveredEmpty,
		Pending:        t.DeliveredFull - t.RecoveredEmpty,
	}
}
