package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/repository"
)

// RegisterInbound добавляет запись о поступлении полных баллонов в журнал.
func (s *Service) RegisterInbound(ctx context.Context, actor model.Identity, in model.NewStockInbound) (*model.StockInbound, error) {
	if in.Quantity <= 0 {
		return nil, validationf("cantidad_llenas must be greater than 0")
	}
	in.Date = model.Day(in.Date)

	var created *model.StockInbound
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.TxRepository) error {
		var err error
		created, err = tx.CreateStockInbound(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.record(ctx, event(actor, "stock_inbound", created.ID, "created", map[string]any{
		"date":            created.Date.Format(model.DateLayout),
		"cantidad_llenas": created.Quantity,
	}))
	if err != nil {
		return nil, fmt.Errorf("stock inbound %s registered: %w", created.ID, err)
	}
	return created, nil
}

// StockSummary возвращает оценку остатков на дату cutoff или за всю историю.
func (s *Service) StockSummary(ctx context.Context, cutoff *time.Time) (model.StockSummary, error) {
	if cutoff != nil {
		d := model.Day(*cutoff)
		cutoff = &d
	}
	totals, err := s.repo.StockTotals(ctx, cutoff)
	if err != nil {
		return model.StockSummary{}, err
	}
	return model.NewStockSummary(cutoff, totals), nil
}

// DailyReport возвращает операционный отчёт за день. Без даты берётся текущий день.
func (s *Service) DailyReport(ctx context.Context, day *time.Time) (model.DailyReport, error) {
	d := model.Day(s.now().UTC())
	if day != nil {
		d = model.Day(*day)
	}
	totals, err := s.repo.DailyTotals(ctx, d)
	if err != nil {
		return model.DailyReport{}, err
	}
	return model.NewDailyReport(d, totals), nil
}
