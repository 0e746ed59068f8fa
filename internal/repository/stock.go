package repository

import (
	"context"
	"time"

	"github.com/mmeshcher/gasflow/internal/model"
)

// StockTotals возвращает суммы поступлений, отданных полных и забранных пустых баллонов.
// Если cutoff задан, учитываются только записи, датированные этим днём или раньше.
func (r *PostgresRepository) StockTotals(ctx context.Context, cutoff *time.Time) (model.StockTotals, error) {
	var day any
	if cutoff != nil {
		day = model.Day(*cutoff)
	}

	var t model.StockTotals
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(cantidad_llenas), 0) FROM stock_inbounds
			  WHERE $1::date IS NULL OR inbound_date <= $1::date),
			COALESCE(SUM(d.llenas_entregadas), 0),
			COALESCE(SUM(d.vacias_recibidas), 0)
		FROM deliveries d
		WHERE $1::date IS NULL OR d.created_at::date <= $1::date`,
		day,
	).Scan(&t.InboundFull, &t.DeliveredFull, &t.RecoveredEmpty)
	if err != nil {
		return model.StockTotals{}, mapError("stock totals", err)
	}
	return t, nil
}

// DailyTotals возвращает число доставок и суммы баллонов за календарный день.
func (r *PostgresRepository) DailyTotals(ctx context.Context, day time.Time) (model.DailyTotals, error) {
	var t model.DailyTotals
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(llenas_entregadas), 0),
		       COALESCE(SUM(vacias_recibidas), 0)
		FROM deliveries
		WHERE created_at::date = $1::date`,
		model.Day(day),
	).Scan(&t.Deliveries, &t.DeliveredFull, &t.RecoveredEmpty)
	if err != nil {
		return model.DailyTotals{}, mapError("daily totals", err)
	}
	return t, nil
}
