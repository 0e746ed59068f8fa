package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/validation"
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", model.ErrValidation, msg)
}

type assignRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1,dive,uuid"`
	DriverID string   `json:"driver_id" validate:"required,uuid"`
}

// AssignOrders назначает пакет заказов водителю.
func (h *Handler) AssignOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity(r)

	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "assign orders", err)
		return
	}

	ids := make([]uuid.UUID, 0, len(req.OrderIDs))
	for _, s := range req.OrderIDs {
		id, err := validation.ParseUUID("order_ids", s)
		if err != nil {
			h.writeError(w, r, "assign orders", err)
			return
		}
		ids = append(ids, id)
	}
	driverID, err := validation.ParseUUID("driver_id", req.DriverID)
	if err != nil {
		h.writeError(w, r, "assign orders", err)
		return
	}

	if _, err := h.service.AssignOrders(r.Context(), actor, ids, driverID); err != nil {
		h.writeError(w, r, "assign orders", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type deliveryRequest struct {
	OrderID          string  `json:"order_id" validate:"required,uuid"`
	LlenasEntregadas int     `json:"llenas_entregadas" validate:"gte=0"`
	VaciasRecibidas  int     `json:"vacias_recibidas" validate:"gte=0"`
	Notes            *string `json:"notes"`
}

type deliveryResponse struct {
	ID               string  `json:"id"`
	OrderID          string  `json:"order_id"`
	LlenasEntregadas int     `json:"llenas_entregadas"`
	VaciasRecibidas  int     `json:"vacias_recibidas"`
	Notes            *string `json:"notes"`
	CreatedAt        string  `json:"created_at"`
}

// RegisterDelivery регистрирует успешную доставку.
func (h *Handler) RegisterDelivery(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity(r)

	var req deliveryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "register delivery", err)
		return
	}
	orderID, err := validation.ParseUUID("order_id", req.OrderID)
	if err != nil {
		h.writeError(w, r, "register delivery", err)
		return
	}

	d, err := h.service.RegisterDelivery(r.Context(), actor, model.NewDelivery{
		OrderID:        orderID,
		FullDelivered:  req.LlenasEntregadas,
		EmptyRecovered: req.VaciasRecibidas,
		Notes:          req.Notes,
	})
	if err != nil {
		h.writeError(w, r, "register delivery", err)
		return
	}

	writeJSON(w, http.StatusCreated, deliveryResponse{
		ID:               d.ID.String(),
		OrderID:          d.OrderID.String(),
		LlenasEntregadas: d.FullDelivered,
		VaciasRecibidas:  d.EmptyRecovered,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt.Format(time.RFC3339),
	})
}

type failedDeliveryRequest struct {
	OrderID           string  `json:"order_id" validate:"required,uuid"`
	Reason            string  `json:"reason" validate:"notblank"`
	ReprogramDate     *string `json:"reprogram_date" validate:"omitempty,date"`
	ReprogramTimeSlot *string `json:"reprogram_time_slot"`
}

type failedDeliveryResponse struct {
	ID                string  `json:"id"`
	OrderID           string  `json:"order_id"`
	Reason            string  `json:"reason"`
	ReprogramDate     *string `json:"reprogram_date"`
	ReprogramTimeSlot *string `json:"reprogram_time_slot"`
	CreatedAt         string  `json:"created_at"`
}

// RegisterFailedDelivery регистрирует неудачную попытку доставки.
func (h *Handler) RegisterFailedDelivery(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity(r)

	var req failedDeliveryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "register failed delivery", err)
		return
	}
	orderID, err := validation.ParseUUID("order_id", req.OrderID)
	if err != nil {
		h.writeError(w, r, "register failed delivery", err)
		return
	}
	var date *time.Time
	if req.ReprogramDate != nil {
		if date, err = validation.ParseOptionalDate("reprogram_date", *req.ReprogramDate); err != nil {
			h.writeError(w, r, "register failed delivery", err)
			return
		}
	}

	f, err := h.service.RegisterFailedDelivery(r.Context(), actor, model.NewFailedDelivery{
		OrderID:        orderID,
		Reason:         req.Reason,
		RescheduleDate: date,
		RescheduleSlot: req.ReprogramTimeSlot,
	})
	if err != nil {
		h.writeError(w, r, "register failed delivery", err)
		return
	}

	resp := failedDeliveryResponse{
		ID:                f.ID.String(),
		OrderID:           f.OrderID.String(),
		Reason:            f.Reason,
		ReprogramTimeSlot: f.RescheduleSlot,
		CreatedAt:         f.CreatedAt.Format(time.RFC3339),
	}
	if f.RescheduleDate != nil {
		s := f.RescheduleDate.Format(model.DateLayout)
		resp.ReprogramDate = &s
	}
	writeJSON(w, http.StatusCreated, resp)
}

type inboundRequest struct {
	Date           string  `json:"date" validate:"required,date"`
	CantidadLlenas int     `json:"cantidad_llenas" validate:"gt=0"`
	Notes          *string `json:"notes"`
}

type inboundResponse struct {
	ID             string  `json:"id"`
	Date           string  `json:"date"`
	CantidadLlenas int     `json:"cantidad_llenas"`
	Notes          *string `json:"notes"`
	CreatedAt      string  `json:"created_at"`
}

// RegisterInbound регистрирует поступление полных баллонов.
func (h *Handler) RegisterInbound(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity(r)

	var req inboundRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "register inbound", err)
		return
	}
	date, err := validation.ParseDate("date", req.Date)
	if err != nil {
		h.writeError(w, r, "register inbound", err)
		return
	}

	in, err := h.service.RegisterInbound(r.Context(), actor, model.NewStockInbound{
		Date:     date,
		Quantity: req.CantidadLlenas,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeError(w, r, "register inbound", err)
		return
	}

	writeJSON(w, http.StatusCreated, inboundResponse{
		ID:             in.ID.String(),
		Date:           in.Date.Format(model.DateLayout),
		CantidadLlenas: in.Quantity,
		Notes:          in.Notes,
		CreatedAt:      in.CreatedAt.Format(time.RFC3339),
	})
}

type stockSummaryResponse struct {
	Date                       *string `json:"date"`
	InboundFull                int64   `json:"inbound_llenas"`
	DeliveredFull              int64   `json:"llenas_entregadas"`
	RecoveredEmpty             int64   `json:"vacias_recibidas"`
	LlenasDisponiblesEstimadas int64   `json:"llenas_disponibles_estimadas"`
	VaciasDepositoEstimadas    int64   `json:"vacias_deposito_estimadas"`
	PendientesRecuperar        int64   `json:"pendientes_recuperar"`
}

// StockSummary возвращает оценку остатков.
func (h *Handler) StockSummary(w http.ResponseWriter, r *http.Request) {
	cutoff, err := validation.ParseOptionalDate("date", r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, r, "stock summary", err)
		return
	}

	s, err := h.service.StockSummary(r.Context(), cutoff)
	if err != nil {
		h.writeError(w, r, "stock summary", err)
		return
	}

	resp := stockSummaryResponse{
		InboundFull:                s.InboundFull,
		DeliveredFull:              s.DeliveredFull,
		RecoveredEmpty:             s.RecoveredEmpty,
		LlenasDisponiblesEstimadas: s.EstimatedFullOnHand,
		VaciasDepositoEstimadas:    s.EstimatedEmptyAtDepot,
		PendientesRecuperar:        s.PendingRecovery,
	}
	if s.Date != nil {
		d := s.Date.Format(model.DateLayout)
		resp.Date = &d
	}
	writeJSON(w, http.StatusOK, resp)
}

type dailyReportResponse struct {
	Date             string `json:"date"`
	EntregasDia      int64  `json:"entregas_dia"`
	LlenasEntregadas int64  `json:"llenas_entregadas"`
	VaciasRecibidas  int64  `json:"vacias_recibidas"`
	Pendiente        int64  `json:"pendiente"`
}

// DailyReport возвращает операционный отчёт за день.
func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	day, err := validation.ParseOptionalDate("date", r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, r, "daily report", err)
		return
	}

	rep, err := h.service.DailyReport(r.Context(), day)
	if err != nil {
		h.writeError(w, r, "daily report", err)
		return
	}

	writeJSON(w, http.StatusOK, dailyReportResponse{
		Date:             rep.Date.Format(model.DateLayout),
		EntregasDia:      rep.Deliveries,
		LlenasEntregadas: rep.DeliveredFull,
		VaciasRecibidas:  rep.RecoveredEmpty,
		Pendiente:        rep.Pending,
	})
}
