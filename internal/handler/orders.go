package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/validation"
)

type orderResponse struct {
	ID            string  `json:"id"`
	Address       string  `json:"address"`
	Zone          string  `json:"zone"`
	ScheduledDate string  `json:"scheduled_date"`
	TimeSlot      string  `json:"time_slot"`
	Quantity      int     `json:"quantity"`
	Notes         *string `json:"notes"`
	Status        string  `json:"status"`
	AssigneeID    *string `json:"assignee_id"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func newOrderResponse(o *model.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID.String(),
		Address:       o.Address,
		Zone:          o.Zone,
		ScheduledDate: o.ScheduledDate.Format(model.DateLayout),
		TimeSlot:      o.TimeSlot,
		Quantity:      o.Quantity,
		Notes:         o.Notes,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     o.UpdatedAt.Format(time.RFC3339),
	}
	if o.AssigneeID != nil {
		s := o.AssigneeID.String()
		resp.AssigneeID = &s
	}
	return resp
}

type createOrderRequest struct {
	Address       string  `json:"address" validate:"notblank"`
	Zone          string  `json:"zone" validate:"notblank"`
	ScheduledDate string  `json:"scheduled_date" validate:"required,date"`
	TimeSlot      string  `json:"time_slot" validate:"notblank"`
	Quantity      int     `json:"quantity" validate:"gt=0"`
	Notes         *string `json:"notes"`
}

// CreateOrder создаёт заказ.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity(r)

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "create order", err)
		return
	}
	date, err := validation.ParseDate("scheduled_date", req.ScheduledDate)
	if err != nil {
		h.writeError(w, r, "create order", err)
		return
	}

	o, err := h.service.CreateOrder(r.Context(), actor, model.NewOrder{
		Address:       req.Address,
		Zone:          req.Zone,
		ScheduledDate: date,
		TimeSlot:      req.TimeSlot,
		Quantity:      req.Quantity,
		Notes:         req.Notes,
	})
	if err != nil {
		h.writeError(w, r, "create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, newOrderResponse(o))
}

// GetOrder возвращает заказ. Водителю доступны только назначенные ему заказы.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity(r)

	id, err := validation.ParseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "get order", err)
		return
	}

	o, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get order", err)
		return
	}
	if actor.Role == model.RoleDriver && (o.AssigneeID == nil || *o.AssigneeID != actor.UserID) {
		writeErrorMessage(w, http.StatusNotFound, model.ErrNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, newOrderResponse(o))
}

type orderListResponse struct {
	Items      []orderResponse `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

// ListOrders возвращает страницу заказов по фильтру из query-параметров.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity(r)

	f, err := parseOrderFilter(r)
	if err != nil {
		h.writeError(w, r, "list orders", err)
		return
	}

	page, err := h.service.ListOrders(r.Context(), actor, f)
	if err != nil {
		h.writeError(w, r, "list orders", err)
		return
	}

	resp := orderListResponse{
		Items:      make([]orderResponse, 0, len(page.Items)),
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
	for i := range page.Items {
		resp.Items = append(resp.Items, newOrderResponse(&page.Items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseOrderFilter(r *http.Request) (model.OrderFilter, error) {
	q := r.URL.Query()
	var f model.OrderFilter

	date, err := validation.ParseOptionalDate("date", q.Get("date"))
	if err != nil {
		return f, err
	}
	f.Date = date

	if s := q.Get("status"); s != "" {
		status := model.OrderStatus(s)
		f.Status = &status
	}
	if s := q.Get("assignee"); s != "" {
		id, err := validation.ParseUUID("assignee", s)
		if err != nil {
			return f, err
		}
		f.AssigneeID = &id
	}
	if f.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return f, err
	}
	if f.PageSize, err = intParam(q.Get("page_size"), "page_size"); err != nil {
		return f, err
	}
	return f, nil
}

func intParam(s, field string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		// 0 зарезервирован под «не задано», поэтому явный 0 отклоняется здесь.
		return 0, validationError(field + " must be a positive integer")
	}
	return n, nil
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ChangeStatus меняет статус заказа.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity(r)

	id, err := validation.ParseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "change status", err)
		return
	}

	var req changeStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "change status", err)
		return
	}

	o, err := h.service.ChangeStatus(r.Context(), actor, id, model.OrderStatus(req.Status))
	if err != nil {
		h.writeError(w, r, "change status", err)
		return
	}

	writeJSON(w, http.StatusOK, newOrderResponse(o))
}
