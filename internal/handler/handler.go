// Package handler содержит HTTP-обработчики API сервиса доставки баллонов.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/gasflow/internal/middleware"
	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Me(ctx context.Context, id uuid.UUID) (*model.User, error)
	CreateOrder(ctx context.Context, actor model.Identity, in model.NewOrder) (*model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, actor model.Identity, f model.OrderFilter) (*model.OrderPage, error)
	ChangeStatus(ctx context.Context, actor model.Identity, id uuid.UUID, target model.OrderStatus) (*model.Order, error)
	AssignOrders(ctx context.Context, actor model.Identity, orderIDs []uuid.UUID, driverID uuid.UUID) ([]model.Assignment, error)
	RegisterDelivery(ctx context.Context, actor model.Identity, in model.NewDelivery) (*model.Delivery, error)
	RegisterFailedDelivery(ctx context.Context, actor model.Identity, in model.NewFailedDelivery) (*model.FailedDelivery, error)
	RegisterInbound(ctx context.Context, actor model.Identity, in model.NewStockInbound) (*model.StockInbound, error)
	StockSummary(ctx context.Context, cutoff *time.Time) (model.StockSummary, error)
	DailyReport(ctx context.Context, day *time.Time) (model.DailyReport, error)
}

// Handler реализует HTTP-обработчики API.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	metrics        *middleware.Metrics
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, metrics *middleware.Metrics) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		metrics:        metrics,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError переводит категорию ошибки в HTTP-статус. Внутренние ошибки логируются,
// клиенту отдаётся только общий текст.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var status int
	switch {
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrConflict):
		status = http.StatusConflict
	default:
		h.logger.Error(op+" error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		writeErrorMessage(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	writeErrorMessage(w, status, err.Error())
}

// decodeJSON читает тело запроса и проверяет его по тегам validate.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %w", model.ErrValidation, err)
	}
	return validation.Struct(dst)
}

func identity(r *http.Request) (model.Identity, bool) {
	return middleware.GetIdentityFromContext(r.Context())
}

// Health сообщает, что процесс жив.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login проверяет логин и пароль и выдаёт bearer-токен.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "login", err)
		return
	}

	u, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			writeErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.writeError(w, r, "login", err)
		return
	}

	token, err := h.authMiddleware.IssueToken(u.ID, u.Role)
	if err != nil {
		h.writeError(w, r, "issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "Bearer"})
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Me возвращает текущего пользователя.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		return
	}

	u, err := h.service.Me(r.Context(), id.UserID)
	if err != nil {
		h.writeError(w, r, "me", err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{ID: u.ID.String(), Username: u.Username, Role: string(u.Role)})
}
