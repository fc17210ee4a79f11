package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/srithedesigner/bunniesBurger/internal/auth"
	"github.com/srithedesigner/bunniesBurger/internal/common/httpx"
	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
	"github.com/srithedesigner/bunniesBurger/internal/counter/service"
	"github.com/srithedesigner/bunniesBurger/internal/domain"
	"github.com/srithedesigner/bunniesBurger/internal/settlement"
)

type Handler struct {
	svc  *service.Counter
	auth *auth.Service
	log  *logger.Logger
}

func New(svc *service.Counter, authSvc *auth.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, auth: authSvc, log: log}
}

// writeError maps service and settlement errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownTable),
		errors.Is(err, service.ErrUnknownDish),
		errors.Is(err, service.ErrNoSettlement):
		httpx.WriteProblem(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, settlement.ErrInsufficientCash):
		httpx.WriteProblem(w, http.StatusUnprocessableEntity, "insufficient_cash", err.Error())
	case errors.Is(err, settlement.ErrUnknownMethod):
		httpx.WriteProblem(w, http.StatusBadRequest, "unknown_method", err.Error())
	case errors.Is(err, settlement.ErrBadTransition):
		httpx.WriteProblem(w, http.StatusConflict, "bad_transition", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		httpx.WriteProblem(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	default:
		httpx.WriteProblem(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return false
	}
	return true
}

func tableID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("table_id"))
	if err != nil || id < 1 {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "table_id must be a positive integer")
		return 0, false
	}
	return id, true
}

// --- auth ---

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, domain.LoginResponse{Token: token})
}

// --- tables ---

func (h *Handler) ListTables(w http.ResponseWriter, _ *http.Request) {
	tables := h.svc.Tables()
	out := make([]domain.TableResponse, 0, len(tables))
	for _, t := range tables {
		out = append(out, domain.TableResponse{ID: t.ID, Name: t.Name, Total: t.Total})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"tables": out})
}

func (h *Handler) AddTable(w http.ResponseWriter, r *http.Request) {
	t := h.svc.AddTable(r.Context())
	httpx.WriteJSON(w, http.StatusCreated, domain.TableResponse{ID: t.ID, Name: t.Name, Total: t.Total})
}

func (h *Handler) RemoveTable(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	if err := h.svc.RemoveTable(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- order lines ---

func (h *Handler) lineResponse(line domain.Line) domain.LineResponse {
	return domain.LineResponse{
		TableID:  line.TableID,
		DishID:   line.DishID,
		Quantity: line.Quantity,
		Dish:     h.svc.DishName(line.DishID),
	}
}

func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	var req domain.AddLineRequest
	if !decode(w, r, &req) {
		return
	}
	line, err := h.svc.AddDish(r.Context(), id, req.DishID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.lineResponse(line))
}

func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	dishID, err := strconv.Atoi(r.PathValue("dish_id"))
	if err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "dish_id must be an integer")
		return
	}
	line, err := h.svc.RemoveDish(r.Context(), id, dishID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.lineResponse(line))
}

// --- documents ---

func (h *Handler) Bill(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.Bill(id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) Ticket(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.Ticket(id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, doc)
}

// --- catalog ---

func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	categories := h.svc.Categories()
	out := make([]domain.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, domain.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (h *Handler) Dishes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dishes := h.svc.Dishes(q.Get("search"), q.Get("category"))
	out := make([]domain.DishResponse, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, domain.DishResponse{ID: d.ID, Name: d.Name, Price: d.Price, Category: d.Category})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"dishes": out})
}

// --- settlement ---

func (h *Handler) OpenSettlement(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.OpenSettlement(id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Settlement(id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) ChooseMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	var req domain.ChooseMethodRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.svc.ChooseMethod(id, settlement.Method(req.Method))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) ResolveUPI(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	var req domain.UPIResultRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Result != "completed" && req.Result != "failed" {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "result must be completed or failed")
		return
	}
	view, err := h.svc.ResolveUPI(id, req.Result == "completed")
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) EnterCash(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	var req domain.CashRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.svc.EnterCash(id, req.Tendered)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) ConfirmSettlement(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.AcknowledgeSettlement(id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) DismissSettlement(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	h.svc.DismissSettlement(id)
	w.WriteHeader(http.StatusNoContent)
}

// --- closeout and history ---

func (h *Handler) Closeout(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Closeout(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

// dateParam validates an optional YYYY-MM-DD query parameter before it
// reaches the store; empty is allowed and means no filter.
func dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return "", true
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
		return "", false
	}
	return date, true
}

func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	orders, err := h.svc.Orders(r.Context(), date, r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) OrdersSummary(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	summary, err := h.svc.OrdersSummary(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
}
