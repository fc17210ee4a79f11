package handler

import "net/http"

// Router wires the counter endpoints; everything except login sits
// behind the session gate.
func Router(h *Handler) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/tables", h.ListTables)
	api.HandleFunc("POST /api/v1/tables", h.AddTable)
	api.HandleFunc("DELETE /api/v1/tables/{table_id}", h.RemoveTable)
	api.HandleFunc("POST /api/v1/tables/{table_id}/lines", h.AddLine)
	api.HandleFunc("DELETE /api/v1/tables/{table_id}/lines/{dish_id}", h.RemoveLine)
	api.HandleFunc("GET /api/v1/tables/{table_id}/bill", h.Bill)
	api.HandleFunc("GET /api/v1/tables/{table_id}/ticket", h.Ticket)
	api.HandleFunc("GET /api/v1/categories", h.Categories)
	api.HandleFunc("GET /api/v1/dishes", h.Dishes)
	api.HandleFunc("POST /api/v1/tables/{table_id}/settlement", h.OpenSettlement)
	api.HandleFunc("GET /api/v1/tables/{table_id}/settlement", h.GetSettlement)
	api.HandleFunc("POST /api/v1/tables/{table_id}/settlement/method", h.ChooseMethod)
	api.HandleFunc("POST /api/v1/tables/{table_id}/settlement/upi", h.ResolveUPI)
	api.HandleFunc("POST /api/v1/tables/{table_id}/settlement/cash", h.EnterCash)
	api.HandleFunc("POST /api/v1/tables/{table_id}/settlement/confirm", h.ConfirmSettlement)
	api.HandleFunc("DELETE /api/v1/tables/{table_id}/settlement", h.DismissSettlement)
	api.HandleFunc("POST /api/v1/tables/{table_id}/closeout", h.Closeout)
	api.HandleFunc("GET /api/v1/orders", h.Orders)
	api.HandleFunc("GET /api/v1/orders/summary", h.OrdersSummary)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/login", h.Login)
	mux.Handle("/api/v1/", h.auth.Middleware(api))
	return mux
}
