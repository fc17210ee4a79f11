package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type Server struct{ *http.Server }

func New(addr string, h http.Handler) *Server {
	return &Server{Server: &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	select {
	case <-ctx.Done():
		ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx2)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// WriteJSON sends v with the given status.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem sends a simplified RFC7807 problem document.
func WriteProblem(w http.ResponseWriter, code int, typ, detail string) {
	WriteJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
