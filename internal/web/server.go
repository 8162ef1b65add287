package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/example/gatherd/internal/selection"
)

// ChoicesProvider is the read side of the selection engine.
type ChoicesProvider interface {
	Choices(ctx context.Context) (selection.Choices, bool, error)
}

type Server struct {
	Engine ChoicesProvider

	// AllowedOrigins are exact origins permitted to call the API from a
	// browser.
	AllowedOrigins []string
}

type choicesResponse struct {
	Message       string     `json:"message,omitempty"`
	TodayChoices  []string   `json:"today_choices,omitempty"`
	GatheringTime *time.Time `json:"gathering_time,omitempty"`
	FinalPlace    string     `json:"final_place,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/choices", s.handleChoices)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return s.cors(mux)
}

func (s *Server) handleChoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	choices, ok, err := s.Engine.Choices(r.Context())
	if err != nil {
		// Read failures degrade to the not-yet response.
		log.Printf("web: resolve choices: %v", err)
	}
	if err != nil || !ok {
		writeJSON(w, http.StatusOK, choicesResponse{Message: "No selection made yet."})
		return
	}

	gt := choices.GatheringTime
	writeJSON(w, http.StatusOK, choicesResponse{
		TodayChoices:  choices.Places,
		GatheringTime: &gt,
		FinalPlace:    choices.FinalPlace,
	})
}

// handleHealthz is a liveness probe; it touches neither store nor cache.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "*")
			h.Set("Access-Control-Allow-Headers", "*")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: encode response: %v", err)
	}
}

func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("web: listening on %s", addr)
	return srv.ListenAndServe()
}
