package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Router exposes health, metrics and the upcoming reminders of e.
func Router(e *Engine) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/reminders", func(w http.ResponseWriter, req *http.Request) {
		upcoming, err := e.Upcoming(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		type item struct {
			ID    string `json:"id"`
			Owner string `json:"owner"`
			Title string `json:"title"`
			Body  string `json:"body"`
			At    string `json:"at"`
		}
		items := make([]item, 0, len(upcoming))
		for _, u := range upcoming {
			items = append(items, item{
				ID:    u.Event.ID,
				Owner: string(u.Event.Owner),
				Title: u.Event.Title,
				Body:  u.Body(),
				At:    u.At.Format(time.RFC3339),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}).Methods(http.MethodGet)
	return r
}

// Serve runs the reminder schedule and the HTTP endpoints until ctx is done.
func Serve(ctx context.Context, e *Engine, spec, listen string, log zerolog.Logger) error {
	if err := e.Start(ctx, spec); err != nil {
		return err
	}
	defer e.Stop()

	srv := &http.Server{
		Addr:              listen,
		Handler:           Router(e),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", listen).Str("schedule", spec).Msg("reminder daemon started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("reminder daemon stopping")
	return srv.Shutdown(shutdownCtx)
}
