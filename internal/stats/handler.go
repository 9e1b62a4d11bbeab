package stats

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/gymsessions/internal/auth"
	"github.com/2beens/gymsessions/internal/telemetry/tracing"
	"github.com/2beens/gymsessions/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=stats_test

type summarizer interface {
	Summary(ctx context.Context, userID int, period Period) (*Summary, error)
}

type Handler struct {
	service summarizer
}

func NewHandler(service summarizer) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/summary", handler.HandleSummary).Methods("GET", "OPTIONS").Name("stats-summary")
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.summary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	period, err := ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		http.Error(w, "period must be one of: all_time, last_month, last_week", http.StatusBadRequest)
		return
	}

	summary, err := handler.service.Summary(ctx, userID, period)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		span.RecordError(err)
		log.Errorf("stats summary of user %d: %s", userID, err)
		http.Error(w, "failed to get stats summary", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}
