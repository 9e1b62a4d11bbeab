package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/gymsessions/internal/auth"
	"github.com/2beens/gymsessions/internal/telemetry/tracing"
	"github.com/2beens/gymsessions/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=sessions_test

type sessionsService interface {
	Start(ctx context.Context, userID, planID, dayIndex int) (*Session, error)
	CompleteSet(ctx context.Context, userID, setID, repsDone int, weightLifted float64) (*Set, error)
	SkipSet(ctx context.Context, userID, setID int) (*Set, error)
	Finish(ctx context.Context, userID, sessionID int) (*Session, error)
	Cancel(ctx context.Context, userID, sessionID int) (*Session, error)
	GetActive(ctx context.Context, userID int) (*Session, error)
	Get(ctx context.Context, userID, sessionID int) (*Session, error)
	List(ctx context.Context, userID, page, size int) ([]*Session, int, error)
	SetFeedback(ctx context.Context, userID, sessionID int, rating *int, notes *string) (*Session, error)
}

type StartRequest struct {
	PlanID   *int `json:"plan_id"`
	DayIndex *int `json:"day_index"`
}

type CompleteSetRequest struct {
	RepsDone     *int     `json:"reps_done"`
	WeightLifted *float64 `json:"weight_lifted"`
}

type FeedbackRequest struct {
	Rating *int    `json:"rating"`
	Notes  *string `json:"notes"`
}

type ListResponse struct {
	Sessions []*Session `json:"sessions"`
	Total    int        `json:"total"`
}

type Handler struct {
	service sessionsService
}

func NewHandler(service sessionsService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/start", handler.HandleStart).Methods("POST", "OPTIONS").Name("start-session")
	router.HandleFunc("/active", handler.HandleGetActive).Methods("GET", "OPTIONS").Name("active-session")
	router.HandleFunc("/list/page/{page}/size/{size}", handler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	router.HandleFunc("/sets/{id:[0-9]+}/complete", handler.HandleCompleteSet).Methods("POST", "OPTIONS").Name("complete-set")
	router.HandleFunc("/sets/{id:[0-9]+}/skip", handler.HandleSkipSet).Methods("POST", "OPTIONS").Name("skip-set")
	router.HandleFunc("/{id:[0-9]+}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	router.HandleFunc("/{id:[0-9]+}/finish", handler.HandleFinish).Methods("POST", "OPTIONS").Name("finish-session")
	router.HandleFunc("/{id:[0-9]+}/cancel", handler.HandleCancel).Methods("POST", "OPTIONS").Name("cancel-session")
	router.HandleFunc("/{id:[0-9]+}/feedback", handler.HandleFeedback).Methods("PUT", "OPTIONS").Name("session-feedback")
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.start")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("start session, unmarshal json: %s", err)
		http.Error(w, "invalid request json", http.StatusBadRequest)
		return
	}
	if req.PlanID == nil || req.DayIndex == nil {
		http.Error(w, "plan_id and day_index are required", http.StatusBadRequest)
		return
	}

	session, err := handler.service.Start(ctx, userID, *req.PlanID, *req.DayIndex)
	if err != nil {
		writeServiceError(w, span, "start session", err)
		return
	}

	pkg.WriteJSON(w, session, http.StatusCreated)
}

func (handler *Handler) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.getActive")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	// no active session is answered with null
	session, err := handler.service.GetActive(ctx, userID)
	if err != nil {
		writeServiceError(w, span, "get active session", err)
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		http.Error(w, "invalid size", http.StatusBadRequest)
		return
	}

	list, total, err := handler.service.List(ctx, userID, page, size)
	if err != nil {
		writeServiceError(w, span, "list sessions", err)
		return
	}

	pkg.WriteJSON(w, ListResponse{Sessions: list, Total: total}, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.get")
	defer span.End()

	userID, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	session, err := handler.service.Get(ctx, userID, id)
	if err != nil {
		writeServiceError(w, span, "get session", err)
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) HandleCompleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.completeSet")
	defer span.End()

	userID, setID, ok := userAndID(w, r)
	if !ok {
		return
	}

	var req CompleteSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("complete set, unmarshal json: %s", err)
		http.Error(w, "invalid request json", http.StatusBadRequest)
		return
	}
	if req.RepsDone == nil || req.WeightLifted == nil {
		http.Error(w, "reps_done and weight_lifted are required", http.StatusBadRequest)
		return
	}

	set, err := handler.service.CompleteSet(ctx, userID, setID, *req.RepsDone, *req.WeightLifted)
	if err != nil {
		writeServiceError(w, span, "complete set", err)
		return
	}

	pkg.WriteJSON(w, set, http.StatusOK)
}

func (handler *Handler) HandleSkipSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.skipSet")
	defer span.End()

	userID, setID, ok := userAndID(w, r)
	if !ok {
		return
	}

	set, err := handler.service.SkipSet(ctx, userID, setID)
	if err != nil {
		writeServiceError(w, span, "skip set", err)
		return
	}

	pkg.WriteJSON(w, set, http.StatusOK)
}

func (handler *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.finish")
	defer span.End()

	userID, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	session, err := handler.service.Finish(ctx, userID, id)
	if err != nil {
		writeServiceError(w, span, "finish session", err)
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.cancel")
	defer span.End()

	userID, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	session, err := handler.service.Cancel(ctx, userID, id)
	if err != nil {
		writeServiceError(w, span, "cancel session", err)
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.feedback")
	defer span.End()

	userID, id, ok := userAndID(w, r)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("session feedback, unmarshal json: %s", err)
		http.Error(w, "invalid request json", http.StatusBadRequest)
		return
	}
	if req.Rating == nil && req.Notes == nil {
		http.Error(w, "rating or notes required", http.StatusBadRequest)
		return
	}

	session, err := handler.service.SetFeedback(ctx, userID, id, req.Rating, req.Notes)
	if err != nil {
		writeServiceError(w, span, "session feedback", err)
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func userAndID(w http.ResponseWriter, r *http.Request) (userID, id int, ok bool) {
	userID, ok = auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return 0, 0, false
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, id, true
}

func writeServiceError(w http.ResponseWriter, span trace.Span, op string, err error) {
	span.RecordError(err)
	switch {
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidState):
		http.Error(w, "invalid state, refetch the session", http.StatusConflict)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "failed to "+op, http.StatusInternalServerError)
	}
}
