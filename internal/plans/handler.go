package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2beens/gymsessions/internal/auth"
	"github.com/2beens/gymsessions/internal/telemetry/tracing"
	"github.com/2beens/gymsessions/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=plans_test

type plansRepo interface {
	Add(ctx context.Context, snapshot Snapshot) (*Snapshot, error)
	Delete(ctx context.Context, id, userID int) error
	Get(ctx context.Context, id int) (*Snapshot, error)
	Latest(ctx context.Context, userID int) (*Snapshot, error)
}

type Handler struct {
	repo plansRepo
}

func NewHandler(repo plansRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-plan")
	router.HandleFunc("/latest", handler.HandleLatest).Methods("GET", "OPTIONS").Name("latest-plan")
	router.HandleFunc("/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-plan")
	router.HandleFunc("/{id}", handler.HandleDelete).Methods("DELETE").Name("delete-plan")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.add")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var snapshot Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		log.Tracef("new plan, unmarshal json: %s", err)
		http.Error(w, "invalid plan json", http.StatusBadRequest)
		return
	}
	snapshot.ID = 0
	snapshot.UserID = userID

	if err := snapshot.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, snapshot)
	if err != nil {
		log.Errorf("add plan for user %d: %s", userID, err)
		http.Error(w, "failed to add plan", http.StatusInternalServerError)
		return
	}

	log.Debugf("new plan added: %d, user: %d", added.ID, userID)
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.latest")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	snapshot, err := handler.repo.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		log.Errorf("get latest plan for user %d: %s", userID, err)
		http.Error(w, "failed to get plan", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, snapshot, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid plan id", http.StatusBadRequest)
		return
	}

	snapshot, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		log.Errorf("get plan %d: %s", id, err)
		http.Error(w, "failed to get plan", http.StatusInternalServerError)
		return
	}
	// other users' plans look like missing ones
	if snapshot.UserID != userID {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}

	pkg.WriteJSON(w, snapshot, http.StatusOK)
}

// HandleDelete removes a plan of the logged-in user. Sessions already started from it are kept.
func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid plan id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		span.RecordError(err)
		log.Errorf("delete plan %d of user %d: %s", id, userID, err)
		http.Error(w, "failed to delete plan", http.StatusInternalServerError)
		return
	}

	log.Debugf("plan deleted: %d, user: %d", id, userID)
	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}
