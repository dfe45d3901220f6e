package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"dinehall/internal/reservations/repository"
	"dinehall/internal/reservations/service"
	apperrors "dinehall/pkg/errors"
	httputil "dinehall/pkg/http"
	"dinehall/pkg/logger"
	"dinehall/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var res model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	view, err := h.service.Create(r.Context(), &res)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, view); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) AutoAssign(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AutoAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AutoAssign", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	view, err := h.service.AutoAssign(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AutoAssign", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, view); err != nil {
		h.log.Error("failed to write created response", "handler", "AutoAssign", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, res); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	filter := repository.ListFilter{
		RestaurantID: query.Get("restaurant_id"),
		RoomID:       query.Get("room_id"),
		DinerEmail:   query.Get("diner_email"),
		Date:         query.Get("date"),
		Status:       query.Get("status"),
	}

	reservations, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	// Omitted group_size means the client wants every free room regardless
	// of capacity.
	groupSize := 0
	if sizeStr := query.Get("group_size"); sizeStr != "" {
		var err error
		groupSize, err = strconv.Atoi(sizeStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid group_size parameter: %s", sizeStr))); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	frame := &model.TimeFrame{
		Date:      query.Get("date"),
		StartTime: query.Get("start_time"),
		EndTime:   query.Get("end_time"),
	}

	rooms, err := h.service.FindAvailableRooms(r.Context(), ps.ByName("id"), query.Get("room_type"), groupSize, frame)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.POST("/api/v1/reservations/auto-assign", h.AutoAssign)
	router.GET("/api/v1/reservations", h.List)
	router.GET("/api/v1/reservations/:id", h.GetByID)
	router.DELETE("/api/v1/reservations/:id/cancel", h.Cancel)
	router.GET("/api/v1/restaurants/:id/availability", h.Availability)
}
