package handler

import (
	"encoding/json"
	"net/http"

	"dinehall/internal/restaurants/service"
	httputil "dinehall/pkg/http"
	"dinehall/pkg/logger"
	"dinehall/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RestaurantHandler struct {
	restaurants service.RestaurantService
	rooms       service.RoomService
	log         *logger.Logger
}

func NewRestaurantHandler(restaurants service.RestaurantService, rooms service.RoomService, log *logger.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		restaurants: restaurants,
		rooms:       rooms,
		log:         log,
	}
}

func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var restaurant model.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&restaurant); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.restaurants.Create(r.Context(), &restaurant); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, restaurant); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *RestaurantHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	restaurant, err := h.restaurants.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, restaurant); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RestaurantHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	restaurants, total, err := h.restaurants.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, restaurants, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var restaurant model.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&restaurant); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.restaurants.Update(r.Context(), ps.ByName("id"), &restaurant); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RestaurantHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.restaurants.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RestaurantHandler) CreateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateRoom", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.rooms.Create(r.Context(), ps.ByName("id"), &room); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateRoom", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, room); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateRoom", "operation", "WriteCreated", "error", err)
	}
}

func (h *RestaurantHandler) GetRooms(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRooms", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	rooms, total, err := h.rooms.GetByRestaurant(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRooms", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetRooms", "operation", "WritePaginated", "error", err)
	}
}

func (h *RestaurantHandler) GetRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.rooms.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRoom", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetRoom", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RestaurantHandler) UpdateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateRoom", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.rooms.Update(r.Context(), ps.ByName("id"), &room); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateRoom", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RestaurantHandler) DeleteRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.rooms.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteRoom", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RestaurantHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/restaurants", h.Create)
	router.GET("/api/v1/restaurants", h.GetAll)
	router.GET("/api/v1/restaurants/:id", h.GetByID)
	router.PATCH("/api/v1/restaurants/:id", h.Update)
	router.DELETE("/api/v1/restaurants/:id", h.Delete)

	router.POST("/api/v1/restaurants/:id/rooms", h.CreateRoom)
	router.GET("/api/v1/restaurants/:id/rooms", h.GetRooms)
	router.GET("/api/v1/rooms/:id", h.GetRoom)
	router.PATCH("/api/v1/rooms/:id", h.UpdateRoom)
	router.DELETE("/api/v1/rooms/:id", h.DeleteRoom)
}
