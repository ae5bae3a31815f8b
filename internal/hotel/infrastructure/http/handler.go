package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/roomflow/Hotel-Booking-System/internal/hotel/application"
	"github.com/roomflow/Hotel-Booking-System/internal/hotel/domain"
)

const requestIDHeader = "X-Request-Id"

type Handler struct {
	log    *slog.Logger
	rooms  *application.RoomService
	hotels *application.HotelService
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, rooms *application.RoomService, hotels *application.HotelService) *Handler {
	return &Handler{
		log:    log,
		rooms:  rooms,
		hotels: hotels,
		tracer: otel.Tracer("hotel-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/hotels", func(r chi.Router) {
		r.Post("/", h.createHotel)
		r.Get("/", h.listHotels)
		r.Get("/{id}", h.getHotel)
	})

	r.Route("/api/rooms", func(r chi.Router) {
		r.Post("/", h.createRoom)
		r.Get("/", h.listRooms)
		r.Get("/recommend", h.recommendRooms)

		// Internal booking-saga endpoints. Every call carries a request id
		// so redelivery after a retry is recognized.
		r.Post("/{id}/confirm-availability", h.confirmAvailability)
		r.Post("/{id}/release", h.releaseSlot)
		r.Post("/{id}/increment-bookings", h.incrementBookings)
	})

	return r
}

type createHotelReq struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type hotelResp struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type createRoomReq struct {
	HotelID int64  `json:"hotelId"`
	Number  string `json:"number"`
}

type roomResp struct {
	ID          int64  `json:"id"`
	HotelID     int64  `json:"hotelId"`
	Number      string `json:"number"`
	Available   bool   `json:"available"`
	TimesBooked int    `json:"timesBooked"`
}

func toRoomResp(r domain.Room) roomResp {
	return roomResp{
		ID:          r.ID,
		HotelID:     r.HotelID,
		Number:      r.Number,
		Available:   r.Available,
		TimesBooked: r.TimesBooked,
	}
}

func (h *Handler) createHotel(w http.ResponseWriter, r *http.Request) {
	var req createHotelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	hotel, err := h.hotels.CreateHotel(r.Context(), req.Name, req.Address)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, hotelResp{ID: hotel.ID, Name: hotel.Name, Address: hotel.Address})
}

func (h *Handler) listHotels(w http.ResponseWriter, r *http.Request) {
	list, err := h.hotels.Hotels(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]hotelResp, 0, len(list))
	for _, hotel := range list {
		out = append(out, hotelResp{ID: hotel.ID, Name: hotel.Name, Address: hotel.Address})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	hotel, err := h.hotels.HotelByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hotelResp{ID: hotel.ID, Name: hotel.Name, Address: hotel.Address})
}

func (h *Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Number == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	room, err := h.rooms.CreateRoom(r.Context(), req.HotelID, req.Number)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomResp(room))
}

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	list, err := h.rooms.AvailableRooms(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeRooms(w, list)
}

func (h *Handler) recommendRooms(w http.ResponseWriter, r *http.Request) {
	list, err := h.rooms.RecommendedRooms(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeRooms(w, list)
}

func (h *Handler) writeRooms(w http.ResponseWriter, list []domain.Room) {
	out := make([]roomResp, 0, len(list))
	for _, room := range list {
		out = append(out, toRoomResp(room))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) confirmAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ConfirmAvailability")
	defer span.End()

	roomID, requestID, ok := h.sagaParams(w, r)
	if !ok {
		return
	}

	confirmed, err := h.rooms.ConfirmAvailability(ctx, roomID, requestID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmed)
}

func (h *Handler) releaseSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ReleaseSlot")
	defer span.End()

	roomID, requestID, ok := h.sagaParams(w, r)
	if !ok {
		return
	}

	if err := h.rooms.ReleaseSlot(ctx, roomID, requestID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) incrementBookings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "IncrementTimesBooked")
	defer span.End()

	roomID, requestID, ok := h.sagaParams(w, r)
	if !ok {
		return
	}

	if err := h.rooms.IncrementTimesBooked(ctx, roomID, requestID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) sagaParams(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	roomID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, "", false
	}
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		http.Error(w, "missing "+requestIDHeader+" header", http.StatusBadRequest)
		return 0, "", false
	}
	return roomID, requestID, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrHotelNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Error("request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
