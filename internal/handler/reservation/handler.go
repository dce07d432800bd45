package reservation

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/reservation-admin/internal/handler"
	"github.com/jwalitptl/reservation-admin/internal/middleware"
	"github.com/jwalitptl/reservation-admin/internal/model"
	"github.com/jwalitptl/reservation-admin/internal/repository"
	reservationService "github.com/jwalitptl/reservation-admin/internal/service/reservation"
	apperrors "github.com/jwalitptl/reservation-admin/pkg/errors"
	"github.com/jwalitptl/reservation-admin/pkg/httputil"
)

type Handler struct {
	svc handler.ReservationService
}

func NewHandler(svc handler.ReservationService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reservations := r.Group("/reservations")
	{
		reservations.GET("", h.List)
		reservations.GET("/today", h.ListToday)
		reservations.DELETE("/:id", h.Delete)
	}
}

type listingResponse struct {
	Title        string               `json:"title"`
	View         model.View           `json:"view"`
	Date         string               `json:"date,omitempty"`
	Reservations []*model.Reservation `json:"reservations"`
}

type deleteResponse struct {
	ID         uuid.UUID  `json:"id"`
	ReturnView model.View `json:"return_view"`
}

func newListingResponse(l *model.Listing) listingResponse {
	reservations := l.Reservations
	if reservations == nil {
		reservations = []*model.Reservation{}
	}
	return listingResponse{
		Title:        l.Title(),
		View:         l.View,
		Date:         l.Date,
		Reservations: reservations,
	}
}

// List returns all reservations, or those on ?date= when the parameter is present.
func (h *Handler) List(c *gin.Context) {
	var (
		listing *model.Listing
		err     error
	)
	if date, ok := c.GetQuery("date"); ok {
		listing, err = h.svc.ListByDate(c.Request.Context(), date)
	} else {
		listing, err = h.svc.ListAll(c.Request.Context())
	}
	if err != nil {
		httputil.RespondWithError(c, toAppError(err))
		return
	}
	httputil.RespondWithSuccess(c, newListingResponse(listing))
}

func (h *Handler) ListToday(c *gin.Context) {
	listing, err := h.svc.ListToday(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, toAppError(err))
		return
	}
	httputil.RespondWithSuccess(c, newListingResponse(listing))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid booking id", err))
		return
	}

	if _, err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, toAppError(err))
		return
	}
	log.Ctx(c.Request.Context()).Info().
		Str("reservation_id", id.String()).
		Str("admin", c.GetString(middleware.ContextUsername)).
		Msg("booking deleted via api")

	httputil.RespondWithSuccess(c, deleteResponse{
		ID:         id,
		ReturnView: model.ParseView(c.Query("view")).ReturnView(),
	})
}

func toAppError(err error) error {
	switch {
	case errors.Is(err, reservationService.ErrDateRequired), errors.Is(err, reservationService.ErrInvalidDate):
		return apperrors.NewBadRequest(handler.Cause(err).Error(), err)
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("booking", err)
	default:
		return apperrors.NewInternal(err)
	}
}
