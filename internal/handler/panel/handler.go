package panel

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/reservation-admin/internal/export"
	"github.com/jwalitptl/reservation-admin/internal/handler"
	"github.com/jwalitptl/reservation-admin/internal/middleware"
	"github.com/jwalitptl/reservation-admin/internal/model"
	"github.com/jwalitptl/reservation-admin/internal/service/reservation"
	"github.com/jwalitptl/reservation-admin/pkg/metrics"
)

const (
	msgSelectDate   = "Please select a date"
	msgDeleted      = "Booking deleted successfully"
	msgProbePassed  = "Database access test passed"
	prefixLoading   = "Error loading bookings: "
	prefixFiltering = "Error filtering bookings: "
	prefixDeleting  = "Error deleting booking: "
	prefixProbe     = "Database access test failed: "
)

type Handler struct {
	svc         handler.ReservationService
	metrics     *metrics.Metrics
	authEnabled bool
}

func NewHandler(svc handler.ReservationService, m *metrics.Metrics, authEnabled bool) *Handler {
	return &Handler{
		svc:         svc,
		metrics:     m,
		authEnabled: authEnabled,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.ListAll)
	r.GET("/today", h.ListToday)
	r.GET("/filter", h.Filter)
	r.GET("/reservations/:id/delete", h.ConfirmDelete)
	r.POST("/reservations/:id/delete", h.Delete)
	r.POST("/probe", h.Probe)
	r.GET("/export", h.Export)
}

type pageData struct {
	Title       string
	View        model.View
	Date        string
	Rows        []*model.Reservation
	Notice      string
	Error       string
	AuthEnabled bool
}

type confirmData struct {
	Reservation *model.Reservation
	View        model.View
	CancelURL   string
}

func (h *Handler) ListAll(c *gin.Context) {
	h.show(c, model.ViewAll, "")
}

func (h *Handler) ListToday(c *gin.Context) {
	h.show(c, model.ViewToday, "")
}

func (h *Handler) Filter(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		redirect(c, "/", "error", msgSelectDate)
		return
	}
	h.show(c, model.ViewDate, date)
}

func (h *Handler) show(c *gin.Context, view model.View, date string) {
	ctx := c.Request.Context()
	data := pageData{
		View:        view,
		Date:        date,
		Notice:      c.Query("notice"),
		Error:       c.Query("error"),
		AuthEnabled: h.authEnabled,
	}

	listing, err := h.svc.List(ctx, view, date)
	if err != nil {
		_ = c.Error(err)
		status := http.StatusInternalServerError
		if errors.Is(err, reservation.ErrInvalidDate) {
			status = http.StatusBadRequest
		}
		data.Title = (&model.Listing{View: view, Date: date}).Title()
		data.Error = errorPrefix(view) + handler.Cause(err).Error()
		c.HTML(status, PageTemplate, data)
		return
	}

	rows, skipped := listing.Renderable()
	for _, id := range skipped {
		log.Ctx(ctx).Warn().Str("reservation_id", id.String()).Msg("skipping invalid booking")
		h.metrics.SkippedRows.Inc()
	}
	log.Ctx(ctx).Debug().Str("view", string(view)).Int("rows", len(rows)).Msg("displaying bookings")

	data.Title = listing.Title()
	data.Date = listing.Date
	data.Rows = rows
	c.HTML(http.StatusOK, PageTemplate, data)
}

func (h *Handler) ConfirmDelete(c *gin.Context) {
	view := model.ParseView(c.Query("view"))
	back := viewPath(view.ReturnView(), "")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		redirect(c, back, "error", prefixDeleting+"invalid booking id")
		return
	}

	r, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		redirect(c, back, "error", prefixDeleting+handler.Cause(err).Error())
		return
	}

	c.HTML(http.StatusOK, ConfirmTemplate, confirmData{
		Reservation: r,
		View:        view,
		CancelURL:   viewPath(view, c.Query("date")),
	})
}

func (h *Handler) Delete(c *gin.Context) {
	back := viewPath(model.ParseView(c.PostForm("view")).ReturnView(), "")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		redirect(c, back, "error", prefixDeleting+"invalid booking id")
		return
	}

	if _, err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		redirect(c, back, "error", prefixDeleting+handler.Cause(err).Error())
		return
	}
	log.Ctx(c.Request.Context()).Info().
		Str("reservation_id", id.String()).
		Str("admin", c.GetString(middleware.ContextUsername)).
		Msg("booking deleted from panel")
	redirect(c, back, "notice", msgDeleted)
}

func (h *Handler) Probe(c *gin.Context) {
	back := viewPath(model.ParseView(c.PostForm("view")), c.PostForm("date"))

	if err := h.svc.Probe(c.Request.Context()); err != nil {
		_ = c.Error(err)
		redirect(c, back, "error", prefixProbe+handler.Cause(err).Error())
		return
	}
	redirect(c, back, "notice", msgProbePassed)
}

func (h *Handler) Export(c *gin.Context) {
	view := model.ParseView(c.Query("view"))
	date := c.Query("date")

	listing, err := h.svc.List(c.Request.Context(), view, date)
	if err != nil {
		_ = c.Error(err)
		redirect(c, viewPath(view.ReturnView(), ""), "error", errorPrefix(view)+handler.Cause(err).Error())
		return
	}

	var buf bytes.Buffer
	n, err := export.WriteReservations(&buf, listing)
	if err != nil {
		_ = c.Error(err)
		redirect(c, viewPath(view, date), "error", "Error exporting bookings: "+err.Error())
		return
	}

	log.Ctx(c.Request.Context()).Info().Str("view", string(view)).Int("rows", n).Msg("bookings exported")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(listing)))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func errorPrefix(view model.View) string {
	if view == model.ViewDate {
		return prefixFiltering
	}
	return prefixLoading
}

// viewPath is the panel URL that shows view.
func viewPath(view model.View, date string) string {
	switch view {
	case model.ViewToday:
		return "/today"
	case model.ViewDate:
		if date == "" {
			return "/"
		}
		return "/filter?" + url.Values{"date": {date}}.Encode()
	default:
		return "/"
	}
}

// redirect sends the browser to path with a one-shot banner message.
func redirect(c *gin.Context, path, key, message string) {
	sep := "?"
	if u, err := url.Parse(path); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	c.Redirect(http.StatusSeeOther, path+sep+url.Values{key: {message}}.Encode())
}
