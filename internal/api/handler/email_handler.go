package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/api/metrics"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

// EmailHandler relays one message to the email provider per request.
// There is no retry and no queue.
type EmailHandler struct {
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewEmailHandler(mailer ports.Mailer, log zerolog.Logger) *EmailHandler {
	return &EmailHandler{mailer: mailer, log: log}
}

// Send forwards {to, subject, html} and answers 200 with the provider's JSON
// verbatim, including provider-side rejections. Transport failures yield 500.
//
// @Summary      Relay an email
// @Tags         email
// @Accept       json
// @Produce      json
// @Param        body  body      sendEmailRequest  true  "Message"
// @Success      200   {object}  map[string]any
// @Failure      405   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/send-email [post]
func (h *EmailHandler) Send(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return h.fail(c, http.StatusMethodNotAllowed, "method not allowed")
	}

	var req sendEmailRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, http.StatusInternalServerError, "invalid request body")
	}

	raw, err := h.mailer.Send(c.Request().Context(), domain.Email{To: req.To, Subject: req.Subject, HTML: req.HTML})
	var provErr *domain.ProviderError
	if err != nil && !errors.As(err, &provErr) {
		h.log.Error().Err(err).Str("to", req.To).Msg("email relay failed")
		return h.fail(c, http.StatusInternalServerError, err.Error())
	}
	if provErr != nil {
		h.log.Warn().Int("provider_status", provErr.StatusCode).Str("to", req.To).Msg("email provider rejected message")
	}

	metrics.RelayRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	return c.JSONBlob(http.StatusOK, raw)
}

func (h *EmailHandler) fail(c echo.Context, code int, msg string) error {
	metrics.RelayRequestsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	return c.JSON(code, errorResponse{Error: msg})
}
