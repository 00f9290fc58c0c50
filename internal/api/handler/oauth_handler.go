package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/strivezine/blog-system/internal/api/metrics"
	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

// Error codes passed to the frontend login page after a failed callback.
const (
	oauthErrState        = "oauth_state"
	oauthErrLinkRequired = "oauth_link_required"
	oauthErrNeedPassword = "oauth_password_required"
	oauthErrFailed       = "oauth_failed"
)

// OAuthHandler drives the Google redirect flow. Callback results are
// delivered to the frontend through a redirect, never as JSON.
type OAuthHandler struct {
	service     ports.OAuthService
	frontendURL string
	logger      zerolog.Logger
}

func NewOAuthHandler(service ports.OAuthService, frontendURL string, logger zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		service:     service,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// Login redirects to the Google consent page.
//
// @Summary      Start Google sign-in
// @Tags         auth
// @Success      307
// @Failure      500  {object}  errorResponse
// @Router       /login/google [get]
func (h *OAuthHandler) Login(c echo.Context) error {
	consentURL, err := h.service.BeginLogin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, consentURL)
}

// Link starts the Google flow for the signed-in author; the callback attaches
// the Google identity to that author.
//
// @Summary      Link a Google account to the current author
// @Tags         auth
// @Security     BearerAuth
// @Success      307
// @Failure      401  {object}  errorResponse
// @Router       /login/google/link [get]
func (h *OAuthHandler) Link(c echo.Context) error {
	author, err := currentAuthor(c)
	if err != nil {
		return err
	}
	consentURL, err := h.service.BeginLink(c.Request().Context(), author.ID)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, consentURL)
}

// Callback completes the flow and redirects to the frontend with the token.
//
// @Summary      Google OAuth callback
// @Tags         auth
// @Param        state  query  string  true  "OAuth state"
// @Param        code   query  string  true  "Authorization code"
// @Success      307
// @Router       /login/google/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	if providerErr := c.QueryParam("error"); providerErr != "" {
		h.logger.Info().Str("error", providerErr).Msg("google consent declined")
		metrics.OAuthCallbacksTotal.WithLabelValues("failed").Inc()
		return c.Redirect(http.StatusTemporaryRedirect, h.loginErrorURL(oauthErrFailed))
	}

	res, err := h.service.Complete(c.Request().Context(), c.QueryParam("state"), c.QueryParam("code"))
	if err != nil {
		code := callbackErrorCode(err)
		if code == oauthErrFailed {
			h.logger.Error().Err(err).Msg("google callback failed")
		}
		metrics.OAuthCallbacksTotal.WithLabelValues(strings.TrimPrefix(code, "oauth_")).Inc()
		return c.Redirect(http.StatusTemporaryRedirect, h.loginErrorURL(code))
	}

	metrics.OAuthCallbacksTotal.WithLabelValues(callbackOutcome(res)).Inc()
	return c.Redirect(http.StatusTemporaryRedirect, h.successURL(res))
}

func (h *OAuthHandler) successURL(res *ports.OAuthResult) string {
	page := "/profile"
	if res.Author.IsAdmin() {
		page = "/admin"
	}
	return h.frontendURL + page + "?" + url.Values{"accessToken": {res.Token}}.Encode()
}

func (h *OAuthHandler) loginErrorURL(code string) string {
	return h.frontendURL + "/login?" + url.Values{"error": {code}}.Encode()
}

func callbackErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrOAuthState):
		return oauthErrState
	case errors.Is(err, domain.ErrLinkNeedsPassword):
		return oauthErrNeedPassword
	case errors.Is(err, domain.ErrLinkRequired):
		return oauthErrLinkRequired
	default:
		return oauthErrFailed
	}
}

func callbackOutcome(res *ports.OAuthResult) string {
	switch {
	case res.Created:
		return "signup"
	case res.Linked:
		return "link"
	default:
		return "login"
	}
}
