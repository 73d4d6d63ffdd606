package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/marquee/internal/metrics"
	"github.com/shapedtime/marquee/internal/tmdb"
)

// Messages returned by the forwarding handler.
const (
	msgNoAPIKey        = "API key is not configured."
	msgNoEndpoint      = "No endpoint provided."
	msgInvalidEndpoint = "Invalid endpoint."
	msgFetchFailed     = "Failed to fetch data"
)

const jsonContentType = "application/json; charset=utf-8"

// forward relays GET /api/tmdb?endpoint=<path>&<params> to the metadata API
// with the key attached. Upstream status and body are passed through
// untouched; successes are always reported as 200.
func (s *Server) forward(c *gin.Context) {
	params := c.Request.URL.Query()
	endpoint := params.Get("endpoint")
	params.Del("endpoint")

	start := time.Now()
	resp, err := s.tmdbClient.Forward(c.Request.Context(), endpoint, params)

	switch {
	case errors.Is(err, tmdb.ErrNoAPIKey):
		s.log.Error("Forward rejected: API key is not configured")
		s.metrics.ObserveForward(metrics.OutcomeNoKey, http.StatusInternalServerError)
		errorResponse(c, http.StatusInternalServerError, msgNoAPIKey)
		return
	case errors.Is(err, tmdb.ErrMissingEndpoint):
		s.metrics.ObserveForward(metrics.OutcomeBadRequest, http.StatusBadRequest)
		errorResponse(c, http.StatusBadRequest, msgNoEndpoint)
		return
	case errors.Is(err, tmdb.ErrInvalidEndpoint):
		s.log.Warn("Forward rejected: invalid endpoint", "endpoint", endpoint)
		s.metrics.ObserveForward(metrics.OutcomeBadRequest, http.StatusBadRequest)
		errorResponse(c, http.StatusBadRequest, msgInvalidEndpoint)
		return
	}

	if !errors.Is(err, tmdb.ErrBuildRequest) {
		s.metrics.ObserveUpstream(time.Since(start).Seconds())
	}

	if err != nil {
		s.log.Error("Forward failed", "endpoint", endpoint, "error", err)
		s.metrics.ObserveForward(metrics.OutcomeTransportErr, http.StatusInternalServerError)
		errorResponse(c, http.StatusInternalServerError, msgFetchFailed)
		return
	}

	status := resp.Status
	if resp.OK() {
		status = http.StatusOK
	} else {
		s.log.Warn("Upstream error relayed", "endpoint", endpoint, "status", status)
	}

	s.metrics.ObserveForward(metrics.OutcomeRelayed, status)
	c.Data(status, jsonContentType, resp.Body)
}
