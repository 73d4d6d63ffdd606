package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/marquee/internal/catalog"
	"github.com/shapedtime/marquee/internal/selection"
)

func (s *Server) getHome(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Home(c.Request.Context()))
}

// browse serves one page of a browse gallery: ?filter=<name>&page=<n>.
func (s *Server) browse(mediaType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			errorResponse(c, http.StatusBadRequest, "Invalid page")
			return
		}

		bp, err := s.catalog.Browse(c.Request.Context(), mediaType, c.Query("filter"), page)
		if err != nil {
			if errors.Is(err, catalog.ErrUnknownFilter) {
				errorResponse(c, http.StatusBadRequest, "Unknown filter")
				return
			}
			s.log.Error("Browse failed", "media_type", mediaType, "error", err)
			errorResponse(c, http.StatusInternalServerError, catalog.MsgLoadFailed)
			return
		}

		c.JSON(http.StatusOK, bp)
	}
}

func (s *Server) search(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Search(c.Request.Context(), c.Query("q")))
}

// getDetails serves the details view for ?id=<id>&type=<movie|tv>, the pair
// the page read from local storage.
func (s *Server) getDetails(c *gin.Context) {
	sel, err := selection.Parse(c.Query("id"), c.Query("type"))
	if err != nil {
		if errors.Is(err, selection.ErrEmpty) {
			errorResponse(c, http.StatusBadRequest, catalog.MsgNoSelection)
			return
		}
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	d, err := s.catalog.Details(c.Request.Context(), sel)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, d)
}

func (s *Server) getSeason(c *gin.Context) {
	showID, ok := parseIntParam(c, "id")
	if !ok {
		return
	}
	season, ok := parseIntParam(c, "season")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.catalog.Episodes(c.Request.Context(), showID, season))
}

// parseIntParam parses and validates a positive path parameter
func parseIntParam(c *gin.Context, param string) (int, bool) {
	n, err := strconv.Atoi(c.Param(param))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid "+param+" format")
		return 0, false
	}
	if n <= 0 {
		errorResponse(c, http.StatusBadRequest, param+" must be positive")
		return 0, false
	}
	return n, true
}
