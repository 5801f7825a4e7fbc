package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diegomarmat/chela-suppliers/internal/common"
)

type putNotesRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleGetNotes(c *gin.Context) {
	note, err := s.notes.Get(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) handlePutNotes(c *gin.Context) {
	var req putNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.InvalidArgumentError("invalid request body"))
		return
	}
	note, err := s.notes.Put(c.Request.Context(), req.Notes)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}
