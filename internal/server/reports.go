package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handlePaymentSchedule(c *gin.Context) {
	// Default to the current month.
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()
	if raw := c.Query("month"); raw != "" {
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			s.respondError(c, common.InvalidArgumentError("month must be YYYY-MM"))
			return
		}
		year, month = t.Year(), t.Month()
	} else if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(c, common.InvalidArgumentError("year must be numeric"))
			return
		}
		year = y
	}

	cycle := export.Cycle(c.Query("cycle"))
	switch cycle {
	case export.CycleAll, export.CycleMidMonth, export.CycleMonthEnd:
	default:
		s.respondError(c, common.InvalidArgumentError("cycle must be '15th' or 'eom'"))
		return
	}

	data, err := s.exporter.PaymentScheduleXLSX(c.Request.Context(), export.ScheduleRequest{
		Year:     year,
		Month:    month,
		Cycle:    cycle,
		Category: c.Query("category"),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("payment-schedule-%04d-%02d.xlsx", year, int(month))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (s *Server) handleCatalogImport(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		s.respondError(c, common.InvalidArgumentError("failed to read request body"))
		return
	}
	summary, err := s.importer.Import(c.Request.Context(), body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
