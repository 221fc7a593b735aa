package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"asistencia/internal/report"
	"asistencia/internal/storage"
)

// reportRange reads ?desde / ?hasta, defaulting to month-to-date like the
// reports screen does.
func reportRange(c *gin.Context) (string, string) {
	now := time.Now()
	from := c.DefaultQuery("desde", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02"))
	to := c.DefaultQuery("hasta", now.Format("2006-01-02"))
	return from, to
}

// WorkedHoursReport returns worked hours per active employee over a range.
func WorkedHoursReport(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to := reportRange(c)
		rows, err := report.WorkedHours(c.Request.Context(), st, from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"datos": rows, "desde": from, "hasta": to})
	}
}

// LateArrivalsReport returns flagged first check-ins over a range.
func LateArrivalsReport(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to := reportRange(c)
		rows, err := report.LateArrivals(c.Request.Context(), st, from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"datos": rows, "desde": from, "hasta": to})
	}
}

// ExportExcel streams the two-sheet workbook as a download.
func ExportExcel(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to := reportRange(c)

		var employeeID int64
		if raw := c.Query("empleado_id"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "ID de empleado invalido."})
				return
			}
			employeeID = parsed
		}

		f, err := report.ExcelExport(c.Request.Context(), st, from, to, employeeID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		defer f.Close()

		filename := fmt.Sprintf("registros_%s_%s.xlsx", from, to)
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}
