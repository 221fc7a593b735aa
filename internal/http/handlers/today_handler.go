package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"asistencia/internal/models"
	"asistencia/internal/storage"
)

// TodayEvents feeds the live dashboard: every scan of the current day, newest
// first, with entry/exit counts.
func TodayEvents(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		rows, err := st.EventsOfDay(c.Request.Context(), now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}

		var checkIns, checkOuts int
		for _, r := range rows {
			switch r.Kind {
			case models.CheckIn:
				checkIns++
			case models.CheckOut:
				checkOuts++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"registros": rows,
			"total":     len(rows),
			"entradas":  checkIns,
			"salidas":   checkOuts,
			"fecha":     now.Format("02/01/2006"),
		})
	}
}
