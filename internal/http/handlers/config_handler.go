package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"asistencia/internal/attendance"
	"asistencia/internal/storage"
)

// GetSettings returns the admin-editable configuration values.
func GetSettings(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		company, err := st.GetConfig(ctx, "nombre_empresa")
		if err != nil {
			company = ""
		}
		tolerance := strconv.Itoa(attendance.ToleranceMinutes(ctx, st))

		c.JSON(http.StatusOK, gin.H{
			"nombre_empresa":     company,
			"tolerancia_minutos": tolerance,
		})
	}
}

// SaveSettings updates company name and/or late tolerance.
func SaveSettings(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			NombreEmpresa     *string `json:"nombre_empresa"`
			ToleranciaMinutos *string `json:"tolerancia_minutos"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Datos invalidos."})
			return
		}

		ctx := c.Request.Context()
		if input.NombreEmpresa != nil {
			if err := st.SetConfig(ctx, "nombre_empresa", *input.NombreEmpresa); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
				return
			}
		}
		if input.ToleranciaMinutos != nil {
			n, err := strconv.Atoi(*input.ToleranciaMinutos)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Tolerancia debe ser un numero positivo."})
				return
			}
			if err := st.SetConfig(ctx, "tolerancia_minutos", strconv.Itoa(n)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "mensaje": "Configuracion guardada."})
	}
}

// WipeEvents deletes every attendance event. Destructive.
func WipeEvents(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.WipeEvents(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "mensaje": "Registros eliminados."})
	}
}

// WipeAll deletes every attendance event and every employee. Destructive.
func WipeAll(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.WipeAll(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "mensaje": "Registros y empleados eliminados."})
	}
}
