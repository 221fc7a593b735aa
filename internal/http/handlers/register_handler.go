package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"asistencia/internal/attendance"
	"asistencia/internal/storage"
	"asistencia/internal/token"
)

// RegisterPage validates a registration link before the phone commits to it,
// returning the employee the link belongs to.
func RegisterPage(codec *token.Codec, st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := c.Query("token")

		employeeID, ok := codec.VerifyRegistration(tok)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"ok":      false,
				"mensaje": "El enlace de registro es invalido o ha expirado. Solicita uno nuevo al administrador.",
			})
			return
		}

		emp, err := st.Employee(c.Request.Context(), employeeID)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Empleado no encontrado."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"nombre":    emp.Name,
			"token_reg": tok,
		})
	}
}

// APIRegisterDevice completes the binding handshake: it swaps a registration
// token for the device token the phone stores from then on.
func APIRegisterDevice(svc *attendance.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			TokenReg string `json:"token_reg"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Datos invalidos."})
			return
		}

		res, err := svc.Bind(c.Request.Context(), input.TokenReg)
		switch {
		case errors.Is(err, attendance.ErrInvalidRegistrationToken):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Token de registro invalido."})
			return
		case errors.Is(err, attendance.ErrEmployeeNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Empleado no encontrado."})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":                true,
			"mensaje":           fmt.Sprintf("Dispositivo vinculado correctamente para %s.", res.Employee.Name),
			"token_dispositivo": res.DeviceToken,
			"nombre":            res.Employee.Name,
		})
	}
}
