package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"asistencia/internal/attendance"
	"asistencia/internal/token"
)

// checkinMessage maps the service error taxonomy to the user-facing message.
// Empty string means an internal error that should not leak details.
func checkinMessage(err error) string {
	switch {
	case errors.Is(err, attendance.ErrQRExpired):
		return "El codigo QR ha expirado. Escanea de nuevo."
	case errors.Is(err, attendance.ErrDeviceNotRegistered):
		return "Dispositivo no registrado. Pide a tu administrador el QR de registro."
	case errors.Is(err, attendance.ErrInvalidDeviceToken):
		return "Token de dispositivo invalido."
	case errors.Is(err, attendance.ErrEmployeeNotFound), errors.Is(err, attendance.ErrEmployeeInactive):
		return "Empleado no encontrado o inactivo."
	case errors.Is(err, attendance.ErrDeviceNotLinked):
		return "Este dispositivo no esta vinculado a tu cuenta."
	}
	return ""
}

// CheckinPage validates the rotating token a freshly scanned QR carries, so
// the phone knows whether to show the confirm screen or an expiry notice.
func CheckinPage(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := c.Query("token")
		if !codec.VerifyRotating(tok) {
			c.JSON(http.StatusBadRequest, gin.H{
				"ok":      false,
				"mensaje": "El codigo QR ha expirado. Escanea el QR actual de la pantalla.",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "token_qr": tok})
	}
}

// APICheckin records a check-in or check-out from a scan.
func APICheckin(svc *attendance.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			TokenQR          string `json:"token_qr"`
			TokenDispositivo string `json:"token_dispositivo"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Datos invalidos."})
			return
		}

		res, err := svc.CheckIn(c.Request.Context(), input.TokenQR, input.TokenDispositivo)
		if err != nil {
			if msg := checkinMessage(err); msg != "" {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": msg})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}

		kind := string(res.Kind)
		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"mensaje": strings.ToUpper(kind[:1]) + kind[1:] + " registrada correctamente.",
			"nombre":  res.Employee.Name,
			"tipo":    kind,
		})
	}
}
