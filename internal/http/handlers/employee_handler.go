package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"asistencia/internal/models"
	"asistencia/internal/storage"
	"asistencia/internal/token"
)

// normalizeHHMM validates a scheduled time and re-formats it so the stored
// value is always a zero-padded HH:MM. Lexicographic comparison in the
// late-arrival check depends on that padding.
func normalizeHHMM(s string) (string, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return t.Format("15:04"), true
}

func employeeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "ID de empleado invalido."})
		return 0, false
	}
	return id, true
}

// ListEmployees returns all employees; ?activos=1 restricts to active ones.
func ListEmployees(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		onlyActive := c.Query("activos") == "1"
		employees, err := st.ListEmployees(c.Request.Context(), onlyActive)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"empleados": employees})
	}
}

// CreateEmployee inserts a new employee record.
func CreateEmployee(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Nombre       string `json:"nombre" binding:"required"`
			Departamento string `json:"departamento"`
			HoraEntrada  string `json:"hora_entrada"`
			HoraSalida   string `json:"hora_salida"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Datos invalidos."})
			return
		}

		emp := models.Employee{
			Name:         strings.TrimSpace(input.Nombre),
			Department:   strings.TrimSpace(input.Departamento),
			ScheduledIn:  "09:00",
			ScheduledOut: "18:00",
			Active:       true,
		}
		if input.HoraEntrada != "" {
			hhmm, ok := normalizeHHMM(input.HoraEntrada)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Hora de entrada invalida (HH:MM)."})
				return
			}
			emp.ScheduledIn = hhmm
		}
		if input.HoraSalida != "" {
			hhmm, ok := normalizeHHMM(input.HoraSalida)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Hora de salida invalida (HH:MM)."})
				return
			}
			emp.ScheduledOut = hhmm
		}

		if err := st.CreateEmployee(c.Request.Context(), &emp); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true, "empleado": emp})
	}
}

// UpdateEmployee applies partial edits to an employee record.
func UpdateEmployee(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := employeeID(c)
		if !ok {
			return
		}

		var input struct {
			Nombre       *string `json:"nombre"`
			Departamento *string `json:"departamento"`
			HoraEntrada  *string `json:"hora_entrada"`
			HoraSalida   *string `json:"hora_salida"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Datos invalidos."})
			return
		}

		emp, err := st.Employee(c.Request.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "mensaje": "Empleado no encontrado."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}

		if input.Nombre != nil {
			emp.Name = strings.TrimSpace(*input.Nombre)
		}
		if input.Departamento != nil {
			emp.Department = strings.TrimSpace(*input.Departamento)
		}
		if input.HoraEntrada != nil {
			hhmm, ok := normalizeHHMM(*input.HoraEntrada)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Hora de entrada invalida (HH:MM)."})
				return
			}
			emp.ScheduledIn = hhmm
		}
		if input.HoraSalida != nil {
			hhmm, ok := normalizeHHMM(*input.HoraSalida)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "mensaje": "Hora de salida invalida (HH:MM)."})
				return
			}
			emp.ScheduledOut = hhmm
		}

		if err := st.UpdateEmployee(c.Request.Context(), emp); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "empleado": emp})
	}
}

// ToggleEmployee flips the active flag (soft delete / reactivate).
func ToggleEmployee(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := employeeID(c)
		if !ok {
			return
		}

		emp, err := st.Employee(c.Request.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "mensaje": "Empleado no encontrado."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}

		emp.Active = !emp.Active
		if err := st.UpdateEmployee(c.Request.Context(), emp); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "activo": emp.Active})
	}
}

// RegistrationQR issues a registration token for the employee and renders the
// one-shot binding link as a QR for the admin to hand over. Tokens are not
// tracked server-side; handing out a second link simply supersedes the first
// once either of them is used, because binding overwrites the stored device
// token.
func RegistrationQR(codec *token.Codec, st storage.Store, publicURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := employeeID(c)
		if !ok {
			return
		}

		emp, err := st.Employee(c.Request.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "mensaje": "Empleado no encontrado."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}

		regTok, err := codec.IssueRegistration(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		url := publicURL + "/registro-dispositivo?token=" + regTok

		png, err := qrcode.Encode(url, qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error generando QR."})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"nombre":    emp.Name,
			"token_reg": regTok,
			"url":       url,
			"qr_base64": base64.StdEncoding.EncodeToString(png),
		})
	}
}

// UnbindDevice clears the stored device token. The device keeps its copy,
// but check-in rejects it from now on because it no longer equals the stored
// value.
func UnbindDevice(st storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := employeeID(c)
		if !ok {
			return
		}

		if _, err := st.Employee(c.Request.Context(), id); errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "mensaje": "Empleado no encontrado."})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}

		if err := st.UnbindDevice(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error interno."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "mensaje": "Dispositivo desvinculado."})
	}
}
