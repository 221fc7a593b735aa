package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"asistencia/internal/attendance"
	"asistencia/internal/config"
	"asistencia/internal/http/handlers"
	"asistencia/internal/storage"
	"asistencia/internal/token"
)

func NewRouter(st storage.Store, svc *attendance.Service, codec *token.Codec, cfg config.Config) *gin.Engine {
	r := gin.Default()

	// favicon fix
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Display screen + dashboard feed
	r.GET("/api/qr", handlers.RotatingQR(codec, cfg.PublicURL))
	r.GET("/api/registros-hoy", handlers.TodayEvents(st))

	// Scan flow (phones)
	r.GET("/checkin", handlers.CheckinPage(codec))
	r.POST("/api/checkin", handlers.APICheckin(svc))
	r.GET("/registro-dispositivo", handlers.RegisterPage(codec, st))
	r.POST("/api/registro-dispositivo", handlers.APIRegisterDevice(svc))

	// Reports
	r.GET("/api/reportes/horas", handlers.WorkedHoursReport(st))
	r.GET("/api/reportes/retardos", handlers.LateArrivalsReport(st))
	r.GET("/api/reportes/exportar-excel", handlers.ExportExcel(st))

	// Admin surface. Intentionally unauthenticated: the service runs on a
	// trusted LAN and admin auth is handled outside this process.
	admin := r.Group("/api/admin")
	{
		admin.GET("/empleados", handlers.ListEmployees(st))
		admin.POST("/empleados", handlers.CreateEmployee(st))
		admin.PUT("/empleados/:id", handlers.UpdateEmployee(st))
		admin.POST("/empleados/:id/toggle", handlers.ToggleEmployee(st))
		admin.GET("/empleados/:id/qr-registro", handlers.RegistrationQR(codec, st, cfg.PublicURL))
		admin.POST("/empleados/:id/desvincular", handlers.UnbindDevice(st))

		admin.GET("/config", handlers.GetSettings(st))
		admin.POST("/config", handlers.SaveSettings(st))

		admin.POST("/limpiar-registros", handlers.WipeEvents(st))
		admin.POST("/limpiar-todo", handlers.WipeAll(st))
	}

	return r
}
