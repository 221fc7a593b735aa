package handlers

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"asistencia/internal/token"
)

// RotatingQR serves the QR the shared screen polls for: the current rotating
// token rendered as a PNG, plus how many seconds it stays the freshest one.
func RotatingQR(codec *token.Codec, publicURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := codec.IssueRotating()
		url := publicURL + "/checkin?token=" + tok

		png, err := qrcode.Encode(url, qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "mensaje": "Error generando QR."})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"qr_base64":         base64.StdEncoding.EncodeToString(png),
			"token":             tok,
			"remaining_seconds": codec.SecondsLeft(),
			"timestamp":         time.Now().Format("15:04:05"),
		})
	}
}
