// Package token issues and verifies the three HMAC-signed credentials the
// attendance flow runs on: the rotating QR token shown on the shared screen,
// the long-lived device-binding token stored on the employee record, and the
// one-shot registration token that establishes a binding.
//
// All tokens are stateless ASCII strings, colon-delimited, signed with
// HMAC-SHA256 over a tagged message. Fields can never contain a colon by
// construction (employee ids are decimal, nonces are hex), so the untagged
// concatenation is unambiguous.
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RotationInterval is how often the displayed QR token rotates. Issuance and
// verification must agree on this value; it is not carried in the token.
const RotationInterval = 30 * time.Second

const (
	devicePrefix       = "dev"
	registrationPrefix = "reg"
)

// Codec signs and verifies tokens with a single symmetric secret. The secret
// is injected at construction and never read from anywhere else. Codec is
// safe for concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// NewCodecWithClock is NewCodec with an injectable clock for tests.
func NewCodecWithClock(secret []byte, now func() time.Time) *Codec {
	return &Codec{secret: secret, now: now}
}

func (c *Codec) sign(message string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Codec) currentSlot() int64 {
	return c.now().Unix() / int64(RotationInterval/time.Second)
}

// IssueRotating returns the token for the current time slot as "slot:signature".
func (c *Codec) IssueRotating() string {
	slot := c.currentSlot()
	return fmt.Sprintf("%d:%s", slot, c.sign("qr:"+strconv.FormatInt(slot, 10)))
}

// SecondsLeft reports how long the current rotating token remains the
// freshest one, for display countdowns.
func (c *Codec) SecondsLeft() int64 {
	interval := int64(RotationInterval / time.Second)
	return interval - c.now().Unix()%interval
}

// VerifyRotating accepts a token for the current slot or the immediately
// preceding one, absorbing display/clock latency of up to one interval.
// Any parse failure, unknown slot or signature mismatch is reported the
// same way: expired and forged tokens are deliberately indistinguishable.
func (c *Codec) VerifyRotating(tok string) bool {
	parts := strings.Split(tok, ":")
	if len(parts) != 2 {
		return false
	}
	slot, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}

	current := c.currentSlot()
	for _, s := range []int64{current, current - 1} {
		expected := c.sign("qr:" + strconv.FormatInt(s, 10))
		if slot == s && hmac.Equal([]byte(parts[1]), []byte(expected)) {
			return true
		}
	}
	return false
}

func (c *Codec) issueBound(prefix, tag string, employeeID int64) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(buf)
	id := strconv.FormatInt(employeeID, 10)
	sig := c.sign(tag + ":" + id + ":" + nonce)
	return prefix + ":" + id + ":" + nonce + ":" + sig, nil
}

func (c *Codec) verifyBound(prefix, tag, tok string) (int64, bool) {
	parts := strings.Split(tok, ":")
	if len(parts) != 4 || parts[0] != prefix {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	expected := c.sign(tag + ":" + parts[1] + ":" + parts[2])
	if !hmac.Equal([]byte(parts[3]), []byte(expected)) {
		return 0, false
	}
	return id, true
}

// IssueDevice mints a fresh device-binding token for the employee as
// "dev:{id}:{nonce}:{signature}". Each call uses a new random nonce, so
// re-binding always invalidates the previously stored token.
func (c *Codec) IssueDevice(employeeID int64) (string, error) {
	return c.issueBound(devicePrefix, "device", employeeID)
}

// VerifyDevice returns the employee id embedded in a device token, or false
// on any malformed input or signature mismatch.
func (c *Codec) VerifyDevice(tok string) (int64, bool) {
	return c.verifyBound(devicePrefix, "device", tok)
}

// IssueRegistration mints a registration token, "reg:{id}:{nonce}:{signature}".
// The distinct prefix and message tag keep registration tokens from ever
// verifying as device tokens, even though both are structurally identical.
func (c *Codec) IssueRegistration(employeeID int64) (string, error) {
	return c.issueBound(registrationPrefix, "reg", employeeID)
}

// VerifyRegistration returns the employee id embedded in a registration
// token, or false on any malformed input or signature mismatch.
func (c *Codec) VerifyRegistration(tok string) (int64, bool) {
	return c.verifyBound(registrationPrefix, "reg", tok)
}
