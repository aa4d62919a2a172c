package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewTicketQRCode returns an opaque, unguessable code embedded in the
// passenger's QR image. Generated once at registration; reallocation never
// regenerates it.
func NewTicketQRCode() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])
}

// NewTicketShortCode returns the short human-readable code used over USSD,
// e.g. "SAFAREASY-3FA9C1".
func NewTicketShortCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "SAFAREASY-" + raw[:6]
}
