// Package signature checks the authenticity proof a Razorpay-style
// gateway attaches to a completed payment: lowercase hex of
// HMAC-SHA256 over "<order id>|<payment id>" keyed with the merchant
// secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"organicshop/internal/errors"
)

// Verify reports whether providedSignature is the expected HMAC for
// the order/payment pair. Missing inputs are a caller error, reported
// before any hashing happens; a well-formed but wrong signature is a
// plain false. The comparison is constant-time.
func Verify(orderID, paymentID, providedSignature, secret string) (bool, error) {
	if orderID == "" || paymentID == "" || providedSignature == "" {
		return false, errors.NewValidationError("payment verification data is required")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(providedSignature)), nil
}
