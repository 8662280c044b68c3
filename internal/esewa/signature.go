// Package esewa implements the eSewa ePay v2 redirect handshake: signing the
// outbound form, building its field set and decoding the signed callback the
// gateway appends to the success URL.
package esewa

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// SignedFieldNames lists the form fields covered by the request signature.
// The gateway recomputes the hash over the same fields in the same order.
const SignedFieldNames = "total_amount,transaction_uuid,product_code"

var (
	// ErrInvalidAmount is returned when the amount is not a plain
	// non-negative integer (no sign, decimal point or separators).
	ErrInvalidAmount = errors.New("esewa: amount must be a non-negative integer string")
	// ErrInvalidTransactionUUID is returned when the transaction id is empty
	// or contains one of the canonical string's delimiters.
	ErrInvalidTransactionUUID = errors.New("esewa: transaction uuid must be non-empty and contain no ',' or '='")
	// ErrInvalidProductCode mirrors ErrInvalidTransactionUUID for the product code.
	ErrInvalidProductCode = errors.New("esewa: product code must be non-empty and contain no ',' or '='")
)

// Sign returns the base64 HMAC-SHA256 signature eSewa expects for a payment
// request.  The canonical message is
//
//	total_amount=<amount>,transaction_uuid=<transactionUUID>,product_code=<productCode>
//
// with no whitespace.  Invalid input is a caller bug and is reported, never
// silently corrected.
func Sign(amount, transactionUUID, productCode string, secret []byte) (string, error) {
	if !isPlainInteger(amount) {
		return "", ErrInvalidAmount
	}
	if !isDelimiterFree(transactionUUID) {
		return "", ErrInvalidTransactionUUID
	}
	if !isDelimiterFree(productCode) {
		return "", ErrInvalidProductCode
	}
	msg := "total_amount=" + amount + ",transaction_uuid=" + transactionUUID + ",product_code=" + productCode
	return sum(msg, secret), nil
}

// ValidateTransactionUUID reports whether id can be used as a transaction uuid.
func ValidateTransactionUUID(id string) error {
	if !isDelimiterFree(id) {
		return ErrInvalidTransactionUUID
	}
	return nil
}

func sum(msg string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func isPlainInteger(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isDelimiterFree(s string) bool {
	return s != "" && !strings.ContainsAny(s, ",=")
}
