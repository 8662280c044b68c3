package esewa

import (
	"crypto/hmac"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StatusComplete is the only callback status that means money moved.
const StatusComplete = "COMPLETE"

var (
	// ErrMalformedCallback wraps every decoding failure of the data parameter.
	ErrMalformedCallback = errors.New("esewa: malformed callback payload")
	// ErrSignatureMismatch is returned when the callback is unsigned or its
	// signature does not match its signed fields.
	ErrSignatureMismatch = errors.New("esewa: callback signature mismatch")
)

// Callback is the decoded "data" query parameter appended to the success URL.
// Only Status, TransactionCode and TransactionUUID are guaranteed.
type Callback struct {
	Status           string
	TransactionCode  string
	TransactionUUID  string
	TotalAmount      string
	ProductCode      string
	SignedFieldNames string
	Signature        string

	raw map[string]string
}

// Complete reports whether the gateway marked the payment as completed.
func (cb *Callback) Complete() bool { return cb.Status == StatusComplete }

// DecodeCallback parses a base64 encoded JSON callback payload.  Values may be
// JSON strings or bare numbers; numbers keep their literal text so that the
// signature can be recomputed over exactly what the gateway signed.
func DecodeCallback(data string) (*Callback, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedCallback)
	}
	body, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		// some proxies strip the padding or swap to the URL alphabet
		if body, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "=")); err != nil {
			return nil, fmt.Errorf("%w: base64: %v", ErrMalformedCallback, err)
		}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrMalformedCallback, err)
	}
	raw := make(map[string]string, len(fields))
	for k, v := range fields {
		s, err := literal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrMalformedCallback, k, err)
		}
		raw[k] = s
	}
	cb := &Callback{
		Status:           raw["status"],
		TransactionCode:  raw["transaction_code"],
		TransactionUUID:  raw["transaction_uuid"],
		TotalAmount:      raw["total_amount"],
		ProductCode:      raw["product_code"],
		SignedFieldNames: raw["signed_field_names"],
		Signature:        raw["signature"],
		raw:              raw,
	}
	if cb.Status == "" || cb.TransactionUUID == "" {
		return nil, fmt.Errorf("%w: missing status or transaction_uuid", ErrMalformedCallback)
	}
	return cb, nil
}

// EncodeCallback builds a payload the way the gateway does.  It is used by
// the sandbox tooling and tests.
func EncodeCallback(fields map[string]string) string {
	b, _ := json.Marshal(fields)
	return base64.StdEncoding.EncodeToString(b)
}

// SignCallback returns the signature the gateway would attach to fields for
// the given comma separated signed field names.
func SignCallback(fields map[string]string, signedFieldNames string, secret []byte) string {
	return sum(canonical(fields, signedFieldNames), secret)
}

// VerifyCallback checks the callback signature.  The gateway signs every
// callback it sends, so a payload without a signature is rejected.
func VerifyCallback(cb *Callback, secret []byte) error {
	if cb.Signature == "" {
		return fmt.Errorf("%w: unsigned callback", ErrSignatureMismatch)
	}
	if cb.SignedFieldNames == "" {
		return fmt.Errorf("%w: signature without signed_field_names", ErrSignatureMismatch)
	}
	want := SignCallback(cb.raw, cb.SignedFieldNames, secret)
	if !hmac.Equal([]byte(want), []byte(cb.Signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

func canonical(fields map[string]string, signedFieldNames string) string {
	names := strings.Split(signedFieldNames, ",")
	parts := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "signed_field_names" {
			parts = append(parts, n+"="+signedFieldNames)
			continue
		}
		parts = append(parts, n+"="+fields[n])
	}
	return strings.Join(parts, ",")
}

func literal(v json.RawMessage) (string, error) {
	if len(v) > 0 && v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	if string(v) == "null" {
		return "", nil
	}
	return string(v), nil
}
