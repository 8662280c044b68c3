package esewa

import (
	"net/url"
	"strconv"
)

// PaymentForm is the complete field set posted to the eSewa form endpoint.
// Amount and TotalAmount are always equal; both feed the signature.
type PaymentForm struct {
	Action                string `json:"action"`
	Amount                string `json:"amount"`
	TaxAmount             string `json:"tax_amount"`
	TotalAmount           string `json:"total_amount"`
	TransactionUUID       string `json:"transaction_uuid"`
	ProductCode           string `json:"product_code"`
	ProductServiceCharge  string `json:"product_service_charge"`
	ProductDeliveryCharge string `json:"product_delivery_charge"`
	SuccessURL            string `json:"success_url"`
	FailureURL            string `json:"failure_url"`
	SignedFieldNames      string `json:"signed_field_names"`
	Signature             string `json:"signature"`
}

// Field is one hidden input of the auto-submitting form.
type Field struct {
	Name  string
	Value string
}

// FormRequest carries what varies between two payment forms.
type FormRequest struct {
	Action          string
	Amount          int64
	TransactionUUID string
	ProductCode     string
	SuccessURL      string
	FailureURL      string
	Secret          []byte
}

// NewPaymentForm signs the request and fills the fixed fields.
func NewPaymentForm(req FormRequest) (*PaymentForm, error) {
	if req.Amount < 0 {
		return nil, ErrInvalidAmount
	}
	amount := strconv.FormatInt(req.Amount, 10)
	sig, err := Sign(amount, req.TransactionUUID, req.ProductCode, req.Secret)
	if err != nil {
		return nil, err
	}
	return &PaymentForm{
		Action:                req.Action,
		Amount:                amount,
		TaxAmount:             "0",
		TotalAmount:           amount,
		TransactionUUID:       req.TransactionUUID,
		ProductCode:           req.ProductCode,
		ProductServiceCharge:  "0",
		ProductDeliveryCharge: "0",
		SuccessURL:            req.SuccessURL,
		FailureURL:            req.FailureURL,
		SignedFieldNames:      SignedFieldNames,
		Signature:             sig,
	}, nil
}

// Fields returns the hidden inputs in the order the gateway documents them.
func (f *PaymentForm) Fields() []Field {
	return []Field{
		{"amount", f.Amount},
		{"tax_amount", f.TaxAmount},
		{"total_amount", f.TotalAmount},
		{"transaction_uuid", f.TransactionUUID},
		{"product_code", f.ProductCode},
		{"product_service_charge", f.ProductServiceCharge},
		{"product_delivery_charge", f.ProductDeliveryCharge},
		{"success_url", f.SuccessURL},
		{"failure_url", f.FailureURL},
		{"signed_field_names", f.SignedFieldNames},
		{"signature", f.Signature},
	}
}

// Values encodes the form as application/x-www-form-urlencoded values.
func (f *PaymentForm) Values() url.Values {
	v := url.Values{}
	for _, fl := range f.Fields() {
		v.Set(fl.Name, fl.Value)
	}
	return v
}
