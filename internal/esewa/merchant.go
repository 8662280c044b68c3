package esewa

// Sandbox credentials published by eSewa for integration testing.
const (
	SandboxFormURL     = "https://rc-epay.esewa.com.np/api/epay/main/v2/form"
	SandboxProductCode = "EPAYTEST"
	SandboxSecretKey   = "8gBm/:&EnhH.1/q"
)

// Merchant is one gateway account: the form endpoint, the product code and
// the secret paired with it.
type Merchant struct {
	FormURL     string
	ProductCode string
	SecretKey   []byte
}
