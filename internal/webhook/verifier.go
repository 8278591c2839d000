package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"net/http"
)

// Verifier checks the authenticity of one inbound delivery. Implementations
// must work off the raw body bytes exactly as received; re-serialized JSON
// does not reproduce provider signatures.
type Verifier interface {
	Verify(headers http.Header, rawBody []byte) error
}

// HMACVerifier implements the shared-secret signature scheme used by
// Paystack (SHA-512) and Yoco (SHA-256). A missing secret or header fails
// closed.
type HMACVerifier struct {
	secret  string
	header  string
	newHash func() hash.Hash
}

func NewPaystackVerifier(secretKey string) *HMACVerifier {
	return &HMACVerifier{
		secret:  secretKey,
		header:  "x-paystack-signature",
		newHash: sha512.New,
	}
}

func NewYocoVerifier(webhookSecret string) *HMACVerifier {
	return &HMACVerifier{
		secret:  webhookSecret,
		header:  "webhook-signature",
		newHash: sha256.New,
	}
}

// Enabled reports whether a shared secret has been configured. Routes for a
// provider without a secret answer 503 instead of running the pipeline.
func (v *HMACVerifier) Enabled() bool {
	return v.secret != ""
}

func (v *HMACVerifier) Verify(headers http.Header, rawBody []byte) error {
	if v.secret == "" {
		return fmt.Errorf("signature secret not configured")
	}

	signature := headers.Get(v.header)
	if signature == "" {
		return fmt.Errorf("signature header %s is missing", v.header)
	}

	mac := hmac.New(v.newHash, []byte(v.secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return fmt.Errorf("invalid signature")
	}

	return nil
}
