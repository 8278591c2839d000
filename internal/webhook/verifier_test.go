package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signSHA512(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func signSHA256(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackVerifier_ValidSignature(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)
	verifier := NewPaystackVerifier("sk_test_secret")

	headers := http.Header{}
	headers.Set("x-paystack-signature", signSHA512("sk_test_secret", body))

	require.NoError(t, verifier.Verify(headers, body))
}

func TestPaystackVerifier_InvalidSignature(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)
	verifier := NewPaystackVerifier("sk_test_secret")

	headers := http.Header{}
	headers.Set("x-paystack-signature", signSHA512("wrong_secret", body))

	assert.Error(t, verifier.Verify(headers, body))
}

func TestPaystackVerifier_TamperedBody(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)
	verifier := NewPaystackVerifier("sk_test_secret")

	headers := http.Header{}
	headers.Set("x-paystack-signature", signSHA512("sk_test_secret", body))

	tampered := []byte(`{"event":"charge.success","data":{"amount":1}}`)
	assert.Error(t, verifier.Verify(headers, tampered))
}

func TestHMACVerifier_MissingHeaderFailsClosed(t *testing.T) {
	verifier := NewPaystackVerifier("sk_test_secret")

	assert.Error(t, verifier.Verify(http.Header{}, []byte(`{}`)))
}

func TestHMACVerifier_MissingSecretFailsClosed(t *testing.T) {
	verifier := NewPaystackVerifier("")

	headers := http.Header{}
	headers.Set("x-paystack-signature", "deadbeef")

	assert.Error(t, verifier.Verify(headers, []byte(`{}`)))
	assert.False(t, verifier.Enabled())
}

func TestYocoVerifier_ValidSignature(t *testing.T) {
	body := []byte(`{"type":"payment.succeeded"}`)
	verifier := NewYocoVerifier("whsec_secret")

	headers := http.Header{}
	headers.Set("webhook-signature", signSHA256("whsec_secret", body))

	require.NoError(t, verifier.Verify(headers, body))
	assert.True(t, verifier.Enabled())
}
