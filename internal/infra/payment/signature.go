package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyWebhookSignature checks the gateway's HMAC-SHA256 over the raw
// request body. The body must be the verbatim bytes read off the wire;
// re-serializing the JSON can change the byte layout and break the digest.
//
// The comparison is constant-time. Any malformed input degrades to a
// rejection rather than an error so the check can never be bypassed by
// making it fail.
func VerifyWebhookSignature(rawBody []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	claimed, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(rawBody)
	return hmac.Equal(h.Sum(nil), claimed)
}

// SignPayload produces the hex digest the gateway would attach to rawBody.
// Used by tests and the local sandbox driver.
func SignPayload(rawBody []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(rawBody)
	return hex.EncodeToString(h.Sum(nil))
}
