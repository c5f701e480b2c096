// Package ghsig verifies and re-signs GitHub's X-Hub-Signature-256 HMAC
// signatures.
package ghsig

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// Verify checks an inbound "sha256=<hex>" signature against body using
// constant-time comparison. Returns a generic error on any failure so the
// caller doesn't leak which part of verification failed.
func Verify(body []byte, signature, secret string) error {
	if secret == "" || signature == "" {
		return fmt.Errorf("ghsig: verification failed")
	}

	expected := hmacSum(body, secret)
	actual, err := parseSignature(signature)
	if err != nil {
		return fmt.Errorf("ghsig: verification failed")
	}

	if subtle.ConstantTimeCompare(expected, actual) != 1 {
		return fmt.Errorf("ghsig: verification failed")
	}
	return nil
}

// Sign computes the "sha256=<hex>" signature used to re-sign a forwarded
// payload with the secret captured for its trigger.
func Sign(body []byte, secret string) string {
	return "sha256=" + hex.EncodeToString(hmacSum(body, secret))
}

func hmacSum(body []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

func parseSignature(signature string) ([]byte, error) {
	if strings.HasPrefix(signature, "sha256=") {
		return hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	}
	return hex.DecodeString(signature)
}
