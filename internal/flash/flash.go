// Package flash implements one-shot notifications carried across a
// redirect in a signed cookie.
//
// The cookie value is base64url(JSON payload) + "." + base64url(HMAC).
// Signing stops a client from forging notification content; it does not
// hide it (the payload is only encoded, not encrypted), which is fine —
// flashes never carry anything the client didn't already see.
package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

const cookieName = "flash"

// Level classifies a message for display styling.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Message is a single one-shot notification.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Store signs and verifies flash cookies with a fixed secret.
type Store struct {
	secret []byte
}

func NewStore(secret string) *Store {
	return &Store{secret: []byte(secret)}
}

// Set stores messages in the flash cookie. They survive exactly until the
// next Pop, which is how a POST handler leaves a notification for the
// page it redirects to.
func (s *Store) Set(w http.ResponseWriter, msgs ...Message) {
	payload, err := json.Marshal(msgs)
	if err != nil {
		// A slice of two string fields cannot fail to marshal.
		return
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded + "." + s.sign(encoded),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending messages and clears the cookie. A missing,
// malformed, or tampered cookie yields no messages.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}

	// Expire the cookie regardless of whether it verifies.
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	encoded, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return nil
	}
	if !hmac.Equal([]byte(s.sign(encoded)), []byte(sig)) {
		return nil
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(payload, &msgs); err != nil {
		return nil
	}
	return msgs
}

func (s *Store) sign(encoded string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
