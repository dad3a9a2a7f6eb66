// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

const (
	CSRFCookieName = "gl_csrf"
	CSRFHeaderName = "X-CSRF-Token"

	csrfTokenLength = 32
)

var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// NewCSRF guards the cookie-authenticated API with a double-submit token.
// The gl_csrf cookie is readable by the front end, which echoes it in
// X-CSRF-Token on every unsafe request.
func NewCSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := csrfToken(w, r, secure)
			if err != nil {
				jsonError(w, http.StatusInternalServerError, "Erro interno.")
				return
			}
			if !safeMethods[r.Method] && !validCSRF(token, r.Header.Get(CSRFHeaderName)) {
				jsonError(w, http.StatusForbidden, "Token CSRF inválido.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// csrfToken returns the request's token, issuing a new cookie when the
// browser has none yet.
func csrfToken(w http.ResponseWriter, r *http.Request, secure bool) (string, error) {
	if c, err := r.Cookie(CSRFCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	token, err := generateCSRFToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

func validCSRF(token, submitted string) bool {
	return submitted != "" && subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) == 1
}

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
