package http

import (
	"net/http"
	"time"
)

// APITokenCookieName carries the scan tool's API token for the browser UI.
const APITokenCookieName = "apiToken"

const apiTokenCookieTTL = 365 * 24 * time.Hour

func setAPITokenCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     APITokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(apiTokenCookieTTL),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAPITokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     APITokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
