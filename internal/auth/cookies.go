package auth

import (
	"net/http"
	"time"
)

// SetAccessCookie writes the access token cookie onto the response. HttpOnly
// and SameSite=Lax keep the token away from scripts and cross-site posts.
func SetAccessCookie(w http.ResponseWriter, tok AccessToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetRefreshCookie writes the refresh token cookie onto the response.
func SetRefreshCookie(w http.ResponseWriter, tok RefreshToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    tok.Raw,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookies expires both session cookies on the response.
func ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
