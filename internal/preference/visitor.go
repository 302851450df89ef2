package preference

import (
	"net/http"

	"github.com/rs/xid"
)

// VisitorCookie identifies anonymous visitors of server side stores.
type VisitorCookie struct {
	Name   string
	MaxAge int
	Secure bool
}

// Read returns the visitor identifier carried by r, if it is valid.
func (c VisitorCookie) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return "", false
	}

	id, err := xid.FromString(cookie.Value)
	if err != nil {
		return "", false
	}

	return id.String(), true
}

func (c VisitorCookie) Write(w http.ResponseWriter, visitor string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    visitor,
		Path:     "/",
		MaxAge:   c.MaxAge,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func NewVisitorID() string {
	return xid.New().String()
}
