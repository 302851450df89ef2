package oauth2

import (
	"encoding/gob"
	"time"

	"github.com/bornholm/deepidia/internal/authn"
)

func init() {
	gob.Register(&User{})
}

// User is the identity kept in the signed session cookie. Provider
// tokens are never stored in it.
type User struct {
	Subject  string
	Provider string

	Name     string
	Nickname string
	Email    string

	SignedInAt time.Time
}

// UserProvider implements authn.User.
func (u *User) UserProvider() string {
	return u.Provider
}

// UserSubject implements authn.User.
func (u *User) UserSubject() string {
	return u.Subject
}

// UserDisplayName implements authn.User.
func (u *User) UserDisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Nickname != "":
		return u.Nickname
	default:
		return u.Email
	}
}

var _ authn.User = &User{}
