package oauth2

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/markbates/goth"
	"github.com/pkg/errors"
)

func TestNewSessionUser(t *testing.T) {
	signedInAt := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	type testCase struct {
		GothUser       goth.User
		ExpectError    bool
		ExpectName     string
		ExpectNickname string
	}

	testCases := []testCase{
		{
			GothUser:   goth.User{UserID: "42", Provider: "google", Name: "Jane Doe"},
			ExpectName: "Jane Doe",
		},
		{
			GothUser:   goth.User{UserID: "42", Provider: "github", FirstName: "Jane", LastName: "Doe"},
			ExpectName: "Jane Doe",
		},
		{
			GothUser:   goth.User{UserID: "42", Provider: "github", FirstName: "Jane"},
			ExpectName: "Jane",
		},
		{
			GothUser: goth.User{
				UserID:   "42",
				Provider: "openid-connect",
				NickName: "jdoe",
				RawData:  map[string]any{"preferred_username": "jane"},
			},
			ExpectNickname: "jane",
		},
		{
			GothUser:    goth.User{UserID: "42", Name: "Jane Doe"},
			ExpectError: true,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("Case #%d", idx), func(t *testing.T) {
			user, err := newSessionUser(tc.GothUser, signedInAt)

			if tc.ExpectError {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}

			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.ExpectName, user.Name; e != g {
				t.Errorf("user.Name: expected '%v', got '%v'", e, g)
			}

			if e, g := tc.ExpectNickname, user.Nickname; e != g {
				t.Errorf("user.Nickname: expected '%v', got '%v'", e, g)
			}

			if !signedInAt.Equal(user.SignedInAt) {
				t.Errorf("user.SignedInAt: expected '%v', got '%v'", signedInAt, user.SignedInAt)
			}
		})
	}
}

func TestSessionCookieWithoutTokens(t *testing.T) {
	handler := newTestHandler()

	accessToken := "gho_SECRETACCESSTOKEN"
	idToken := "eyJ" + strings.Repeat("x", 3584)

	user, err := newSessionUser(goth.User{
		UserID:      "42",
		Provider:    "openid-connect",
		Name:        "Jane Doe",
		AccessToken: accessToken,
		IDToken:     idToken,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/providers/openid-connect/callback", nil)

	if err := handler.storeSessionUser(res, req, user); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	var sessionCookie *http.Cookie
	for _, c := range res.Result().Cookies() {
		if c.Name == handler.sessionName {
			sessionCookie = c
		}
	}

	if sessionCookie == nil {
		t.Fatalf("expected session cookie '%s' to be set", handler.sessionName)
	}

	// The signed cookie is "date|payload|mac" in base64, the payload
	// being the base64 encoded session values.
	outer, err := base64.URLEncoding.DecodeString(sessionCookie.Value)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	parts := strings.SplitN(string(outer), "|", 3)
	if e, g := 3, len(parts); e != g {
		t.Fatalf("len(parts): expected '%v', got '%v'", e, g)
	}

	payload, err := base64.URLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if !strings.Contains(string(payload), "Jane Doe") {
		t.Fatalf("payload: expected the user name to be readable")
	}

	for _, token := range []string{accessToken, idToken[:64]} {
		if strings.Contains(string(payload), token) {
			t.Errorf("payload: expected '%s' not to be stored in the session cookie", token[:16])
		}
	}
}
