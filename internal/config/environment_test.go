package config

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

func withEnv(t *testing.T, env map[string]string) {
	previous := getEnv
	getEnv = func(key string) string {
		return env[key]
	}
	t.Cleanup(func() {
		getEnv = previous
	})
}

func decodeFile(t *testing.T, path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	return yaml.Unmarshal(data, target)
}

func TestPreferencesOptionsInterpolation(t *testing.T) {
	type testCase struct {
		Env    map[string]string
		Assert func(t *testing.T, prefs Preferences)
	}

	testCases := []testCase{
		{
			Env: map[string]string{
				"DEEPIDIA_REDIS_HOST":     "cache.internal",
				"DEEPIDIA_VISITOR_COOKIE": "deepidia_visitor",
			},
			Assert: func(t *testing.T, prefs Preferences) {
				if e, g := "redis", string(prefs.Type); e != g {
					t.Errorf("prefs.Type: expected '%v', got '%v'", e, g)
				}

				if e, g := "user", string(prefs.Key); e != g {
					t.Errorf("prefs.Key: expected '%v', got '%v'", e, g)
				}

				if e, g := "redis://cache.internal:6379/0", prefs.Options.Data["url"]; e != g {
					t.Errorf("prefs.Options.Data[\"url\"]: expected '%v', got '%v'", e, g)
				}

				if e, g := "deepidia", prefs.Options.Data["keyPrefix"]; e != g {
					t.Errorf("prefs.Options.Data[\"keyPrefix\"]: expected '%v', got '%v'", e, g)
				}

				names := prefs.Options.Data["cookie"].(map[string]any)["names"].([]any)

				if e, g := "deepidia_visitor", names[0]; e != g {
					t.Errorf("cookie.names[0]: expected '%v', got '%v'", e, g)
				}

				if e, g := "fallback", names[1]; e != g {
					t.Errorf("cookie.names[1]: expected '%v', got '%v'", e, g)
				}
			},
		},
		{
			Env: map[string]string{
				"DEEPIDIA_PREFERENCES_KEY": "profile",
				"DEEPIDIA_REDIS_PREFIX":    "staging",
			},
			Assert: func(t *testing.T, prefs Preferences) {
				if e, g := "profile", string(prefs.Key); e != g {
					t.Errorf("prefs.Key: expected '%v', got '%v'", e, g)
				}

				if e, g := "redis://:6379/0", prefs.Options.Data["url"]; e != g {
					t.Errorf("prefs.Options.Data[\"url\"]: expected '%v', got '%v'", e, g)
				}

				if e, g := "staging", prefs.Options.Data["keyPrefix"]; e != g {
					t.Errorf("prefs.Options.Data[\"keyPrefix\"]: expected '%v', got '%v'", e, g)
				}
			},
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("Case #%d", idx), func(t *testing.T) {
			withEnv(t, tc.Env)

			var prefs Preferences

			if err := decodeFile(t, "testdata/environment/preferences-redis.yml", &prefs); err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if prefs.Options == nil {
				t.Fatalf("prefs.Options: expected options to be decoded")
			}

			tc.Assert(t, prefs)
		})
	}
}

func TestSessionCookieInterpolation(t *testing.T) {
	type testCase struct {
		Env            map[string]string
		ExpectError    bool
		ExpectMaxAge   time.Duration
		ExpectSecure   bool
		ExpectHTTPOnly bool
	}

	testCases := []testCase{
		{
			Env: map[string]string{
				"DEEPIDIA_COOKIE_SECURE":   "true",
				"DEEPIDIA_SESSION_MAX_AGE": "12h",
			},
			ExpectMaxAge:   12 * time.Hour,
			ExpectSecure:   true,
			ExpectHTTPOnly: true,
		},
		{
			Env: map[string]string{
				"DEEPIDIA_COOKIE_HTTP_ONLY": "false",
				"DEEPIDIA_COOKIE_SECURE":    "false",
				"DEEPIDIA_SESSION_MAX_AGE":  "60000000000",
			},
			ExpectMaxAge:   time.Minute,
			ExpectSecure:   false,
			ExpectHTTPOnly: false,
		},
		{
			Env: map[string]string{
				"DEEPIDIA_COOKIE_SECURE":   "true",
				"DEEPIDIA_SESSION_MAX_AGE": "one day",
			},
			ExpectError: true,
		},
		{
			Env: map[string]string{
				"DEEPIDIA_COOKIE_SECURE":   "maybe",
				"DEEPIDIA_SESSION_MAX_AGE": "1h",
			},
			ExpectError: true,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("Case #%d", idx), func(t *testing.T) {
			withEnv(t, tc.Env)

			cookie := Cookie{
				MaxAge: NewInterpolatedDuration(-1),
			}

			err := decodeFile(t, "testdata/environment/session-cookie.yml", &cookie)

			if tc.ExpectError {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}

			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.ExpectMaxAge, time.Duration(*cookie.MaxAge); e != g {
				t.Errorf("cookie.MaxAge: expected '%v', got '%v'", e, g)
			}

			if e, g := tc.ExpectSecure, bool(cookie.Secure); e != g {
				t.Errorf("cookie.Secure: expected '%v', got '%v'", e, g)
			}

			if e, g := tc.ExpectHTTPOnly, bool(cookie.HTTPOnly); e != g {
				t.Errorf("cookie.HTTPOnly: expected '%v', got '%v'", e, g)
			}

			if e, g := "/", string(cookie.Path); e != g {
				t.Errorf("cookie.Path: expected '%v', got '%v'", e, g)
			}
		})
	}
}

func TestRateLimitInterpolation(t *testing.T) {
	type testCase struct {
		Env         map[string]string
		ExpectError bool
		ExpectRate  float64
		ExpectBurst int
	}

	testCases := []testCase{
		{
			Env:         map[string]string{},
			ExpectRate:  0.2,
			ExpectBurst: 5,
		},
		{
			Env: map[string]string{
				"DEEPIDIA_LOGIN_RATE":  "1.5",
				"DEEPIDIA_LOGIN_BURST": "10",
			},
			ExpectRate:  1.5,
			ExpectBurst: 10,
		},
		{
			Env: map[string]string{
				"DEEPIDIA_LOGIN_RATE": "fast",
			},
			ExpectError: true,
		},
		{
			Env: map[string]string{
				"DEEPIDIA_LOGIN_BURST": "2.5",
			},
			ExpectError: true,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("Case #%d", idx), func(t *testing.T) {
			withEnv(t, tc.Env)

			var rateLimit RateLimit

			err := decodeFile(t, "testdata/environment/rate-limit.yml", &rateLimit)

			if tc.ExpectError {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}

			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.ExpectRate, float64(rateLimit.Rate); e != g {
				t.Errorf("rateLimit.Rate: expected '%v', got '%v'", e, g)
			}

			if e, g := tc.ExpectBurst, int(rateLimit.Burst); e != g {
				t.Errorf("rateLimit.Burst: expected '%v', got '%v'", e, g)
			}
		})
	}
}

func TestSessionKeysInterpolation(t *testing.T) {
	withEnv(t, map[string]string{
		"DEEPIDIA_HTTP_SESSION_KEY": "from-env",
	})

	var session Session

	if err := decodeFile(t, "testdata/environment/session-keys.yml", &session); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, len(session.Keys); e != g {
		t.Fatalf("len(session.Keys): expected '%v', got '%v'", e, g)
	}

	if e, g := "from-env", session.Keys[0]; e != g {
		t.Errorf("session.Keys[0]: expected '%v', got '%v'", e, g)
	}

	if e, g := "static-key", session.Keys[1]; e != g {
		t.Errorf("session.Keys[1]: expected '%v', got '%v'", e, g)
	}

	if session.Cookie.MaxAge == nil {
		t.Fatalf("session.Cookie.MaxAge: expected a value")
	}

	if e, g := time.Hour, time.Duration(*session.Cookie.MaxAge); e != g {
		t.Errorf("session.Cookie.MaxAge: expected '%v', got '%v'", e, g)
	}
}
