package log

import (
	"log/slog"
	"net/url"
	"strings"
)

const redacted = "redacted"

var sensitiveParams = []string{"password", "secret", "token", "key"}

// ScrubbedURL logs rawURL with its password and any credential-looking
// query parameter redacted. The user name is kept.
func ScrubbedURL(name string, rawURL string) slog.Attr {
	u, err := url.Parse(rawURL)
	if err != nil {
		return slog.String(name, redacted)
	}

	scrubbed := *u

	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			scrubbed.User = url.UserPassword(u.User.Username(), redacted)
		}
	}

	if u.RawQuery != "" {
		query := u.Query()
		for param := range query {
			if isSensitiveParam(param) {
				query.Set(param, redacted)
			}
		}
		scrubbed.RawQuery = query.Encode()
	}

	return slog.String(name, scrubbed.String())
}

func isSensitiveParam(param string) bool {
	param = strings.ToLower(param)
	for _, s := range sensitiveParams {
		if strings.Contains(param, s) {
			return true
		}
	}
	return false
}
