// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package credential hides secrets in values printed by error messages.
package credential

import (
	"fmt"
	"regexp"
	"strings"
)

// Blur returns value formatted for messages, or a placeholder if either the dotted
// field path looks like it holds a secret or the value looks like a known credential.
func Blur(path string, value any) string {
	if key := path[strings.LastIndex(path, ".")+1:]; keyPattern.MatchString(key) {
		return "******"
	}

	var formatted string
	switch v := value.(type) {
	case string:
		formatted = v
	case []byte:
		formatted = string(v)
	default:
		formatted = fmt.Sprint(value)
	}

	for _, secret := range secretPatterns {
		if secret.pattern.MatchString(formatted) {
			return "<" + secret.name + ">"
		}
	}

	return formatted
}

//nolint:gochecknoglobals
var (
	keyPattern     = regexp.MustCompile(`(?i)password|passwd|pass|pwd|secret|token|apikey|api_key|bearer|credential|private`)
	secretPatterns = []struct {
		name    string
		pattern *regexp.Regexp
	}{
		{"private key", regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY( BLOCK)?-----`)},
		{"AWS access key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
		{"GitHub token", regexp.MustCompile(`gh[ps]_[a-zA-Z0-9]{36}|github_pat_[a-zA-Z0-9]{22}_[a-zA-Z0-9]{59}`)},
		{"Google API key", regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`)},
		{"Slack token", regexp.MustCompile(`xox[pborsa]-[0-9]{12}-[0-9]{12}-[0-9]{12}-[a-z0-9]{32}`)},
		{"Stripe key", regexp.MustCompile(`[sr]k_live_[0-9a-zA-Z]{24}`)},
		{"password in URL", regexp.MustCompile(`[a-zA-Z]{3,10}://[^/\s:@]{3,20}:[^/\s:@]{3,20}@`)},
	}
)
