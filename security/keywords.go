package security

import "strings"

// suspiciousKeywords are command names and URL schemes that warrant a second
// look when they appear inside configuration values. Matching is advisory
// only: these substrings can appear legitimately (a key literally named
// "curl-cache"), so hits never block validation.
var suspiciousKeywords = []string{
	// deletion
	"rm -", "rmdir", "del ",
	// network fetch
	"curl", "wget", "nc ",
	// code execution
	"eval", "exec", "source ",
	// privilege escalation
	"sudo", "doas", "chmod", "chown",
	// shells
	"bash", "zsh", "/bin/sh", "cmd.exe", "powershell",
	// interpreters
	"python", "perl", "ruby", "node ",
	// URL schemes
	"http://", "https://", "ftp://", "file://",
	// destructive SQL
	"drop table", "truncate", "delete from",
}

// ScanKeywords returns the suspicious keywords found in value, matched
// case-insensitively. An empty slice means no hits.
func ScanKeywords(value string) []string {
	lower := strings.ToLower(value)
	var hits []string
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			hits = append(hits, strings.TrimSpace(kw))
		}
	}
	return hits
}
