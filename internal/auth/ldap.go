package auth

import (
	"fmt"
	"log/slog"

	"github.com/go-ldap/ldap/v3"
)

// Authenticator validates a username/password pair. Pass/fail only; the
// reason for a failure is logged, never returned.
type Authenticator interface {
	Authenticate(username, password string) bool
}

// Directory authenticates users with a single simple bind against an LDAP
// server. No session state is kept; every call dials, binds, and closes.
type Directory struct {
	host   string // ldap:// or ldaps:// URL
	baseDN string
}

func NewDirectory(host, baseDN string) *Directory {
	return &Directory{host: host, baseDN: baseDN}
}

func (d *Directory) userDN(username string) string {
	return fmt.Sprintf("uid=%s,%s", ldap.EscapeDN(username), d.baseDN)
}

// Authenticate binds as uid=<username>,<base DN> with the supplied
// password. Any failure — unreachable server, bad DN, wrong password —
// yields false. One attempt, no retries.
func (d *Directory) Authenticate(username, password string) bool {
	conn, err := ldap.DialURL(d.host)
	if err != nil {
		slog.Error("ldap dial failed", "host", d.host, "error", err)
		return false
	}
	defer conn.Close()

	if err := conn.Bind(d.userDN(username), password); err != nil {
		slog.Warn("ldap bind failed", "username", username, "error", err)
		return false
	}
	return true
}
