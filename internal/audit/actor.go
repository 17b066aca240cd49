package audit

import (
	"strings"

	"github.com/google/uuid"
)

// Actor is the authenticated caller identity, built once by the gate from
// the verified credential and passed explicitly into every service call.
// Nothing re-derives permissions from the database mid-session.
type Actor struct {
	UserID      uuid.UUID
	Username    string
	Role        string
	Permissions []string
	IP          string
}

// Has checks the credential's permission-code snapshot.
func (a Actor) Has(code string) bool {
	for _, p := range a.Permissions {
		if p == code {
			return true
		}
	}
	return false
}

// NormalizeIP picks the first entry of a forwarded-for header value and
// normalizes the loopback representation. Falls back to remote when the
// header is empty.
func NormalizeIP(forwardedFor, remote string) string {
	ip := remote
	if forwardedFor != "" {
		ip = strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}
	if ip == "::1" {
		ip = "127.0.0.1"
	}
	return ip
}
