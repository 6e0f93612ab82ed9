// Package admin implements the operator surface: a PIN gate and the
// dashboard operations that inspect and rewrite riddle progress.
package admin

import (
	"context"
	"errors"
	"net"
	"strings"

	"riddlebox/pkg/game/progress"
)

var (
	// ErrLocked is returned when the PIN does not match and no bypass applies.
	ErrLocked = errors.New("admin: wrong pin")
	// ErrUnknownRiddle is returned for riddle ids missing from the registry.
	ErrUnknownRiddle = errors.New("admin: unknown riddle")
)

// PinLength is the number of digits in an admin PIN.
const PinLength = 4

// Gate guards the dashboard behind a short PIN. It keeps casual players out
// and is not a security boundary.
type Gate struct {
	Pin string
	// Bypass reports whether loopback callers may skip the PIN.
	Bypass func() bool
}

// NewGate returns a gate whose bypass follows the stored admin settings.
func NewGate(ctx context.Context, pin string, repo progress.Repository) Gate {
	return Gate{
		Pin: pin,
		Bypass: func() bool {
			return repo.State(ctx).AdminSettings.BypassPinOnLocalhost
		},
	}
}

// Unlock returns nil when pin matches, or when host is a loopback address
// and the bypass is enabled.
func (g Gate) Unlock(pin, host string) error {
	if IsLoopback(host) && g.Bypass != nil && g.Bypass() {
		return nil
	}
	if g.Pin != "" && pin == g.Pin {
		return nil
	}
	return ErrLocked
}

// IsLoopback reports whether host names the local machine. A port suffix is
// ignored.
func IsLoopback(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
