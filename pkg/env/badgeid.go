// Package env resolves facts about the machine the badge runs on.
package env

import (
	"os"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID scopes the protected machine id to this application.
const AppID = "badge.go"

// BadgeIDLength is the length of a derived badge id.
const BadgeIDLength = 12

// BadgeID returns a stable id for this machine. The machine id is hashed
// with AppID so the raw id never leaves the machine. When no machine id is
// available the hostname is used.
func BadgeID() string {
	return badgeID(machineid.ProtectedID, os.Hostname)
}

func badgeID(protectedID func(string) (string, error), hostname func() (string, error)) string {
	id, err := protectedID(AppID)
	if err == nil && len(id) >= BadgeIDLength {
		return id[:BadgeIDLength]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := hostname(); err == nil && host != "" {
		return sanitize(host)
	}
	return "badge"
}

// sanitize makes name usable as an MQTT topic level.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', ' ':
			return '-'
		}
		return r
	}, name)
}
