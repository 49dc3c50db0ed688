package utils

import (
	"net/http"
	"slices"
)

func Contains(value string, list []string) bool {
	return slices.Contains(list, value)
}

// HostFilter decides which request origins may open a client connection.
// The denylist always wins.
type HostFilter struct {
	AllowAllHosts    bool
	AllowlistedHosts []string
	DenylistedHosts  []string
}

func (f HostFilter) Allows(origin string) bool {
	if Contains(origin, f.DenylistedHosts) {
		return false
	}
	if f.AllowAllHosts {
		return true
	}
	return Contains(origin, f.AllowlistedHosts)
}

func (f HostFilter) CheckOrigin(r *http.Request) bool {
	return f.Allows(r.Header.Get("Origin"))
}
