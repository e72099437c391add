package domain

import (
	"strings"

	dErrors "accountdesk/pkg/domain-errors"
)

// Region is the branch region a manager serves or a client lives in.
// Regions are stored upper-cased; the wildcard RegionGeneral matches any client region.
type Region string

const RegionGeneral Region = "general"

// ParseRegion normalizes external input. "general" and the legacy "Geral" map to
// RegionGeneral regardless of case.
func ParseRegion(s string) (Region, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "region cannot be empty")
	}
	if strings.EqualFold(trimmed, "general") || strings.EqualFold(trimmed, "geral") {
		return RegionGeneral, nil
	}
	return Region(strings.ToUpper(trimmed)), nil
}

func (r Region) IsGeneral() bool {
	return r == RegionGeneral
}

// Serves reports whether a manager in region r can take a client from region client.
func (r Region) Serves(client Region) bool {
	return r.IsGeneral() || r == client
}

func (r Region) String() string {
	return string(r)
}
