package fwversion

import (
	"fmt"

	version "github.com/hashicorp/go-version"
)

// Format returns a user-visible version string from the
// version byte reported by the flight controller, which
// packs major, minor and patch as decimal digits (230 is 2.3.0).
func Format(v uint8) string {
	return fmt.Sprintf("%d.%d.%d", v/100, (v/10)%10, v%10)
}

// Parse returns the version byte as a comparable version
func Parse(v uint8) (*version.Version, error) {
	return version.NewVersion(Format(v))
}

// AtLeast returns true if the version byte v is the same
// or newer than min
func AtLeast(v uint8, min string) (bool, error) {
	minVer, err := version.NewVersion(min)
	if err != nil {
		return false, err
	}
	fwVer, err := Parse(v)
	if err != nil {
		return false, err
	}
	return !fwVer.LessThan(minVer), nil
}
