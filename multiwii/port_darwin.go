package multiwii

import (
	"strings"
)

const (
	darwinPortPrefix = "/dev/cu."
)

var (
	// Bluetooth devices show up as serial ports
	darwinPortSkip = []string{"Bluetooth", "AirPod", "iPhone", "iPad"}
)

func portName(port string) string {
	if strings.HasPrefix(port, "/") {
		return port
	}
	return darwinPortPrefix + port
}

func filterPorts(ports []string) []string {
	var filtered []string
	for _, v := range ports {
		if !strings.HasPrefix(v, darwinPortPrefix) {
			continue
		}
		skip := false
		for _, s := range darwinPortSkip {
			if strings.Contains(v, s) {
				skip = true
				break
			}
		}
		if !skip {
			filtered = append(filtered, v[len(darwinPortPrefix):])
		}
	}
	return filtered
}
