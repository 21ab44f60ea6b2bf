package auth

import (
	"strings"
	"unicode/utf8"
)

const (
	maxDeviceKeyLength = 512
	unknownDevice      = "unknown"
)

// DeviceKey normalizes a user-agent string into the opaque per-device key.
// Clients control the input, so the binding is weak. The result is valid
// UTF-8 and at most maxDeviceKeyLength bytes.
func DeviceKey(userAgent string) string {
	key := strings.Join(strings.Fields(strings.ToValidUTF8(userAgent, "")), " ")
	if len(key) > maxDeviceKeyLength {
		n := maxDeviceKeyLength
		for n > 0 && !utf8.RuneStart(key[n]) {
			n--
		}
		key = key[:n]
	}
	if key == "" {
		return unknownDevice
	}
	return key
}
