package alerts

import "github.com/google/uuid"

// namespace scopes alert fingerprints to this application
var namespace = uuid.MustParse("8d0f5c3a-2b6e-4f41-9c7d-5e1a3b2c4d6f")

// Fingerprint returns the stable identifier of an alert key.
// The same key always yields the same fingerprint.
func Fingerprint(key string) string {
	return uuid.NewSHA1(namespace, []byte(key)).String()
}
