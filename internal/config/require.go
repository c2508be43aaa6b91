package config

import "log"

// MustNonEmpty aborts startup when a required env value is missing. A backend
// running without its signing secret or database is worse than one that
// refuses to start.
func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
