package security

import (
	"fmt"

	"github.com/sgaunet/bullets"
)

// DebugAuth logs which credential a session uses without revealing it.
// The token is reported masked together with its fingerprint so operators
// can match it against their token inventory.
//
// Example:
//
//	DebugAuth(logger, "GitHub", token)
//	// Logs: "Using GitHub token [token:****abcd] (fingerprint 840d1c8a)"
func DebugAuth(logger *bullets.Logger, platform string, token SecureToken) {
	if logger == nil {
		return
	}

	logger.Debug(fmt.Sprintf("Using %s token %s (fingerprint %s)", platform, token, token.Fingerprint()))
}
