// Package security keeps platform credentials out of logs, reports and
// terminal output. Tokens travel through the process wrapped in
// [SecureToken], and any text that could echo a credential is scrubbed with
// [SanitizeString] before display.
package security

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

const (
	maskEmpty    = "[empty]"
	maskRedacted = "[redacted]"

	// Tokens at least this long keep their last characters visible when
	// masked, which is enough to match a token against the platform UI.
	// Anything shorter is fully redacted.
	partialMaskMinLen = 8
	visibleSuffixLen  = 4

	// Digest prefix length for Fingerprint, in bytes.
	fingerprintLen = 4
)

// SecureToken holds a platform credential behind masking formatters. Every
// fmt verb renders the masked form, so a token handed around as a SecureToken
// cannot leak through logging, error wrapping, or %#v dumps; only an explicit
// Value call yields the secret.
//
//	token := NewSecureToken("glpat-secret123456")
//	fmt.Sprintf("%s", token)  // "[token:****3456]"
//	fmt.Sprintf("%#v", token) // "[token:****3456]"
type SecureToken struct {
	value string
}

// NewSecureToken wraps a raw token value.
func NewSecureToken(token string) SecureToken {
	return SecureToken{value: token}
}

// Value returns the raw token for authenticating requests. Callers must not
// log or print the result.
func (t SecureToken) Value() string {
	return t.value
}

// IsEmpty reports whether no token was supplied.
func (t SecureToken) IsEmpty() bool {
	return t.value == ""
}

// String implements fmt.Stringer with the masked form.
func (t SecureToken) String() string {
	switch {
	case t.value == "":
		return maskEmpty
	case len(t.value) < partialMaskMinLen:
		return maskRedacted
	}
	return "[token:****" + t.value[len(t.value)-visibleSuffixLen:] + "]"
}

// GoString implements fmt.GoStringer so %#v formatting masks too.
func (t SecureToken) GoString() string {
	return t.String()
}

// Fingerprint returns a short SHA3-256 digest of the token. The digest is
// stable across runs, so operators can tell which credential a session used
// without the token ever being shown. Empty tokens fingerprint as "none".
func (t SecureToken) Fingerprint() string {
	if t.value == "" {
		return "none"
	}

	sum := sha3.Sum256([]byte(t.value))
	return hex.EncodeToString(sum[:fingerprintLen])
}
