// Package auth holds the shared-secret gate used by both the HTTP surface
// and the websocket handshake.
package auth

import "crypto/subtle"

// Gate validates presented API keys against one configured static secret.
// No hashing, no rotation.
type Gate struct {
	key string
}

func NewGate(key string) *Gate {
	return &Gate{key: key}
}

// Authenticate reports whether the presented key matches the configured
// secret. An empty presented key or an unconfigured gate always rejects.
func (g *Gate) Authenticate(presented string) bool {
	if g == nil || g.key == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(g.key)) == 1
}
