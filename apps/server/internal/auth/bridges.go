package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const tokenBytes = 32

var (
	ErrInvalidToken      = errors.New("invalid bridge token")
	ErrInvalidBridgeName = errors.New("invalid bridge name")
	ErrInvalidHash       = errors.New("invalid bridge token hash")
)

var bridgeNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)

// Bridges authenticates chat bridges. Each bridge owns one token; only the
// bcrypt hash of it is configured. Verified tokens are remembered so that
// bcrypt runs once per token and process.
type Bridges struct {
	mu sync.Mutex

	hashes   map[string][]byte // bridge -> bcrypt hash
	verified map[string]string // token -> bridge
}

// NewBridges builds the verifier from bridge name -> bcrypt hash pairs.
func NewBridges(hashes map[string]string) (*Bridges, error) {
	b := &Bridges{
		hashes:   make(map[string][]byte, len(hashes)),
		verified: make(map[string]string),
	}
	for name, hash := range hashes {
		name = normalizeBridgeName(name)
		if !bridgeNamePattern.MatchString(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBridgeName, name)
		}
		hash = strings.TrimSpace(hash)
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("%w for bridge %q: %v", ErrInvalidHash, name, err)
		}
		b.hashes[name] = []byte(hash)
	}
	return b, nil
}

// Open reports whether no bridge is configured. An open server accepts any
// connection as the "local" bridge and keeps owner endpoints disabled.
func (b *Bridges) Open() bool {
	return len(b.hashes) == 0
}

// Names returns the configured bridge names, sorted.
func (b *Bridges) Names() []string {
	names := make([]string, 0, len(b.hashes))
	for name := range b.hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Authenticate returns the bridge owning token.
func (b *Bridges) Authenticate(token string) (string, error) {
	token = strings.TrimSpace(token)
	if b.Open() {
		return LocalBridge, nil
	}
	if token == "" || len(token) > 72 {
		return "", ErrInvalidToken
	}

	b.mu.Lock()
	if bridge, ok := b.verified[token]; ok {
		b.mu.Unlock()
		return bridge, nil
	}
	b.mu.Unlock()

	// bcrypt is slow on purpose, keep it outside the lock.
	for _, name := range b.Names() {
		if bcrypt.CompareHashAndPassword(b.hashes[name], []byte(token)) == nil {
			b.mu.Lock()
			b.verified[token] = name
			b.mu.Unlock()
			return name, nil
		}
	}
	return "", ErrInvalidToken
}

// LocalBridge is the bridge name reported when no bridge is configured.
const LocalBridge = "local"

// GenerateToken returns a random URL-safe token.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the bcrypt hash to put in CORONED_BRIDGE_TOKENS.
func HashToken(token string, cost int) (string, error) {
	if strings.TrimSpace(token) == "" || len(token) > 72 {
		return "", ErrInvalidToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeBridgeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
