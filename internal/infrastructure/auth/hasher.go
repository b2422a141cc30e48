package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	sharedConfig "github.com/unical-dimes/professors/internal/shared/config"
)

// PasswordHasher hashes and verifies passwords. Verify never fails loudly:
// a malformed hash simply does not match.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

const (
	argon2SaltLength = 16
	argon2KeyLength  = 32
	argon2Prefix     = "$argon2id$"
)

// Argon2idPasswordHasher produces PHC-formatted strings with the salt and
// parameters embedded, so hashes stay verifiable after the work factor changes.
type Argon2idPasswordHasher struct {
	time    uint32
	memory  uint32
	threads uint8
}

func NewArgon2idPasswordHasher(time, memoryKiB uint32, threads uint8) *Argon2idPasswordHasher {
	if time == 0 {
		time = 3
	}
	if memoryKiB == 0 {
		memoryKiB = 64 * 1024
	}
	if threads == 0 {
		threads = 2
	}
	return &Argon2idPasswordHasher{time: time, memory: memoryKiB, threads: threads}
}

func (h *Argon2idPasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, argon2KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idPasswordHasher) Verify(password, hash string) bool {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}
	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}
	if memory == 0 || time == 0 || threads == 0 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate password hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptPasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CompositePasswordHasher hashes with the configured primary algorithm and
// verifies whichever format the stored hash is in.
type CompositePasswordHasher struct {
	primary PasswordHasher
	argon2  *Argon2idPasswordHasher
	bcrypt  *BcryptPasswordHasher
}

func NewPasswordHasher(cfg sharedConfig.PasswordConfig) (*CompositePasswordHasher, error) {
	a := NewArgon2idPasswordHasher(cfg.Argon2Time, cfg.Argon2Memory, cfg.Argon2Threads)
	b := NewBcryptPasswordHasher(cfg.BcryptCost)
	h := &CompositePasswordHasher{argon2: a, bcrypt: b}
	switch strings.ToLower(cfg.Algorithm) {
	case "", "argon2id":
		h.primary = a
	case "bcrypt":
		h.primary = b
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", cfg.Algorithm)
	}
	return h, nil
}

func (h *CompositePasswordHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *CompositePasswordHasher) Verify(password, hash string) bool {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return h.argon2.Verify(password, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return h.bcrypt.Verify(password, hash)
	default:
		return false
	}
}
