// Package hasher implements one-way, salted credential hashing with argon2id.
//
// Hashes are encoded as PHC strings:
//
//	$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>
//
// The salt is random per call, so two hashes of the same password differ.
package hasher

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltLen = 16
	keyLen  = 32
)

// Params controls the argon2id work factor. The cost must stay tunable as
// hardware improves, so it comes from configuration rather than constants.
type Params struct {
	TimeCost    uint32
	MemoryKiB   uint32
	Parallelism uint8
}

// Argon2idHasher hashes and verifies passwords with a fixed parameter set.
type Argon2idHasher struct {
	params            Params
	maxPasswordLength int
}

// NewArgon2idHasher returns a hasher with the given work factor. Zero or
// missing values are raised to safe minima.
func NewArgon2idHasher(p Params, maxPasswordLength int) *Argon2idHasher {
	if p.TimeCost == 0 {
		p.TimeCost = 1
	}
	if p.MemoryKiB < 8*1024 {
		p.MemoryKiB = 64 * 1024
	}
	if p.Parallelism == 0 {
		p.Parallelism = 4
	}
	if maxPasswordLength <= 0 {
		maxPasswordLength = 512
	}
	return &Argon2idHasher{params: p, maxPasswordLength: maxPasswordLength}
}

// Hash derives a salted argon2id hash of password.
// An empty password or one exceeding the configured maximum length fails
// with common.ErrInvalidInput.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrInvalidInput)
	}
	if len(password) > h.maxPasswordLength {
		return "", fmt.Errorf("%w: password exceeds %d bytes", common.ErrInvalidInput, h.maxPasswordLength)
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt generation: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.TimeCost, h.params.MemoryKiB, h.params.Parallelism, keyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.TimeCost,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Verify recomputes the hash using the salt and parameters embedded in
// encodedHash and compares in constant time. A mismatch returns (false, nil);
// a structurally malformed hash returns common.ErrCorruptHash.
func (h *Argon2idHasher) Verify(password, encodedHash string) (bool, error) {
	params, salt, expected, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}

	// Refuse hashes whose embedded parameters vastly exceed the configured
	// work factor: an attacker-supplied hash string must not dictate
	// pathological resource usage.
	if params.MemoryKiB > h.params.MemoryKiB*4 || params.TimeCost > h.params.TimeCost*4 {
		return false, fmt.Errorf("%w: parameters out of bounds", common.ErrCorruptHash)
	}

	key := argon2.IDKey([]byte(password), salt, params.TimeCost, params.MemoryKiB, params.Parallelism, uint32(len(expected)))

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// decodePHC parses a PHC argon2id string into parameters, salt and key.
func decodePHC(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, fmt.Errorf("%w: bad structure", common.ErrCorruptHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, fmt.Errorf("%w: unsupported version", common.ErrCorruptHash)
	}

	var mem, iter, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: bad parameters", common.ErrCorruptHash)
	}
	if mem == 0 || iter == 0 || par == 0 || par > 255 {
		return Params{}, nil, nil, fmt.Errorf("%w: bad parameters", common.ErrCorruptHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < 8 || len(salt) > 64 {
		return Params{}, nil, nil, fmt.Errorf("%w: bad salt", common.ErrCorruptHash)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) < 16 || len(key) > 128 {
		return Params{}, nil, nil, fmt.Errorf("%w: bad key", common.ErrCorruptHash)
	}

	return Params{TimeCost: iter, MemoryKiB: mem, Parallelism: uint8(par)}, salt, key, nil
}
