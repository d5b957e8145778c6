// Package hashing implements password hashing with argon2id.
// The salt is embedded in the encoded digest; verification never
// returns an error, a malformed digest simply fails to match.
package hashing

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrEmptyPassword is returned when an empty password is hashed.
// Updates treat a missing password as "keep the current one"; creation
// paths must surface this as a validation failure.
var ErrEmptyPassword = errors.New("hashing: empty password")

// Params control the argon2id cost. Defaults follow the RFC 9106
// second recommended option (64 MiB, 3 passes).
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

type Hasher struct {
	params Params
}

func New(p Params) *Hasher {
	return &Hasher{params: p}
}

// Hash derives an argon2id digest in the standard encoded form
// $argon2id$v=19$m=...,t=...,p=...$<salt>$<key>
func (h *Hasher) Hash(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("hashing: salt generation: %w", err)
	}
	key := argon2.IDKey([]byte(raw), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether raw matches the encoded digest. It fails closed:
// malformed digests, unsupported versions, and mismatches all return false.
func (h *Hasher) Verify(digest, raw string) bool {
	if digest == "" || raw == "" {
		return false
	}
	params, salt, key, err := decode(digest)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(raw), salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decode(digest string) (Params, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, errors.New("hashing: malformed digest")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, err
	}
	if version != argon2.Version {
		return Params{}, nil, nil, errors.New("hashing: unsupported argon2 version")
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Params{}, nil, nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, err
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, err
	}
	return p, salt, key, nil
}
