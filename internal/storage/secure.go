package storage

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	saltSize = 32
	// Sealed value format: [salt(32)][memory(4)][iterations(4)][parallelism(1)][nonce(24)][ciphertext...]
	sealHeaderSize = saltSize + 4 + 4 + 1
)

// SealParams holds Argon2id parameters recorded alongside each sealed
// value so old values stay readable after a parameter bump.
type SealParams struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultSealParams returns the Argon2id parameters used for new values.
func DefaultSealParams() SealParams {
	return SealParams{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 4,
	}
}

func deriveSealKey(passphrase, salt []byte, params SealParams) []byte {
	return argon2.IDKey(
		passphrase,
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		chacha20poly1305.KeySize,
	)
}

// SecureDB wraps a DB and seals every value with a passphrase-derived
// key (Argon2id + XChaCha20-Poly1305). Keys stay in the clear; only
// values are protected, which is enough for the secrets the engine
// stores (exported private keys, wallet seeds).
type SecureDB struct {
	inner      DB
	passphrase []byte
	params     SealParams
}

// NewSecure wraps inner so that Put seals and Get unseals with the
// given passphrase.
func NewSecure(inner DB, passphrase []byte) *SecureDB {
	return &SecureDB{
		inner:      inner,
		passphrase: passphrase,
		params:     DefaultSealParams(),
	}
}

func (s *SecureDB) Get(key []byte) ([]byte, error) {
	sealed, err := s.inner.Get(key)
	if err != nil {
		return nil, err
	}
	return unseal(sealed, s.passphrase)
}

func (s *SecureDB) Put(key, value []byte) error {
	sealed, err := seal(value, s.passphrase, s.params)
	if err != nil {
		return err
	}
	return s.inner.Put(key, sealed)
}

func (s *SecureDB) Delete(key []byte) error { return s.inner.Delete(key) }

func (s *SecureDB) Has(key []byte) (bool, error) { return s.inner.Has(key) }

func (s *SecureDB) Close() error {
	for i := range s.passphrase {
		s.passphrase[i] = 0
	}
	return s.inner.Close()
}

// seal encrypts data with the passphrase.
//
// Output format: salt(32) | memory(4) | iterations(4) | parallelism(1) | nonce(24) | ciphertext
func seal(data, passphrase []byte, params SealParams) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := deriveSealKey(passphrase, salt, params)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, data, nil)

	out := make([]byte, 0, sealHeaderSize+len(nonce)+len(ciphertext))
	out = append(out, salt...)
	out = binary.LittleEndian.AppendUint32(out, params.Memory)
	out = binary.LittleEndian.AppendUint32(out, params.Iterations)
	out = append(out, params.Parallelism)
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	for i := range key {
		key[i] = 0
	}

	return out, nil
}

// unseal decrypts a value produced by seal.
func unseal(sealed, passphrase []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	minSize := sealHeaderSize + nonceSize + chacha20poly1305.Overhead
	if len(sealed) < minSize {
		return nil, fmt.Errorf("sealed value too short: %d bytes, need at least %d", len(sealed), minSize)
	}

	salt := sealed[:saltSize]
	params := SealParams{
		Memory:      binary.LittleEndian.Uint32(sealed[saltSize:]),
		Iterations:  binary.LittleEndian.Uint32(sealed[saltSize+4:]),
		Parallelism: sealed[saltSize+8],
	}

	nonce := sealed[sealHeaderSize : sealHeaderSize+nonceSize]
	ciphertext := sealed[sealHeaderSize+nonceSize:]

	key := deriveSealKey(passphrase, salt, params)
	defer func() {
		for i := range key {
			key[i] = 0
		}
	}()

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("unseal: %w", err)
	}
	return plaintext, nil
}
