// Package crypto provides per-tenant authenticated encryption for
// generated artifacts at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/docforge/docforge/internal/domain"
)

const (
	nonceSize = 12 // standard GCM nonce length
	tagSize   = 16
	keySize   = 32 // AES-256
)

// Envelope holds an encrypted artifact. IV and AuthTag travel with the
// ciphertext; they are never inferred or reused.
type Envelope struct {
	Ciphertext []byte `json:"ciphertext"`
	IV         []byte `json:"iv"`
	AuthTag    []byte `json:"auth_tag"`
}

// Marshal flattens the envelope for object storage: IV, then AuthTag,
// then ciphertext.
func (e *Envelope) Marshal() []byte {
	out := make([]byte, 0, len(e.IV)+len(e.AuthTag)+len(e.Ciphertext))
	out = append(out, e.IV...)
	out = append(out, e.AuthTag...)
	out = append(out, e.Ciphertext...)
	return out
}

// UnmarshalEnvelope parses bytes produced by Marshal. Truncated input
// fails closed with domain.ErrDecryption.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	if len(data) < nonceSize+tagSize {
		return nil, fmt.Errorf("envelope too short: %w", domain.ErrDecryption)
	}
	return &Envelope{
		IV:         data[:nonceSize],
		AuthTag:    data[nonceSize : nonceSize+tagSize],
		Ciphertext: data[nonceSize+tagSize:],
	}, nil
}

// Params tune the argon2id derivation. Production uses Default; tests use
// cheaper settings.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// Default matches the argon2id cost used for application secrets:
// one pass over 64 MiB with four lanes.
var Default = Params{Time: 1, Memory: 64 * 1024, Threads: 4}

// Keyring derives and caches one AEAD key per tenant from a process-wide
// master secret. Compromising a derived key does not reveal the master
// secret or any other tenant's key.
type Keyring struct {
	master []byte
	params Params

	mu   sync.RWMutex
	keys map[string][]byte
}

// NewKeyring creates a keyring over the given master secret.
func NewKeyring(masterSecret string, params Params) *Keyring {
	return &Keyring{
		master: []byte(masterSecret),
		params: params,
		keys:   make(map[string][]byte),
	}
}

// keyFor derives (or returns the cached) per-tenant key. The tenant ID is
// bound into the salt so two tenants can never share a key.
func (k *Keyring) keyFor(tenantID string) []byte {
	k.mu.RLock()
	key, ok := k.keys[tenantID]
	k.mu.RUnlock()
	if ok {
		return key
	}

	salt := []byte("docforge:" + tenantID)
	key = argon2.IDKey(k.master, salt, k.params.Time, k.params.Memory, k.params.Threads, keySize)

	k.mu.Lock()
	k.keys[tenantID] = key
	k.mu.Unlock()
	return key
}

// Encrypt seals plaintext under the tenant's derived key with a fresh
// random nonce per call.
func (k *Keyring) Encrypt(tenantID string, plaintext []byte) (*Envelope, error) {
	gcm, err := newGCM(k.keyFor(tenantID))
	if err != nil {
		return nil, err
	}

	iv := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("rand nonce: %w", err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, nil)
	return &Envelope{
		Ciphertext: sealed[:len(sealed)-tagSize],
		IV:         iv,
		AuthTag:    sealed[len(sealed)-tagSize:],
	}, nil
}

// Decrypt opens an envelope. Any tag mismatch or corrupted input fails
// closed with domain.ErrDecryption; partial plaintext is never returned.
func (k *Keyring) Decrypt(tenantID string, env *Envelope) ([]byte, error) {
	if env == nil || len(env.IV) != nonceSize || len(env.AuthTag) != tagSize {
		return nil, fmt.Errorf("malformed envelope: %w", domain.ErrDecryption)
	}

	gcm, err := newGCM(k.keyFor(tenantID))
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+tagSize)
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.AuthTag...)

	plaintext, err := gcm.Open(nil, env.IV, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("open envelope: %w", domain.ErrDecryption)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
