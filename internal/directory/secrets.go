package directory

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for sealing key derivation.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MB
	argonThreads = 4
	argonKeyLen  = 32 // AES-256
	saltLen      = 16
	nonceLen     = 12 // AES-GCM standard nonce size
)

// verificationMagic is a known plaintext sealed with the derived key so a
// wrong passphrase is caught at startup instead of corrupting credentials.
var verificationMagic = []byte("wispgate-directory-v1")

// Sealer encrypts router credentials at rest. The key is derived from the
// service passphrase and a stored salt using Argon2id; ciphertexts are
// AES-256-GCM, laid out nonce (12 bytes) || ciphertext+tag.
type Sealer struct {
	key []byte
}

// NewSealer derives the sealing key from a passphrase and salt.
func NewSealer(passphrase string, salt []byte) *Sealer {
	return &Sealer{
		key: argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, argonKeyLen),
	}
}

// GenerateSalt returns a cryptographically random 16-byte salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Seal encrypts a credential for storage.
func (s *Sealer) Seal(plaintext string) ([]byte, error) {
	return encrypt(s.key, []byte(plaintext))
}

// Unseal decrypts a stored credential.
func (s *Sealer) Unseal(data []byte) (string, error) {
	plain, err := decrypt(s.key, data)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// VerificationBlob seals the magic string for persistence alongside the salt.
func (s *Sealer) VerificationBlob() ([]byte, error) {
	return encrypt(s.key, verificationMagic)
}

// Verify decrypts the stored verification blob and checks it matches the
// magic string. Returns false when the passphrase the key was derived from
// is not the one that sealed the blob.
func (s *Sealer) Verify(blob []byte) bool {
	plain, err := decrypt(s.key, blob)
	if err != nil {
		return false
	}
	if len(plain) != len(verificationMagic) {
		return false
	}
	for i := range plain {
		if plain[i] != verificationMagic[i] {
			return false
		}
	}
	return true
}

// Destroy overwrites the derived key.
func (s *Sealer) Destroy() {
	for i := range s.key {
		s.key[i] = 0
	}
}

// encrypt performs AES-256-GCM encryption. Returns nonce || ciphertext+tag.
func encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt performs AES-256-GCM decryption. Expects nonce || ciphertext+tag.
func decrypt(key, data []byte) ([]byte, error) {
	if len(data) < nonceLen {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	nonce := data[:nonceLen]
	ciphertext := data[nonceLen:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("unseal: %w", err)
	}

	return plaintext, nil
}
