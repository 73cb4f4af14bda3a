package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/scrypt"
)

var (
	ErrEncryption = errors.New("token: encryption failed")
	ErrDecryption = errors.New("token: decryption failed")
)

const saltSize = 16

// sealValue encrypts a credential with AES-GCM under a key derived from the
// passphrase. The random salt is prepended so each blob is self-contained.
func sealValue(passphrase, plaintext string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, ErrEncryption
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, ErrEncryption
	}

	blob := append(salt, nonce...)
	return gcm.Seal(blob, nonce, []byte(plaintext), nil), nil
}

func openValue(passphrase string, blob []byte) (string, error) {
	if len(blob) < saltSize {
		return "", ErrDecryption
	}
	salt, rest := blob[:saltSize], blob[saltSize:]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}

	if len(rest) < gcm.NonceSize() {
		return "", ErrDecryption
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryption
	}
	return string(plaintext), nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, ErrEncryption
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrEncryption
	}

	return cipher.NewGCM(block)
}

// encryptedBackend layers AES-GCM on top of a file backend. It is only
// available when a passphrase was configured, which stands in for the
// platform secure enclave being reachable.
type encryptedBackend struct {
	inner      *fileBackend
	passphrase string
}

func newEncryptedBackend(dir, passphrase string) *encryptedBackend {
	return &encryptedBackend{
		inner:      newFileBackend(dir),
		passphrase: passphrase,
	}
}

func (b *encryptedBackend) Available() bool {
	return b.passphrase != "" && b.inner.Available()
}

func (b *encryptedBackend) Get(key string) (string, error) {
	sealed, err := b.inner.Get(key)
	if err != nil {
		return "", err
	}
	return openValue(b.passphrase, []byte(sealed))
}

func (b *encryptedBackend) Set(key, value string) error {
	sealed, err := sealValue(b.passphrase, value)
	if err != nil {
		return err
	}
	return b.inner.Set(key, string(sealed))
}

func (b *encryptedBackend) Delete(key string) error {
	return b.inner.Delete(key)
}
