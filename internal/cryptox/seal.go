package cryptox

import (
	"github.com/dmitrijs2005/filevault/internal/common"
	"golang.org/x/crypto/chacha20poly1305"
)

// SealedBlob is an encrypted vault payload together with the material
// needed to open it again. The key and nonce are stored alongside the
// file metadata, never inside the object store.
type SealedBlob struct {
	Ciphertext []byte
	Key        []byte
	Nonce      []byte
}

// SealBlob encrypts plaintext with XChaCha20-Poly1305 under a fresh random
// 256-bit key and nonce. Every call produces an independent key, so a reset
// of the vault password never invalidates previously uploaded files.
func SealBlob(plaintext []byte) (*SealedBlob, error) {
	key := common.GenerateRandByteArray(chacha20poly1305.KeySize)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aead.NonceSize())
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	return &SealedBlob{Ciphertext: ciphertext, Key: key, Nonce: nonce}, nil
}

// OpenBlob decrypts a payload previously produced by SealBlob.
func OpenBlob(ciphertext, key, nonce []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, nil)
}
