package commitment

import (
	"crypto/aes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// SHA1Hex returns the lowercase hex digest of message's SHA-1 hash.
func SHA1Hex(message []byte) string {
	sum := sha1.Sum(message)
	return hex.EncodeToString(sum[:])
}

// SHA256 returns the raw 32-byte SHA-256 digest of message.
func SHA256(message []byte) []byte {
	sum := sha256.Sum256(message)
	return sum[:]
}

// ecbEncrypt encrypts plaintext under key using AES in ECB mode: every
// 16-byte block is encrypted independently with the same key, no padding.
// plaintext must be a multiple of the AES block size.
func ecbEncrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("commitment: invalid AES key: %w", err)
	}
	bs := block.BlockSize()
	if len(plaintext)%bs != 0 {
		return nil, fmt.Errorf("commitment: plaintext length %d not a multiple of block size %d",
			len(plaintext), bs)
	}
	ciphertext := make([]byte, len(plaintext))
	for start := 0; start < len(plaintext); start += bs {
		block.Encrypt(ciphertext[start:start+bs], plaintext[start:start+bs])
	}
	return ciphertext, nil
}

// Commit computes the Scantegrity commitment of message under a
// base64-encoded 16-byte AES key and a raw 16-byte constant, returning the
// base64-encoded concatenation of two chained SHA-256 rounds.
//
//  1. sak = AES_ECB_encrypt(key, constant)
//  2. h1  = SHA256(message || sak)
//  3. h2  = SHA256(message || AES_ECB_encrypt(sak, h1))
//  4. return base64(h1 || h2)
func Commit(message []byte, keyB64 string, constant []byte) (string, error) {
	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return "", fmt.Errorf("commitment: invalid base64 key: %w", err)
	}

	sak, err := ecbEncrypt(key, constant)
	if err != nil {
		return "", fmt.Errorf("commitment: deriving sub-key: %w", err)
	}

	h1 := SHA256(append(append([]byte{}, message...), sak...))

	h1Cipher, err := ecbEncrypt(sak, h1)
	if err != nil {
		return "", fmt.Errorf("commitment: second round encryption: %w", err)
	}
	h2 := SHA256(append(append([]byte{}, message...), h1Cipher...))

	out := make([]byte, 0, len(h1)+len(h2))
	out = append(out, h1...)
	out = append(out, h2...)
	return base64.StdEncoding.EncodeToString(out), nil
}
