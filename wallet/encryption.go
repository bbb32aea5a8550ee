package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	saltSize = 32
	// salt | memory(4) | iterations(4) | parallelism(1)
	headerSize = saltSize + 4 + 4 + 1
)

// KDFParams are the Argon2id parameters stored with each encrypted blob.
type KDFParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
}

// maxKDFMemory caps the Argon2 memory a wallet file may ask for (KiB).
const maxKDFMemory = 4 * 64 * 1024

// DefaultKDFParams returns the parameters used for wallet files.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
	}
}

func (p KDFParams) valid() bool {
	return p.Iterations > 0 && p.Parallelism > 0 && p.Memory > 0 && p.Memory <= maxKDFMemory
}

func kdf(password, salt []byte, p KDFParams) []byte {
	return argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Parallelism, chacha20poly1305.KeySize)
}

// encrypt seals data with Argon2id + XChaCha20-Poly1305.
//
// Output: salt(32) | memory(4) | iterations(4) | parallelism(1) | nonce(24) | ciphertext
func encrypt(data, password []byte, p KDFParams) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := kdf(password, salt, p)
	defer clear(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, headerSize+len(nonce)+len(data)+aead.Overhead())
	out = append(out, salt...)
	out = binary.LittleEndian.AppendUint32(out, p.Memory)
	out = binary.LittleEndian.AppendUint32(out, p.Iterations)
	out = append(out, p.Parallelism)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, data, nil), nil
}

func decrypt(blob, password []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	if len(blob) < headerSize+nonceSize+chacha20poly1305.Overhead {
		return nil, newError(ErrCorruptFile, "The wallet file is truncated.", nil)
	}

	salt := blob[:saltSize]
	p := KDFParams{
		Memory:      binary.LittleEndian.Uint32(blob[saltSize:]),
		Iterations:  binary.LittleEndian.Uint32(blob[saltSize+4:]),
		Parallelism: blob[saltSize+8],
	}
	if !p.valid() {
		return nil, newError(ErrCorruptFile, "The wallet file's key parameters are damaged.", nil)
	}
	nonce := blob[headerSize : headerSize+nonceSize]
	ciphertext := blob[headerSize+nonceSize:]

	key := kdf(password, salt, p)
	defer clear(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, newError(ErrWrongPassword, "The password is incorrect.", nil)
	}
	return plain, nil
}
