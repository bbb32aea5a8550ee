package wallet

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
)

// Derivation path m/44'/CoinType'/0'/change/0. The spend key sits on the
// external chain and the view key on the internal one.
const (
	PurposeBIP44 = bip32.FirstHardenedChild + 44
	CoinType     = bip32.FirstHardenedChild + 2525

	changeSpend = 0
	changeView  = 1
)

const (
	addressPayloadLen  = 20
	addressChecksumLen = 4
)

// KeyPair is the spend/view key pair behind an address.
type KeyPair struct {
	Spend *ecdsa.PrivateKey
	View  *ecdsa.PrivateKey
}

// SpendHex returns the private spend key as lowercase hex.
func (k KeyPair) SpendHex() string { return hex.EncodeToString(crypto.FromECDSA(k.Spend)) }

// ViewHex returns the private view key as lowercase hex.
func (k KeyPair) ViewHex() string { return hex.EncodeToString(crypto.FromECDSA(k.View)) }

func keysFromSeed(seed []byte) (KeyPair, error) {
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return KeyPair{}, fmt.Errorf("create master key: %w", err)
	}
	spend, err := deriveKey(master, changeSpend)
	if err != nil {
		return KeyPair{}, err
	}
	view, err := deriveKey(master, changeView)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Spend: spend, View: view}, nil
}

func deriveKey(master *bip32.Key, change uint32) (*ecdsa.PrivateKey, error) {
	current := master
	for _, idx := range []uint32{PurposeBIP44, CoinType, bip32.FirstHardenedChild, change, 0} {
		child, err := current.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", idx, err)
		}
		current = child
	}
	raw := current.Key
	if len(raw) == 33 {
		raw = raw[1:]
	}
	priv, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("derived key: %w", err)
	}
	return priv, nil
}

// ParsePrivateKey reads a 32-byte hex private key, with or without 0x.
func ParsePrivateKey(name, s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" {
		return nil, newError(ErrInvalidKey, fmt.Sprintf("The private %s key is empty.", name), nil)
	}
	if len(s) != 64 {
		return nil, newError(ErrInvalidKey,
			fmt.Sprintf("The private %s key should be 64 hex characters, got %d.", name, len(s)), nil)
	}
	priv, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, newError(ErrInvalidKey,
			fmt.Sprintf("The private %s key is not a valid key.", name), err)
	}
	return priv, nil
}

// DeriveAddress builds the public address for a key pair: prefix, then hex of
// a 20-byte Keccak-256 digest of both compressed public keys and a 4-byte
// checksum.
func DeriveAddress(prefix string, k KeyPair) string {
	digest := crypto.Keccak256(
		crypto.CompressPubkey(&k.Spend.PublicKey),
		crypto.CompressPubkey(&k.View.PublicKey),
	)
	payload := digest[:addressPayloadLen]
	return prefix + hex.EncodeToString(append(payload, checksum(prefix, payload)...))
}

// ValidateAddress checks prefix, length and checksum.
func ValidateAddress(prefix, addr string) bool {
	if !strings.HasPrefix(addr, prefix) {
		return false
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(addr, prefix))
	if err != nil || len(raw) != addressPayloadLen+addressChecksumLen {
		return false
	}
	payload := raw[:addressPayloadLen]
	return bytes.Equal(raw[addressPayloadLen:], checksum(prefix, payload))
}

func checksum(prefix string, payload []byte) []byte {
	return crypto.Keccak256([]byte(prefix), payload)[:addressChecksumLen]
}
