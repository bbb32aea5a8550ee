package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits gives 24-word seeds.
const MnemonicEntropyBits = 256

// MnemonicWords is the word count of a generated seed.
const MnemonicWords = 24

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic lower-cases the words and collapses whitespace.
func NormalizeMnemonic(mnemonic string) string {
	return strings.ToLower(strings.Join(strings.Fields(mnemonic), " "))
}

// ValidateMnemonic checks word count, word list membership and checksum.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}

func seedFromMnemonic(mnemonic string) ([]byte, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	if n := len(strings.Fields(mnemonic)); n != MnemonicWords {
		return nil, newError(ErrInvalidMnemonic,
			fmt.Sprintf("The mnemonic seed has %d words, it should have %d.", n, MnemonicWords), nil)
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, newError(ErrInvalidMnemonic,
			"The mnemonic seed is not valid. Check every word for typos.", err)
	}
	return seed, nil
}
