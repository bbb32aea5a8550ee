package wallet

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirquity-wallet-tui/history"
)

func testBackend() *Backend {
	p := DefaultParams()
	// keep argon2 cheap in tests
	p.KDF = KDFParams{Memory: 1024, Iterations: 1, Parallelism: 1}
	return NewBackend(Daemon{Host: "127.0.0.1", Port: 18128}, p)
}

func TestCreateProducesValidWallet(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(w.PrimaryAddress(), "cirq"))
	assert.True(t, ValidateAddress("cirq", w.PrimaryAddress()))

	seed, err := w.MnemonicSeed()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(seed), MnemonicWords)
	assert.True(t, ValidateMnemonic(seed))
}

func TestSeedRestoresSameAddress(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)
	seed, _ := w.MnemonicSeed()

	restored, err := b.FromSeed(100000, "  "+strings.ToUpper(seed)+"\n")
	require.NoError(t, err)
	assert.Equal(t, w.PrimaryAddress(), restored.PrimaryAddress())
	assert.Equal(t, uint64(100000), restored.ScanHeight())
}

func TestDifferentSeedDifferentAddress(t *testing.T) {
	b := testBackend()
	w1, err := b.Create()
	require.NoError(t, err)
	w2, err := b.Create()
	require.NoError(t, err)
	assert.NotEqual(t, w1.PrimaryAddress(), w2.PrimaryAddress())
}

func TestFromSeedRejectsBadMnemonic(t *testing.T) {
	b := testBackend()

	_, err := b.FromSeed(0, "abandon abandon")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidMnemonic))

	var werr *Error
	require.True(t, errors.As(err, &werr))
	assert.Contains(t, werr.CustomMessage(), "2 words")

	// right length, bad checksum
	bad := strings.TrimSpace(strings.Repeat("abandon ", MnemonicWords))
	_, err = b.FromSeed(0, bad)
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestKeysRestoreSameAddress(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)

	spend, view := w.PrivateKeys()
	restored, err := b.FromKeys(5, "0x"+view, spend)
	require.NoError(t, err)
	assert.Equal(t, w.PrimaryAddress(), restored.PrimaryAddress())

	_, err = restored.MnemonicSeed()
	assert.ErrorIs(t, err, ErrNoMnemonic)
}

func TestFromKeysRejectsBadKeys(t *testing.T) {
	b := testBackend()
	good := strings.Repeat("11", 32)

	tests := []struct {
		name, view, spend string
	}{
		{"empty spend", good, ""},
		{"short view", "abcd", good},
		{"not hex", good, strings.Repeat("zz", 32)},
		{"zero key", good, strings.Repeat("00", 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.FromKeys(0, tt.view, tt.spend)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestSaveAndOpen(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "main"+FileExtension)
	require.NoError(t, w.SaveToFile(path, "hunter2"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	addr, height, err := Peek(path)
	require.NoError(t, err)
	assert.Equal(t, w.PrimaryAddress(), addr)
	assert.Zero(t, height)

	opened, err := b.Open(path, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, w.PrimaryAddress(), opened.PrimaryAddress())
	seed, _ := w.MnemonicSeed()
	openedSeed, err := opened.MnemonicSeed()
	require.NoError(t, err)
	assert.Equal(t, seed, openedSeed)

	_, err = b.Open(path, "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestSaveToMissingDirectoryFails(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)

	err = w.SaveToFile(filepath.Join(t.TempDir(), "missing", "x.wallet"), "")
	assert.Error(t, err)
}

func TestOpenRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wallet")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := testBackend().Open(path, "")
	assert.ErrorIs(t, err, ErrCorruptFile)
}

func TestOpenRejectsDamagedKDFParams(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "main"+FileExtension)
	require.NoError(t, w.SaveToFile(path, "pw"))

	tests := []struct {
		name   string
		damage func(blob []byte)
	}{
		{"zero parallelism", func(blob []byte) { blob[saltSize+8] = 0 }},
		{"zero iterations", func(blob []byte) { binary.LittleEndian.PutUint32(blob[saltSize+4:], 0) }},
		{"zero memory", func(blob []byte) { binary.LittleEndian.PutUint32(blob[saltSize:], 0) }},
		{"huge memory", func(blob []byte) { binary.LittleEndian.PutUint32(blob[saltSize:], 1<<31) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, err := readWalletFile(path)
			require.NoError(t, err)
			blob := append([]byte(nil), wf.Encrypted...)
			tt.damage(blob)
			wf.Encrypted = blob

			data, err := json.Marshal(wf)
			require.NoError(t, err)
			damaged := filepath.Join(t.TempDir(), "damaged"+FileExtension)
			require.NoError(t, os.WriteFile(damaged, data, 0600))

			require.NotPanics(t, func() {
				_, err = b.Open(damaged, "pw")
			})
			assert.ErrorIs(t, err, ErrCorruptFile)
		})
	}
}

func TestBackupText(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)

	seed, _ := w.MnemonicSeed()
	spend, view := w.PrivateKeys()
	text := w.BackupText()
	assert.Contains(t, text, w.PrimaryAddress())
	assert.Contains(t, text, seed)
	assert.Contains(t, text, spend)
	assert.Contains(t, text, view)

	path := filepath.Join(t.TempDir(), "backup.txt")
	require.NoError(t, w.WriteBackup(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, text, string(data))
}

func TestValidateAddress(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)
	addr := w.PrimaryAddress()

	assert.True(t, ValidateAddress("cirq", addr))
	assert.False(t, ValidateAddress("trtl", addr))
	assert.False(t, ValidateAddress("cirq", addr[:len(addr)-2]))

	// flip one payload character
	flipped := []byte(addr)
	if flipped[5] == 'a' {
		flipped[5] = 'b'
	} else {
		flipped[5] = 'a'
	}
	assert.False(t, ValidateAddress("cirq", string(flipped)))
}

func TestChangePassword(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pw"+FileExtension)
	require.NoError(t, w.SaveToFile(path, "old"))

	assert.ErrorIs(t, b.ChangePassword(path, "nope", "new"), ErrWrongPassword)
	require.NoError(t, b.ChangePassword(path, "old", "new"))

	_, err = b.Open(path, "old")
	assert.ErrorIs(t, err, ErrWrongPassword)
	opened, err := b.Open(path, "new")
	require.NoError(t, err)
	assert.Equal(t, w.PrimaryAddress(), opened.PrimaryAddress())
}

func TestRescanPersists(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)
	w.Rescan(4242)

	path := filepath.Join(t.TempDir(), "r"+FileExtension)
	require.NoError(t, w.SaveToFile(path, ""))
	_, height, err := Peek(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(4242), height)
}

func TestTransactionsPersistAndRescan(t *testing.T) {
	b := testBackend()
	w, err := b.Create()
	require.NoError(t, err)

	assert.True(t, w.AddTransaction(history.Transaction{Hash: "a", Amount: 10, Height: 100}))
	assert.True(t, w.AddTransaction(history.Transaction{Hash: "b", Amount: -3, Height: 200}))
	assert.False(t, w.AddTransaction(history.Transaction{Hash: "a", Amount: 10, Height: 100}))
	require.Len(t, w.Transactions(), 2)
	assert.Equal(t, "b", w.Transactions()[0].Hash)

	path := filepath.Join(t.TempDir(), "tx"+FileExtension)
	require.NoError(t, w.SaveToFile(path, "pw"))
	opened, err := b.Open(path, "pw")
	require.NoError(t, err)
	assert.Equal(t, w.Transactions(), opened.Transactions())

	opened.Rescan(150)
	require.Len(t, opened.Transactions(), 1)
	assert.Equal(t, "a", opened.Transactions()[0].Hash)
}
