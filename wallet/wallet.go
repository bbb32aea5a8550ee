// Package wallet implements the wallet backend used by the shell: creating
// a wallet from a fresh mnemonic, restoring one from a mnemonic or from its
// private keys, and reading and writing encrypted wallet files.
package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"cirquity-wallet-tui/history"
)

// FileExtension is used for wallet files.
const FileExtension = ".wallet"

const fileVersion = 1

// Daemon is the node a wallet syncs against.
type Daemon struct {
	Host string
	Port int
	SSL  bool
}

// String returns host:port.
func (d Daemon) String() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// Params are the coin constants a backend works with.
type Params struct {
	Coin          string
	AddressPrefix string
	KDF           KDFParams
}

// DefaultParams returns the Cirquity constants.
func DefaultParams() Params {
	return Params{
		Coin:          "Cirquity",
		AddressPrefix: "cirq",
		KDF:           DefaultKDFParams(),
	}
}

// Wallet is an open wallet session.
type Wallet struct {
	params     Params
	daemon     Daemon
	mnemonic   string
	keys       KeyPair
	address    string
	scanHeight uint64
	createdAt  time.Time
	txs        []history.Transaction
}

// PrimaryAddress returns the wallet's public address.
func (w *Wallet) PrimaryAddress() string { return w.address }

// MnemonicSeed returns the 24-word seed. Wallets restored from keys have none.
func (w *Wallet) MnemonicSeed() (string, error) {
	if w.mnemonic == "" {
		return "", newError(ErrNoMnemonic,
			"This wallet was restored from private keys and has no mnemonic seed.", nil)
	}
	return w.mnemonic, nil
}

// PrivateKeys returns the spend and view keys as hex.
func (w *Wallet) PrivateKeys() (spend, view string) {
	return w.keys.SpendHex(), w.keys.ViewHex()
}

// ScanHeight is the block height history scanning starts from.
func (w *Wallet) ScanHeight() uint64 { return w.scanHeight }

// Daemon returns the node the wallet was opened against.
func (w *Wallet) Daemon() Daemon { return w.daemon }

// CreatedAt is when the wallet was first generated or restored.
func (w *Wallet) CreatedAt() time.Time { return w.createdAt }

// walletFile is the on-disk envelope. Only the address and scan height are
// readable without the password.
type walletFile struct {
	Version    int           `json:"version"`
	Coin       string        `json:"coin"`
	Address    string        `json:"address"`
	ScanHeight uint64        `json:"scan_height"`
	CreatedAt  time.Time     `json:"created_at"`
	Encrypted  hexutil.Bytes `json:"encrypted"`
}

type secrets struct {
	Mnemonic     string                `json:"mnemonic,omitempty"`
	SpendKey     string                `json:"spend_key"`
	ViewKey      string                `json:"view_key"`
	Transactions []history.Transaction `json:"transactions,omitempty"`
}

// SaveToFile encrypts the wallet with password and writes it to path. The
// file is written to a temporary name first and renamed into place.
func (w *Wallet) SaveToFile(path, password string) error {
	plain, err := json.Marshal(secrets{
		Mnemonic:     w.mnemonic,
		SpendKey:     w.keys.SpendHex(),
		ViewKey:      w.keys.ViewHex(),
		Transactions: w.txs,
	})
	if err != nil {
		return fmt.Errorf("encode secrets: %w", err)
	}
	defer clear(plain)

	blob, err := encrypt(plain, []byte(password), w.params.KDF)
	if err != nil {
		return fmt.Errorf("encrypt wallet: %w", err)
	}

	data, err := json.MarshalIndent(walletFile{
		Version:    fileVersion,
		Coin:       w.params.Coin,
		Address:    w.address,
		ScanHeight: w.scanHeight,
		CreatedAt:  w.createdAt,
		Encrypted:  blob,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode wallet file: %w", err)
	}

	return writeFileAtomic(path, data, 0600)
}

// BackupText is the plain-text backup offered on the backup page.
func (w *Wallet) BackupText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s wallet backup\n\n", w.params.Coin)
	fmt.Fprintf(&b, "Address:\n%s\n\n", w.address)
	if w.mnemonic != "" {
		fmt.Fprintf(&b, "Mnemonic seed:\n%s\n\n", w.mnemonic)
	}
	spend, view := w.PrivateKeys()
	fmt.Fprintf(&b, "Private spend key:\n%s\n\n", spend)
	fmt.Fprintf(&b, "Private view key:\n%s\n\n", view)
	fmt.Fprintf(&b, "Scan height: %d\n", w.scanHeight)
	return b.String()
}

// WriteBackup writes BackupText to path, readable by the owner only.
func (w *Wallet) WriteBackup(path string) error {
	return writeFileAtomic(path, []byte(w.BackupText()), 0600)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// Peek reads the unencrypted part of a wallet file: its address and scan
// height. The unlock page shows them before asking for the password.
func Peek(path string) (address string, scanHeight uint64, err error) {
	wf, err := readWalletFile(path)
	if err != nil {
		return "", 0, err
	}
	return wf.Address, wf.ScanHeight, nil
}

func readWalletFile(path string) (walletFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return walletFile{}, fmt.Errorf("read wallet: %w", err)
	}
	var wf walletFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return walletFile{}, newError(ErrCorruptFile, "The file is not a wallet file.", err)
	}
	if wf.Version != fileVersion {
		return walletFile{}, newError(ErrCorruptFile,
			fmt.Sprintf("Unsupported wallet file version %d.", wf.Version), nil)
	}
	return wf, nil
}

// Backend creates, restores and opens wallets for one coin and daemon.
type Backend struct {
	daemon Daemon
	params Params
	now    func() time.Time
}

// NewBackend returns a backend for the given daemon and coin parameters.
func NewBackend(d Daemon, p Params) *Backend {
	if p.KDF == (KDFParams{}) {
		p.KDF = DefaultKDFParams()
	}
	return &Backend{daemon: d, params: p, now: time.Now}
}

// Params returns the backend's coin parameters.
func (b *Backend) Params() Params { return b.params }

// Create generates a new wallet from a fresh mnemonic. New wallets have no
// history, so the scan height is left at zero.
func (b *Backend) Create() (*Wallet, error) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return nil, err
	}
	return b.FromSeed(0, mnemonic)
}

// FromSeed restores a wallet from its mnemonic.
func (b *Backend) FromSeed(scanHeight uint64, mnemonic string) (*Wallet, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	seed, err := seedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	defer clear(seed)

	keys, err := keysFromSeed(seed)
	if err != nil {
		return nil, newError(ErrInvalidMnemonic, "Keys could not be derived from this seed.", err)
	}
	return b.newWallet(mnemonic, keys, scanHeight), nil
}

// FromKeys restores a wallet from its private view and spend keys.
func (b *Backend) FromKeys(scanHeight uint64, viewKey, spendKey string) (*Wallet, error) {
	spend, err := ParsePrivateKey("spend", spendKey)
	if err != nil {
		return nil, err
	}
	view, err := ParsePrivateKey("view", viewKey)
	if err != nil {
		return nil, err
	}
	return b.newWallet("", KeyPair{Spend: spend, View: view}, scanHeight), nil
}

// Open decrypts the wallet file at path.
func (b *Backend) Open(path, password string) (*Wallet, error) {
	wf, err := readWalletFile(path)
	if err != nil {
		return nil, err
	}
	plain, err := decrypt(wf.Encrypted, []byte(password))
	if err != nil {
		return nil, err
	}
	defer clear(plain)

	var sec secrets
	if err := json.Unmarshal(plain, &sec); err != nil {
		return nil, newError(ErrCorruptFile, "The wallet contents could not be read.", err)
	}

	spend, err := crypto.HexToECDSA(sec.SpendKey)
	if err != nil {
		return nil, newError(ErrCorruptFile, "The wallet's spend key is damaged.", err)
	}
	view, err := crypto.HexToECDSA(sec.ViewKey)
	if err != nil {
		return nil, newError(ErrCorruptFile, "The wallet's view key is damaged.", err)
	}

	w := b.newWallet(sec.Mnemonic, KeyPair{Spend: spend, View: view}, wf.ScanHeight)
	w.createdAt = wf.CreatedAt
	w.txs = sec.Transactions
	if w.address != wf.Address {
		return nil, newError(ErrCorruptFile, "The wallet's keys do not match its address.", nil)
	}
	return w, nil
}

func (b *Backend) newWallet(mnemonic string, keys KeyPair, scanHeight uint64) *Wallet {
	return &Wallet{
		params:     b.params,
		daemon:     b.daemon,
		mnemonic:   mnemonic,
		keys:       keys,
		address:    DeriveAddress(b.params.AddressPrefix, keys),
		scanHeight: scanHeight,
		createdAt:  b.now().UTC(),
	}
}

// ChangePassword re-encrypts the wallet at path under a new password.
func (b *Backend) ChangePassword(path, oldPassword, newPassword string) error {
	w, err := b.Open(path, oldPassword)
	if err != nil {
		return err
	}
	return w.SaveToFile(path, newPassword)
}

// Rescan moves the scan height and forgets transactions from that height
// on. The next save persists it.
func (w *Wallet) Rescan(height uint64) {
	w.scanHeight = height
	kept := w.txs[:0]
	for _, tx := range w.txs {
		if tx.Confirmed() && tx.Height < height {
			kept = append(kept, tx)
		}
	}
	w.txs = kept
}

// Transactions returns the history, newest first.
func (w *Wallet) Transactions() []history.Transaction {
	return append([]history.Transaction(nil), w.txs...)
}

// AddTransaction records tx at the front of the history. It reports false
// if a transaction with the same hash is already known.
func (w *Wallet) AddTransaction(tx history.Transaction) bool {
	for _, t := range w.txs {
		if t.Hash == tx.Hash {
			return false
		}
	}
	w.txs = append([]history.Transaction{tx}, w.txs...)
	return true
}
