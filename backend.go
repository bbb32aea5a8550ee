package main

import (
	"cirquity-wallet-tui/config"
	"cirquity-wallet-tui/wallet"
	"cirquity-wallet-tui/wizard"
)

// backendAdapter exposes *wallet.Backend to the wizard controllers.
type backendAdapter struct {
	b *wallet.Backend
}

func (a backendAdapter) CreateWallet() (wizard.Artifact, error) {
	w, err := a.b.Create()
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (a backendAdapter) ImportFromSeed(scanHeight uint64, seed string) (wizard.Artifact, error) {
	w, err := a.b.FromSeed(scanHeight, seed)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (a backendAdapter) ImportFromKeys(scanHeight uint64, viewKey, spendKey string) (wizard.Artifact, error) {
	w, err := a.b.FromKeys(scanHeight, viewKey, spendKey)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// walletOf returns the concrete wallet a wizard produced.
func walletOf(s wizard.State) *wallet.Wallet {
	w, _ := s.Artifact.(*wallet.Wallet)
	return w
}

// newBackend returns a backend syncing against node.
func newBackend(node config.DaemonNode) *wallet.Backend {
	return wallet.NewBackend(wallet.Daemon{Host: node.Host, Port: node.Port, SSL: node.SSL}, wallet.DefaultParams())
}
