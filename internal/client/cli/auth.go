package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/wtg/vaultsync/internal/client/services"
	"github.com/wtg/vaultsync/internal/client/vault"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/cryptox"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for a username and passphrase, derives the vault master key,
// and wires the data and sync services against the unlocked store.
//
// The server login is best-effort: if it fails, the vault still unlocks and
// the client continues offline. A wrong passphrase is not detected here; the
// vault load will fall back to an empty store and the server will reject the
// session token. The passphrase bytes are wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	passphrase, err := getPassword("Enter passphrase", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	salt, err := vault.EnsureMasterSalt(ctx, a.db)
	if err != nil {
		return fmt.Errorf("failed to load master salt: %w", err)
	}

	a.masterKey = cryptox.DeriveMasterKey(passphrase, salt)
	a.userName = userName

	store := vault.NewStore(a.db, a.masterKey, a.logger)
	a.data = services.NewDataService(store, a.api, a.probe, a.logger)
	a.sync = services.NewSyncService(store, a.api, a.probe, a.logger)

	if _, err := a.api.Login(ctx, userName, string(passphrase)); err != nil {
		log.Printf("Server login failed (%s), continuing offline", err.Error())
		a.setMode(ModeOffline)
	} else {
		log.Printf("Login successful")
		a.setMode(ModeOnline)
	}
	return nil
}

// Bootstrap creates the first server account and logs in with it.
func (a *App) Bootstrap(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	passphrase, err := getPassword("Enter passphrase", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	if _, err := a.api.Bootstrap(ctx, userName, string(passphrase)); err != nil {
		return err
	}

	fmt.Println("Success!")
	return nil
}
