package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/wtg/vaultsync/internal/client/services"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/cryptox"
)

// ListCredentials prints the credentials visible in the current connectivity
// state. Secrets stay encrypted; only titles and usernames are shown.
func (a *App) ListCredentials(ctx context.Context) error {
	snap, err := a.data.LocalState(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(snap.Credentials) == 0 {
		fmt.Println("No credentials")
		return nil
	}
	for _, c := range snap.Credentials {
		fmt.Printf("%s  %s (%s) customer=%s v%d%s\n", c.ID, c.Title, c.Username, c.CustomerID, c.Version, syncMarker(c.Synced))
	}
	return nil
}

func (a *App) promptCredentialInput() (services.CredentialInput, error) {
	var zero services.CredentialInput

	customerID, err := getSimpleText(a.reader, "Enter customer id", os.Stdout)
	if err != nil {
		return zero, err
	}
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return zero, err
	}
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return zero, err
	}
	secret, err := getPassword("Enter secret", os.Stdout)
	if err != nil {
		return zero, err
	}
	defer common.WipeByteArray(secret)

	url, err := getSimpleText(a.reader, "Enter URL (optional)", os.Stdout)
	if err != nil {
		return zero, err
	}
	notes, err := getSimpleText(a.reader, "Enter notes (optional)", os.Stdout)
	if err != nil {
		return zero, err
	}

	// The secret is encrypted here; the store and the server only ever see
	// ciphertext.
	cipherB64, ivB64, err := cryptox.EncryptSecret(string(secret), a.masterKey)
	if err != nil {
		return zero, err
	}

	return services.CredentialInput{
		CustomerID:      customerID,
		Title:           title,
		Username:        username,
		EncryptedSecret: cipherB64,
		IV:              ivB64,
		URL:             url,
		Notes:           notes,
	}, nil
}

// AddCredential collects credential fields, encrypts the secret with the
// vault master key, and records the creation locally.
func (a *App) AddCredential(ctx context.Context) error {
	in, err := a.promptCredentialInput()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	c, err := a.data.CreateCredential(ctx, in)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Created %s\n", c.ID)
	return nil
}

// EditCredential collects replacement fields (the secret is re-entered and
// re-encrypted) and records the update locally.
func (a *App) EditCredential(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter credential id to edit", os.Stdout)
	if err != nil {
		return err
	}

	in, err := a.promptCredentialInput()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.data.UpdateCredential(ctx, id, in); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

// ShowCredential displays a single credential with its decrypted secret.
// If decryption fails the secret is shown masked instead of aborting.
func (a *App) ShowCredential(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter credential id", os.Stdout)
	if err != nil {
		return err
	}

	snap, err := a.data.LocalState(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	for _, c := range snap.Credentials {
		if c.ID != id {
			continue
		}
		secret, err := cryptox.DecryptSecret(c.EncryptedSecret, c.IV, a.masterKey)
		if err != nil {
			secret = cryptox.MaskedSecret
		}
		fmt.Printf("Title: %s\n", c.Title)
		fmt.Printf("Username: %s\n", c.Username)
		fmt.Printf("Secret: %s\n", secret)
		if c.URL != "" {
			fmt.Printf("URL: %s\n", c.URL)
		}
		if c.Notes != "" {
			fmt.Printf("Notes: %s\n", c.Notes)
		}
		return nil
	}

	fmt.Println("Credential not found")
	return nil
}

// DeleteCredential tombstones a credential by id.
func (a *App) DeleteCredential(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter credential id to delete", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.data.DeleteCredential(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}
