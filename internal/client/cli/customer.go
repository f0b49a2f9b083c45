package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/wtg/vaultsync/internal/client/models"
	"github.com/wtg/vaultsync/internal/client/services"
)

func syncMarker(synced bool) string {
	if synced {
		return ""
	}
	return " *"
}

// ListCustomers prints the customers visible in the current connectivity
// state. Unsynced records are marked with an asterisk.
func (a *App) ListCustomers(ctx context.Context) error {
	snap, err := a.data.LocalState(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(snap.Customers) == 0 {
		fmt.Println("No customers")
		return nil
	}
	for _, c := range snap.Customers {
		fmt.Printf("%s  %s <%s> v%d%s\n", c.ID, c.Name, c.Email, c.Version, syncMarker(c.Synced))
	}
	return nil
}

func (a *App) promptCustomerInput() (services.CustomerInput, error) {
	var zero services.CustomerInput

	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return zero, err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return zero, err
	}
	company, err := getSimpleText(a.reader, "Enter company (optional)", os.Stdout)
	if err != nil {
		return zero, err
	}
	return services.CustomerInput{Name: name, Email: email, Company: company}, nil
}

// AddCustomer collects customer fields and records the creation locally,
// with an opportunistic remote write when online.
func (a *App) AddCustomer(ctx context.Context) error {
	in, err := a.promptCustomerInput()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	c, err := a.data.CreateCustomer(ctx, in)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Created %s\n", c.ID)
	return nil
}

// EditCustomer prompts for an id and replacement fields.
func (a *App) EditCustomer(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter customer id", os.Stdout)
	if err != nil {
		return err
	}
	in, err := a.promptCustomerInput()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if err := a.data.UpdateCustomer(ctx, id, in); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

// DeleteCustomer tombstones a customer by id.
func (a *App) DeleteCustomer(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter customer id to delete", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.data.DeleteCustomer(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

// ToggleOffline flips the offline availability of a customer. Only customers
// on the offline allowlist (and their credentials) are visible while
// disconnected.
func (a *App) ToggleOffline(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter customer id", os.Stdout)
	if err != nil {
		return err
	}
	answer, err := getSimpleText(a.reader, "Available offline? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	enabled := answer == "y" || answer == "yes"

	if err := a.data.ToggleOffline(ctx, id, enabled); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

// ShowLogs prints the audit log, newest first.
func (a *App) ShowLogs(ctx context.Context) error {
	snap, err := a.data.LocalState(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	for _, entry := range snap.Logs {
		fmt.Printf("%d  %s %s %s  %s\n", entry.Timestamp, entry.EntityType, entry.Action, entry.EntityID, entry.Details)
	}
	return nil
}

// Status reports connectivity, pending operations, and unresolved conflicts.
func (a *App) Status(ctx context.Context) error {
	snap, err := a.data.LocalState(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Mode: %s\n", a.Mode)
	fmt.Printf("Pending operations: %d\n", snap.PendingCount)
	fmt.Printf("Unresolved conflicts: %d\n", len(snap.Conflicts))
	fmt.Printf("Offline customers: %d\n", len(snap.OfflineCustomerIDs))
	return nil
}

func conflictSummary(rec models.ConflictRecord) string {
	switch rec.EntityType {
	case models.EntityCustomer:
		return fmt.Sprintf("%s customer local=%q v%d server=%q v%d",
			rec.ID, rec.Customer.Local.Name, rec.Customer.Local.Version,
			rec.Customer.Server.Name, rec.Customer.Server.Version)
	case models.EntityCredential:
		return fmt.Sprintf("%s credential local=%q v%d server=%q v%d",
			rec.ID, rec.Credential.Local.Title, rec.Credential.Local.Version,
			rec.Credential.Server.Title, rec.Credential.Server.Version)
	default:
		return rec.ID
	}
}
