package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Sync runs an explicit push/pull reconciliation pass and reports the
// resulting pending and conflict counts.
func (a *App) Sync(ctx context.Context) error {
	res, err := a.sync.SyncNow(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Sync finished: %d pending, %d conflicts\n", res.PendingCount, len(res.Conflicts))
	return nil
}

// Conflicts lists the unresolved conflicts with both copies summarized.
func (a *App) Conflicts(ctx context.Context) error {
	snap, err := a.data.LocalState(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(snap.Conflicts) == 0 {
		fmt.Println("No conflicts")
		return nil
	}
	for _, rec := range snap.Conflicts {
		fmt.Println(conflictSummary(rec))
	}
	return nil
}

// Resolve prompts for a conflict id and a strategy, then applies it.
// "local" re-pushes the local copy over the server's; "server" adopts the
// server copy and discards the local edit.
func (a *App) Resolve(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter conflict record id", os.Stdout)
	if err != nil {
		return err
	}
	strategy, err := getSimpleText(a.reader, "Keep which copy? (local/server)", os.Stdout)
	if err != nil {
		return err
	}

	switch strategy {
	case "local":
		err = a.sync.ResolvePushLocal(ctx, id)
	case "server":
		err = a.sync.ResolveUseServer(ctx, id)
	default:
		fmt.Println("Unknown strategy:", strategy)
		return nil
	}
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Resolved")
	return nil
}
