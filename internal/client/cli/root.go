package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive session: login first, then the command loop
// with a background connectivity watcher.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to the VaultSync CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	_ = a.Login(ctx)

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.ProbeTimeout)
	}()

	runREPL(ctx, a, a.getStatus, scanner)
}
