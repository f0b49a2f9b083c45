// Package cli provides the interactive command-line sync client.
//
// It wires configuration, the local encrypted vault, the HTTP API client,
// and an interactive REPL that works online and offline. Typical flow:
// prompt for credentials, unlock the vault with a passphrase-derived key,
// start a background connectivity watcher, and execute user commands.
//
// Key features:
//   - Login (online with offline fallback to the local vault)
//   - Customer and credential CRUD, usable while offline
//   - Explicit sync with conflict listing and resolution
//   - Offline-availability toggling per customer
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
