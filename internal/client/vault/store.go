package vault

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/wtg/vaultsync/internal/client/migrations"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/cryptox"
	"github.com/wtg/vaultsync/internal/logging"
)

// storageKey is the single row under which the encrypted snapshot lives.
const storageKey = "vault_local_db"

// metaSaltKey stores the Argon2 salt for master-key derivation.
const metaSaltKey = "master_salt"

// OpenDB opens the client SQLite database and applies migrations.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// EnsureMasterSalt returns the stored key-derivation salt, generating and
// persisting a fresh one on first run.
func EnsureMasterSalt(ctx context.Context, db *sql.DB) ([]byte, error) {
	var salt []byte
	err := db.QueryRowContext(ctx,
		`SELECT value FROM vault_meta WHERE key = ?`, metaSaltKey).Scan(&salt)
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read master salt: %w", err)
	}

	salt = common.GenerateRandByteArray(16)
	if _, err := db.ExecContext(ctx,
		`INSERT INTO vault_meta (key, value) VALUES (?, ?)`, metaSaltKey, salt); err != nil {
		return nil, fmt.Errorf("failed to store master salt: %w", err)
	}
	return salt, nil
}

// Store is the persistence adapter: it loads and saves the whole vault as a
// single encrypted blob. Every access goes through one mutex so that
// load-mutate-save cycles never interleave.
type Store struct {
	mu        sync.Mutex
	db        *sql.DB
	masterKey []byte
	log       logging.Logger
}

// NewStore binds a store to an opened database and a derived master key.
func NewStore(db *sql.DB, masterKey []byte, log logging.Logger) *Store {
	return &Store{db: db, masterKey: masterKey, log: log}
}

// Update runs fn against the current vault under the store lock and
// persists the result when fn succeeds.
func (s *Store) Update(ctx context.Context, fn func(v *Vault) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.load(ctx)
	if err := fn(v); err != nil {
		return err
	}
	return s.save(ctx, v)
}

// View runs fn against the current vault under the store lock without
// persisting anything. fn must not retain the vault past the call.
func (s *Store) View(ctx context.Context, fn func(v *Vault) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.load(ctx))
}

// load decrypts and decodes the snapshot. A missing, corrupt or
// undecryptable blob yields an empty vault rather than an error: the worst
// outcome of damaged local state is a fresh start.
func (s *Store) load(ctx context.Context) *Vault {
	var ciphertext, nonce []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT ciphertext, nonce FROM vault_blob WHERE key = ?`, storageKey).
		Scan(&ciphertext, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return New()
	}
	if err != nil {
		s.log.Warn(ctx, "failed to read vault blob, starting empty", "error", err.Error())
		return New()
	}

	plaintext, err := cryptox.DecryptBlob(ciphertext, nonce, s.masterKey)
	if err != nil {
		s.log.Warn(ctx, "failed to decrypt vault blob, starting empty", "error", err.Error())
		return New()
	}

	v := New()
	if err := json.Unmarshal(plaintext, v); err != nil {
		s.log.Warn(ctx, "failed to decode vault blob, starting empty", "error", err.Error())
		return New()
	}
	return v
}

// save encodes, encrypts and upserts the snapshot under the storage key.
func (s *Store) save(ctx context.Context, v *Vault) error {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode vault: %w", err)
	}
	ciphertext, nonce, err := cryptox.EncryptBlob(plaintext, s.masterKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt vault: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO vault_blob (key, ciphertext, nonce)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			ciphertext = excluded.ciphertext,
			nonce = excluded.nonce`,
		storageKey, ciphertext, nonce)
	if err != nil {
		return fmt.Errorf("failed to save vault: %w", err)
	}
	return nil
}
