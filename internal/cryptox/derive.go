package cryptox

import "golang.org/x/crypto/argon2"

// Argon2id parameters. Tuned for interactive unlock on client machines.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

func deriveArgon2id(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}
