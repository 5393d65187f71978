package wallet

import (
	"crypto/rand"
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

// KeyfilePassphraseEnv environment variable holding the keyfile passphrase.
const KeyfilePassphraseEnv = "WHALEHUB_KEYFILE_PASSPHRASE"

const (
	keyfileVersion = 1
	scryptN        = 1 << 15
	scryptR        = 8
	scryptP        = 1
	saltSize       = 16
	nonceSize      = 24
	keySize        = 32
)

var errBadPassphrase = errors.New("wrong keyfile passphrase or corrupted keyfile")

type keyfile struct {
	Version    int    `json:"version"`
	Address    string `json:"address"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// PassphraseFunc supplies the keyfile passphrase.
type PassphraseFunc func() (string, error)

// EncryptSeed seals seed with a key derived from passphrase.
func EncryptSeed(seed, passphrase string) ([]byte, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, errors.Wrap(err, "invalid secret seed")
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, errors.Wrap(err, "failed to generate nonce")
	}
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(keyfile{
		Version:    keyfileVersion,
		Address:    kp.Address(),
		Salt:       salt,
		Nonce:      nonce[:],
		Ciphertext: secretbox.Seal(nil, []byte(kp.Seed()), &nonce, key),
	}, "", "  ")
}

// DecryptSeed opens a keyfile produced by EncryptSeed.
func DecryptSeed(data []byte, passphrase string) (*keypair.Full, error) {
	var kf keyfile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, errors.Wrap(err, "failed to parse keyfile")
	}
	if kf.Version != keyfileVersion {
		return nil, errors.Errorf("unsupported keyfile version %d", kf.Version)
	}
	if len(kf.Nonce) != nonceSize {
		return nil, errBadPassphrase
	}

	key, err := deriveKey(passphrase, kf.Salt)
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], kf.Nonce)

	seed, ok := secretbox.Open(nil, kf.Ciphertext, &nonce, key)
	if !ok {
		return nil, errBadPassphrase
	}
	kp, err := keypair.ParseFull(string(seed))
	if err != nil {
		return nil, errors.Wrap(err, "keyfile holds an invalid seed")
	}
	if kf.Address != "" && kf.Address != kp.Address() {
		return nil, errors.New("keyfile address does not match its seed")
	}
	return kp, nil
}

// WriteKeyfile encrypts seed into a new file at path.
func WriteKeyfile(path, seed, passphrase string) error {
	data, err := EncryptSeed(seed, passphrase)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0o600), "failed to write keyfile")
}

// KeyfileFactory returns the factory of the keyfile wallet.
func KeyfileFactory(path string, passphrase PassphraseFunc) Factory {
	return func() (Wallet, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrNotConnected, "read keyfile: %v", err)
		}
		pass, err := passphrase()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil, domain.ErrUserCancelled
			}
			return nil, errors.Wrap(err, "failed to get keyfile passphrase")
		}
		kp, err := DecryptSeed(data, pass)
		if err != nil {
			return nil, errors.Wrap(domain.ErrNotConnected, err.Error())
		}
		return &KeypairWallet{id: domain.WalletKeyfile, kp: kp}, nil
	}
}

// PassphraseFromEnv reads the passphrase from the environment and falls back to a prompt.
func PassphraseFromEnv() (string, error) {
	if pass := os.Getenv(KeyfilePassphraseEnv); pass != "" {
		return pass, nil
	}
	return PromptPassphrase()
}

// PromptPassphrase asks for the keyfile passphrase on the terminal.
func PromptPassphrase() (string, error) {
	var pass string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Keyfile passphrase").
				EchoMode(huh.EchoModePassword).
				Value(&pass),
		),
	).Run()
	return pass, err
}

func deriveKey(passphrase string, salt []byte) (*[keySize]byte, error) {
	derived, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}
	var key [keySize]byte
	copy(key[:], derived)
	return &key, nil
}
