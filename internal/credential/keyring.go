package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "portfolio-manager"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/portfolio/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("portfolio-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves the mailbox password stored under the given address.
func Get(address string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(address)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", address, err)
	}

	return string(item.Data), nil
}

// Set stores a mailbox password under the given address.
func Set(address string, password string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  address,
		Data: []byte(password),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", address, err)
	}

	return nil
}

// Delete removes the stored password for the given address.
func Delete(address string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(address)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", address, err)
	}

	return nil
}
