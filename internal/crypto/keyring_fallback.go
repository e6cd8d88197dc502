//go:build !darwin

package crypto

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// fallbackKeyring reads INVOICER_DB_KEY from the environment and persists it
// to a 0600 .env file in the config directory
type fallbackKeyring struct {
	envFile string
}

func newPlatformKeyring(envFile string) Keyring {
	return &fallbackKeyring{envFile: envFile}
}

// GetKey retrieves the encryption key from the environment or the env file
func (k *fallbackKeyring) GetKey() (string, error) {
	if key := os.Getenv(EnvKey); key != "" {
		return key, nil
	}

	values, err := k.read()
	if err != nil {
		return "", err
	}
	if key := values[EnvKey]; key != "" {
		return key, nil
	}

	return "", fmt.Errorf("%s is not set and %s holds no key", EnvKey, k.envFile)
}

// SetKey writes the key to the env file, keeping any other entries
func (k *fallbackKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if k.envFile == "" {
		return fmt.Errorf("keyring not available on this platform: please set %s", EnvKey)
	}

	values, err := k.read()
	if err != nil {
		return err
	}
	values[EnvKey] = password
	return k.write(values)
}

// DeleteKey removes the key from the env file
func (k *fallbackKeyring) DeleteKey() error {
	values, err := k.read()
	if err != nil {
		return err
	}
	if _, ok := values[EnvKey]; !ok {
		return fmt.Errorf("encryption key not found in %s", k.envFile)
	}
	delete(values, EnvKey)
	return k.write(values)
}

// IsAvailable reports whether a key can be read
func (k *fallbackKeyring) IsAvailable() bool {
	_, err := k.GetKey()
	return err == nil
}

func (k *fallbackKeyring) read() (map[string]string, error) {
	if k.envFile == "" {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(k.envFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", k.envFile, err)
	}
	return values, nil
}

func (k *fallbackKeyring) write(values map[string]string) error {
	content, err := godotenv.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode key file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(k.envFile), 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(k.envFile, []byte(content+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to store key in %s: %w", k.envFile, err)
	}
	return nil
}
