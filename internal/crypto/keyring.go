package crypto

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "invoicer"
	KeyName     = "db-encryption-key"

	// EnvKey holds the database key where no system keyring is used
	EnvKey = "INVOICER_DB_KEY"
)

// NewKeyring returns the best available keyring implementation. envFile is
// where platforms without a keyring persist the key.
func NewKeyring(envFile string) Keyring {
	return newPlatformKeyring(envFile)
}
