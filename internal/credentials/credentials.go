// Package credentials stores and retrieves secrets (the LLM API key and the
// exchange API key/secret pair) in the operating system's secure credential
// store, and copies them into process environment variables at startup so
// the existing config loader picks them up transparently.
//
// Grounded on original_source/src/credentials.rs: a fixed service name, a
// small closed set of named keys, load/save/is_set operations, and an
// env-population step run once before configuration is read. The
// macOS-Keychain-only `keyring` crate is replaced by `99designs/keyring`,
// which backs onto the Keychain, Secret Service (dbus), Windows Credential
// Manager, or an encrypted file, picking whichever is available on the
// host — the same "one store, several backends" shape the original's crate
// provides for a single platform.
package credentials

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

// service is the keyring service name under which every credential is
// stored.
const service = "krakenmate"

// Key identifies one of the credentials this package manages.
type Key int

const (
	LLMAPIKey Key = iota
	ExchangeAPIKey
	ExchangeSecret
)

// keyringID returns the keyring entry identifier for key.
func (k Key) keyringID() string {
	switch k {
	case LLMAPIKey:
		return "llm_key"
	case ExchangeAPIKey:
		return "exchange_key"
	case ExchangeSecret:
		return "exchange_secret"
	default:
		return "unknown"
	}
}

// envVar returns the environment variable name this credential populates.
func (k Key) envVar() string {
	switch k {
	case LLMAPIKey:
		return "KRAKENMATE_LLM_API_KEY"
	case ExchangeAPIKey:
		return "KRAKENMATE_EXCHANGE_API_KEY"
	case ExchangeSecret:
		return "KRAKENMATE_EXCHANGE_SECRET"
	default:
		return ""
	}
}

// Label returns a human-readable name for the operator's credential editor.
func (k Key) Label() string {
	switch k {
	case LLMAPIKey:
		return "LLM API Key"
	case ExchangeAPIKey:
		return "Exchange API Key"
	case ExchangeSecret:
		return "Exchange API Secret"
	default:
		return "Unknown"
	}
}

// All lists every credential key in display order.
var All = []Key{LLMAPIKey, ExchangeAPIKey, ExchangeSecret}

// Store wraps the underlying keyring, opened once and reused for every
// load/save/is_set call.
type Store struct {
	kr keyring.Keyring
}

// Open opens the OS credential store under the fixed service name.
func Open() (*Store, error) {
	kr, err := keyring.Open(keyring.Config{
		ServiceName: service,
	})
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	return &Store{kr: kr}, nil
}

// Load returns the stored value for key, or ok=false if nothing is stored.
func (s *Store) Load(key Key) (value string, ok bool) {
	item, err := s.kr.Get(key.keyringID())
	if err != nil {
		if !errors.Is(err, keyring.ErrKeyNotFound) {
			return "", false
		}
		return "", false
	}
	return string(item.Data), true
}

// Save writes value for key into the credential store.
func (s *Store) Save(key Key, value string) error {
	err := s.kr.Set(keyring.Item{
		Key:  key.keyringID(),
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("save credential %s: %w", key.keyringID(), err)
	}
	return nil
}

// IsSet reports whether key has a stored value.
func (s *Store) IsSet(key Key) bool {
	_, ok := s.Load(key)
	return ok
}

// PopulateEnv copies every stored credential into its environment variable,
// for any variable not already set in the process environment. Call this
// once at startup before config.Load.
func (s *Store) PopulateEnv() {
	for _, key := range All {
		envVar := key.envVar()
		if envVar == "" {
			continue
		}
		if _, set := os.LookupEnv(envVar); set {
			continue
		}
		if value, ok := s.Load(key); ok {
			os.Setenv(envVar, value)
		}
	}
}
