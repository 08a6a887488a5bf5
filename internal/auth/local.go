package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AccountsFile is the local account store file name.
const AccountsFile = "accounts.json"

// LocalStore is a file-backed account store used when no remote identity
// provider is configured. Passwords are stored as bcrypt hashes.
type LocalStore struct {
	path string
}

// localAccount is one stored account, keyed by lowercased email.
type localAccount struct {
	UserID       string `json:"user_id"`
	DisplayName  string `json:"display_name,omitempty"`
	PasswordHash string `json:"password_hash"`
}

// NewLocalStore creates a store rooted at dir (the global state directory).
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{path: filepath.Join(dir, AccountsFile)}
}

// SignUp creates an account and returns a fresh session.
func (s *LocalStore) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	key := strings.ToLower(email)

	accounts, err := s.load()
	if err != nil {
		return nil, err
	}
	if _, exists := accounts[key]; exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	accounts[key] = localAccount{
		UserID:       newToken(8),
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}
	if err := s.save(accounts); err != nil {
		return nil, err
	}

	return s.newSession(key, accounts[key]), nil
}

// LogIn verifies the password against the stored hash.
func (s *LocalStore) LogIn(ctx context.Context, email, password string) (*Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	key := strings.ToLower(email)

	accounts, err := s.load()
	if err != nil {
		return nil, err
	}
	account, exists := accounts[key]
	if !exists {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verifying password: %w", err)
	}

	return s.newSession(key, account), nil
}

// newSession mints a session for a verified account.
func (s *LocalStore) newSession(email string, account localAccount) *Session {
	return &Session{
		UserID:      account.UserID,
		Email:       email,
		DisplayName: account.DisplayName,
		Token:       newToken(16),
		ExpiresAt:   time.Now().Add(DefaultSessionTTL),
	}
}

// load reads the account file; a missing file is an empty store.
func (s *LocalStore) load() (map[string]localAccount, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]localAccount), nil
		}
		return nil, fmt.Errorf("reading accounts: %w", err)
	}

	var accounts map[string]localAccount
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parsing accounts: %w", err)
	}
	if accounts == nil {
		accounts = make(map[string]localAccount)
	}
	return accounts, nil
}

// save writes the account file with owner-only permissions.
func (s *LocalStore) save(accounts map[string]localAccount) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding accounts: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}

// newToken returns n random bytes hex-encoded.
func newToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for session minting.
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	return hex.EncodeToString(buf)
}
