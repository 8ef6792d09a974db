// Package account manages user identity: registration, credential
// verification and login sessions.
package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/mohammeder55/CS50-finance/internal/domain"
	"github.com/mohammeder55/CS50-finance/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Store persists accounts and sessions.
type Store struct {
	db           *gorm.DB
	bcryptCost   int
	startingCash int64
}

// New creates a Store. startingCash (cents) is granted to every new
// account at registration.
func New(db *gorm.DB, bcryptCost int, startingCash int64) *Store {
	if bcryptCost <= 0 {
		bcryptCost = 12
	}
	return &Store{db: db, bcryptCost: bcryptCost, startingCash: startingCash}
}

// Create registers a new account with the configured starting cash.
// The case-insensitive pre-check is an optimization only; the unique
// index on username is the authoritative guard, so two concurrent
// registrations of the same name yield exactly one success.
func (s *Store) Create(username, password string) (*models.Account, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: empty username or password", domain.ErrInvalidCredentials)
	}

	var count int64
	if err := s.db.Model(&models.Account{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := models.Account{
		Username:     username,
		PasswordHash: string(hash),
		CashCents:    s.startingCash,
	}
	if err := s.db.Create(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &acct, nil
}

// Verify checks a username/password pair. Unknown usernames and wrong
// passwords both map to ErrInvalidCredentials so callers cannot
// distinguish them.
func (s *Store) Verify(username, password string) (*models.Account, error) {
	var acct models.Account
	err := s.db.Where("LOWER(username) = LOWER(?)", username).First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return &acct, nil
}

// RecordLogin stamps the last successful login on the account.
func (s *Store) RecordLogin(accountID uint, ip string) error {
	now := time.Now()
	return s.db.Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"last_login_at": &now,
			"last_login_ip": ip,
		}).Error
}

// OpenSession creates a server-side session row and returns it. The
// session ID goes into the JWT so logout can revoke the token.
func (s *Store) OpenSession(accountID uint, ttl time.Duration) (*models.Session, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	sess := models.Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

// RevokeSession marks a session revoked. Revoking an unknown session is
// not an error.
func (s *Store) RevokeSession(id string) error {
	return s.db.Model(&models.Session{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

// SessionValid reports whether the session exists, is unexpired and has
// not been revoked.
func (s *Store) SessionValid(id string) (bool, error) {
	var sess models.Session
	err := s.db.First(&sess, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load session: %w", err)
	}
	return !sess.Revoked && time.Now().Before(sess.ExpiresAt), nil
}
