package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"invoicedesk/internal/models"
	"invoicedesk/internal/store"
)

// LockService guards the application behind an optional password. Only
// a bcrypt hash is ever stored; with no hash set the app is open and
// Verify accepts anything.
type LockService struct {
	Store *store.Store
}

func NewLockService(st *store.Store) *LockService {
	return &LockService{Store: st}
}

// IsLocked reports whether a password is set.
func (s *LockService) IsLocked() (bool, error) {
	hash, err := s.Store.GetSetting(models.SettingAppPasswordHash)
	if err != nil {
		return false, err
	}
	return hash != "", nil
}

// SetPassword stores a new password hash. An empty password removes the
// lock.
func (s *LockService) SetPassword(password string) error {
	if password == "" {
		return s.Store.SetSetting(models.SettingAppPasswordHash, "")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash app password: %w", err)
	}
	return s.Store.SetSetting(models.SettingAppPasswordHash, string(hash))
}

// Verify checks a password attempt against the stored hash. An unlocked
// app accepts any attempt.
func (s *LockService) Verify(password string) (bool, error) {
	hash, err := s.Store.GetSetting(models.SettingAppPasswordHash)
	if err != nil {
		return false, err
	}
	if hash == "" {
		return true, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
