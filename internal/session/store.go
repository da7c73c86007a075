// Package session owns the storefront's only locally-mutable state: the
// active user identity and their installed-app set. The record is persisted
// as a single serialized row under a fixed key, mirroring the durable-storage
// contract of the browser client it replaces.
package session

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/airwuu/appstore/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordKey is the fixed key the serialized session user is stored under.
const RecordKey = "appstore_user"

// Store holds the active user and persists it across restarts. A nil or
// failing database degrades the store to in-memory-only for the process
// lifetime; it never takes the storefront down.
type Store struct {
	mu   sync.Mutex
	db   *gorm.DB
	user *models.User
}

// NewStore creates a Store and hydrates it from durable storage. A corrupt
// record is purged and treated as "no session", never half-applied.
func NewStore(db *gorm.DB) *Store {
	s := &Store{db: db}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	if s.db == nil {
		return
	}

	var rec models.SessionRecord
	err := s.db.Where("record_key = ?", RecordKey).First(&rec).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("session: hydrate failed, starting logged out: %v", err)
		}
		return
	}

	var user models.User
	if err := json.Unmarshal(rec.RecordValue, &user); err != nil {
		log.Printf("session: corrupt record purged: %v", err)
		if derr := s.db.Where("record_key = ?", RecordKey).Delete(&models.SessionRecord{}).Error; derr != nil {
			log.Printf("session: failed to purge corrupt record: %v", derr)
		}
		return
	}

	user.AppIDs = dedupe(user.AppIDs)
	s.user = &user
}

// Current returns a copy of the logged-in user, or ok=false when logged out.
func (s *Store) Current() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return models.User{}, false
	}
	return snapshot(s.user), true
}

// Login replaces the current identity and persists it. Install state is now
// keyed to the new identity.
func (s *Store) Login(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.AppIDs = dedupe(user.AppIDs)
	s.user = &user
	s.persist()
}

// Logout clears the identity and removes the persisted record.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if s.db == nil {
		return
	}
	if err := s.db.Where("record_key = ?", RecordKey).Delete(&models.SessionRecord{}).Error; err != nil {
		log.Printf("session: failed to remove record on logout: %v", err)
	}
}

// InstallApp adds appID to the current user's installed set and re-persists.
// A no-op when logged out or when the app is already installed.
func (s *Store) InstallApp(appID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return
	}
	for _, id := range s.user.AppIDs {
		if id == appID {
			return
		}
	}
	s.user.AppIDs = append(s.user.AppIDs, appID)
	s.persist()
}

// UninstallApp removes appID from the installed set and re-persists.
// A no-op when logged out or when the app is not installed.
func (s *Store) UninstallApp(appID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return
	}
	kept := s.user.AppIDs[:0]
	removed := false
	for _, id := range s.user.AppIDs {
		if id == appID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		return
	}
	s.user.AppIDs = kept
	s.persist()
}

// persist writes the full user record. Callers hold s.mu.
func (s *Store) persist() {
	if s.db == nil || s.user == nil {
		return
	}

	value, err := json.Marshal(s.user)
	if err != nil {
		log.Printf("session: failed to serialize user, in-memory only: %v", err)
		return
	}

	rec := models.SessionRecord{RecordKey: RecordKey, RecordValue: value}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		log.Printf("session: failed to persist record, in-memory only: %v", err)
	}
}

func snapshot(u *models.User) models.User {
	out := *u
	out.AppIDs = append([]int64(nil), u.AppIDs...)
	return out
}

func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return ids
	}
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
