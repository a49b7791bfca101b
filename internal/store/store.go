// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/dobrohub/dobrohub/internal/metrics"
	"github.com/dobrohub/dobrohub/internal/models"
)

// Collection names one of the two persisted aggregates.
type Collection string

const (
	CollectionUsers    Collection = "users"
	CollectionProjects Collection = "projects"
)

// Config holds store construction parameters.
type Config struct {
	UsersPath    string
	ProjectsPath string

	// CacheTTL is the staleness ceiling for cached snapshots. It is a
	// ceiling, not a freshness guarantee: writers may race ahead of a
	// reader that has not hit the bound yet.
	CacheTTL time.Duration
}

// cacheEntry is one cached collection snapshot.
type cacheEntry struct {
	snapshot any
	loadedAt time.Time
}

func (e *cacheEntry) fresh(now time.Time, ttl time.Duration) bool {
	return e.snapshot != nil && now.Sub(e.loadedAt) < ttl
}

// Store loads and persists the users and projects collections. It embeds
// the cached reader: Users and Projects serve bounded-staleness snapshots,
// every successful save refreshes the cache, and Invalidate forces the next
// read to hit the backing file.
type Store struct {
	cfg    Config
	logger zerolog.Logger

	mu       sync.Mutex
	users    cacheEntry
	projects cacheEntry

	now func() time.Time
}

// New creates a Store. It does not touch the backing files; the first read
// self-heals a missing file into an empty default.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, logger zerolog.Logger) *Store {
	return &Store{
		cfg:    cfg,
		logger: logger.With().Str("component", "store").Logger(),
		now:    time.Now,
	}
}

// Users returns the users collection, served from cache while the snapshot
// is younger than the staleness ceiling. The returned map is shared and
// must be treated as read-only.
func (s *Store) Users() (models.Users, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.users.fresh(s.now(), s.cfg.CacheTTL) {
		metrics.CacheHits.WithLabelValues(string(CollectionUsers)).Inc()
		return s.users.snapshot.(models.Users), nil
	}
	metrics.CacheMisses.WithLabelValues(string(CollectionUsers)).Inc()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	s.users = cacheEntry{snapshot: users, loadedAt: s.now()}
	return users, nil
}

// Projects returns the projects collection from cache or disk, read-only.
func (s *Store) Projects() (models.Projects, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.projects.fresh(s.now(), s.cfg.CacheTTL) {
		metrics.CacheHits.WithLabelValues(string(CollectionProjects)).Inc()
		return s.projects.snapshot.(models.Projects), nil
	}
	metrics.CacheMisses.WithLabelValues(string(CollectionProjects)).Inc()

	projects, err := s.loadProjects()
	if err != nil {
		return nil, err
	}
	s.projects = cacheEntry{snapshot: projects, loadedAt: s.now()}
	return projects, nil
}

// UsersForUpdate loads a private users snapshot directly from the backing
// file, bypassing the cache. Mutating callers must hold the collection lock
// across this read and the following SaveUsers so the snapshot reflects
// every prior committed write.
func (s *Store) UsersForUpdate() (models.Users, error) {
	return s.loadUsers()
}

// ProjectsForUpdate loads a private projects snapshot, bypassing the cache.
func (s *Store) ProjectsForUpdate() (models.Projects, error) {
	return s.loadProjects()
}

// SaveUsers atomically replaces the users document and refreshes the cached
// snapshot. On failure the previous on-disk state is left intact.
func (s *Store) SaveUsers(users models.Users) error {
	if err := s.save(CollectionUsers, s.cfg.UsersPath, users); err != nil {
		return err
	}
	s.mu.Lock()
	s.users = cacheEntry{snapshot: users, loadedAt: s.now()}
	s.mu.Unlock()
	return nil
}

// SaveProjects atomically replaces the projects document and refreshes the
// cached snapshot.
func (s *Store) SaveProjects(projects models.Projects) error {
	if err := s.save(CollectionProjects, s.cfg.ProjectsPath, projects); err != nil {
		return err
	}
	s.mu.Lock()
	s.projects = cacheEntry{snapshot: projects, loadedAt: s.now()}
	s.mu.Unlock()
	return nil
}

// SaveBoth persists both collections in one logical step, for mutations
// that must keep the user/project membership sides consistent. Each save
// is individually atomic; if the second one fails the inconsistency is
// logged for operator reconciliation.
func (s *Store) SaveBoth(users models.Users, projects models.Projects) error {
	if err := s.SaveUsers(users); err != nil {
		return err
	}
	if err := s.SaveProjects(projects); err != nil {
		// The users side is already committed; flag the inconsistency
		// loudly so an operator can reconcile.
		s.logger.Error().Err(err).
			Msg("projects save failed after users save, collections may disagree")
		return err
	}
	return nil
}

// Invalidate drops the cached snapshot so the next read reloads from disk
// regardless of age.
func (s *Store) Invalidate(c Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch c {
	case CollectionUsers:
		s.users = cacheEntry{}
	case CollectionProjects:
		s.projects = cacheEntry{}
	}
}

// EnsureFiles self-heals both backing files at startup, mirroring the
// legacy bot's initialization pass. Errors are returned only for genuine
// I/O failures, never for missing or corrupt content.
func (s *Store) EnsureFiles() error {
	if _, err := s.loadUsers(); err != nil {
		return err
	}
	if _, err := s.loadProjects(); err != nil {
		return err
	}
	return nil
}

func (s *Store) loadUsers() (models.Users, error) {
	users := models.Users{}
	healed, err := s.loadDocument(CollectionUsers, s.cfg.UsersPath, &users)
	if err != nil {
		return nil, err
	}
	if healed {
		users = models.Users{}
		if err := s.save(CollectionUsers, s.cfg.UsersPath, users); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *Store) loadProjects() (models.Projects, error) {
	projects := models.Projects{}
	healed, err := s.loadDocument(CollectionProjects, s.cfg.ProjectsPath, &projects)
	if err != nil {
		return nil, err
	}
	if healed {
		projects = models.EmptyProjects()
		if err := s.save(CollectionProjects, s.cfg.ProjectsPath, projects); err != nil {
			return nil, err
		}
	}
	// Older files may miss category keys; present them as empty maps.
	for _, c := range models.AllCategories {
		if projects[c] == nil {
			projects[c] = map[string]*models.Project{}
		}
	}
	return projects, nil
}

// loadDocument reads and decodes one backing file. It returns healed=true
// when the file is missing or corrupt and the caller should substitute and
// persist the schema-valid default.
func (s *Store) loadDocument(c Collection, path string, v any) (healed bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn().Str("collection", string(c)).Str("path", path).
			Msg("backing file missing, creating empty default")
		metrics.StoreLoads.WithLabelValues(string(c), "healed").Inc()
		return true, nil
	}
	if err != nil {
		metrics.StoreLoads.WithLabelValues(string(c), "error").Inc()
		return false, fmt.Errorf("read %s document: %w", c, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn().Err(err).Str("collection", string(c)).Str("path", path).
			Msg("backing file corrupt, substituting empty default")
		metrics.StoreLoads.WithLabelValues(string(c), "healed").Inc()
		return true, nil
	}

	metrics.StoreLoads.WithLabelValues(string(c), "ok").Inc()
	return false, nil
}

// save writes the full document to a temp file in the target directory and
// renames it over the destination, so concurrent readers of the file never
// observe a partial write.
func (s *Store) save(c Collection, path string, v any) error {
	start := time.Now()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			metrics.StoreSaves.WithLabelValues(string(c), "error").Inc()
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	// Four-space indent matches the documents the legacy bot wrote.
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		metrics.StoreSaves.WithLabelValues(string(c), "error").Inc()
		return fmt.Errorf("encode %s document: %w", c, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		metrics.StoreSaves.WithLabelValues(string(c), "error").Inc()
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		metrics.StoreSaves.WithLabelValues(string(c), "error").Inc()
		return fmt.Errorf("write %s document: %w", c, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		metrics.StoreSaves.WithLabelValues(string(c), "error").Inc()
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		metrics.StoreSaves.WithLabelValues(string(c), "error").Inc()
		return fmt.Errorf("replace %s document: %w", c, err)
	}

	metrics.StoreSaves.WithLabelValues(string(c), "ok").Inc()
	metrics.StoreSaveDuration.WithLabelValues(string(c)).Observe(time.Since(start).Seconds())
	s.logger.Debug().Str("collection", string(c)).Int("bytes", len(data)).Msg("collection saved")
	return nil
}
