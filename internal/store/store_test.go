// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package store

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dobrohub/dobrohub/internal/logging"
	"github.com/dobrohub/dobrohub/internal/models"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(Config{
		UsersPath:    filepath.Join(dir, "users.json"),
		ProjectsPath: filepath.Join(dir, "projects.json"),
		CacheTTL:     ttl,
	}, logging.NewTestLogger(io.Discard))
}

func TestLoadMissingFileSelfHeals(t *testing.T) {
	s := newTestStore(t, time.Minute)

	users, err := s.Users()
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected empty users, got %d", len(users))
	}

	// The default must have been written back to disk.
	if _, err := os.Stat(s.cfg.UsersPath); err != nil {
		t.Errorf("Expected users file created: %v", err)
	}

	projects, err := s.Projects()
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	for _, c := range models.AllCategories {
		if _, ok := projects[c]; !ok {
			t.Errorf("Healed projects missing category %s", c)
		}
	}
}

func TestLoadCorruptFileSelfHeals(t *testing.T) {
	s := newTestStore(t, time.Minute)
	if err := os.WriteFile(s.cfg.UsersPath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	users, err := s.Users()
	if err != nil {
		t.Fatalf("Users after corruption: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected empty users after heal, got %d", len(users))
	}

	// Healed content replaces the corrupt file.
	data, err := os.ReadFile(s.cfg.UsersPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "not json") {
		t.Error("Corrupt content survived self-heal")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Minute)

	users := models.Users{
		"u1": {Name: "Anna", Surname: "Petrova", Score: 80},
	}
	if err := s.SaveUsers(users); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}

	s.Invalidate(CollectionUsers)
	loaded, err := s.Users()
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if loaded["u1"] == nil || loaded["u1"].Score != 80 {
		t.Errorf("Round trip lost data: %+v", loaded["u1"])
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t, time.Minute)
	if err := s.SaveUsers(models.Users{}); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.cfg.UsersPath))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}

func TestCacheServesWithinTTL(t *testing.T) {
	s := newTestStore(t, time.Minute)

	base := time.Now()
	s.now = func() time.Time { return base }

	if _, err := s.Users(); err != nil {
		t.Fatal(err)
	}

	// Overwrite the file behind the cache's back.
	users := models.Users{"u9": {Name: "Boris"}}
	if err := s.SaveUsers(users); err != nil {
		t.Fatal(err)
	}
	// SaveUsers refreshed the cache; write stale bytes directly instead.
	if err := os.WriteFile(s.cfg.UsersPath, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Within the TTL the cached snapshot (with u9) is still served.
	got, err := s.Users()
	if err != nil {
		t.Fatal(err)
	}
	if got["u9"] == nil {
		t.Error("Expected cached snapshot within TTL")
	}

	// Past the TTL the store reloads from disk.
	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	got, err = s.Users()
	if err != nil {
		t.Fatal(err)
	}
	if got["u9"] != nil {
		t.Error("Expected reload after TTL expiry")
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	s := newTestStore(t, time.Hour)

	if _, err := s.Users(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.cfg.UsersPath, []byte(`{"u2":{"name":"New"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s.Invalidate(CollectionUsers)
	got, err := s.Users()
	if err != nil {
		t.Fatal(err)
	}
	if got["u2"] == nil {
		t.Error("Expected invalidate to force reload")
	}
}

func TestForUpdateBypassesCache(t *testing.T) {
	s := newTestStore(t, time.Hour)

	if _, err := s.Users(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.cfg.UsersPath, []byte(`{"u3":{"name":"Fresh"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := s.UsersForUpdate()
	if err != nil {
		t.Fatal(err)
	}
	if got["u3"] == nil {
		t.Error("UsersForUpdate must read the backing file, not the cache")
	}
}

func TestProjectsRoundTripPreservesWireFormat(t *testing.T) {
	s := newTestStore(t, time.Minute)

	ten := 10
	projects := models.EmptyProjects()
	projects[models.CategorySport]["marathon"] = &models.Project{
		Name:        "Marathon",
		Date:        "15.09.2026",
		Prize:       "50",
		MaxMembers:  &ten,
		Members:     map[string]models.IntBool{"u1": true},
		Unleaveable: true,
	}
	if err := s.SaveProjects(projects); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.cfg.ProjectsPath)
	if err != nil {
		t.Fatal(err)
	}
	// Flags must persist as 0|1 for legacy compatibility.
	if !strings.Contains(string(data), `"unleaveable": 1`) {
		t.Errorf("Expected 0|1 flag encoding, got:\n%s", data)
	}

	s.Invalidate(CollectionProjects)
	loaded, err := s.Projects()
	if err != nil {
		t.Fatal(err)
	}
	p := loaded[models.CategorySport]["marathon"]
	if p == nil || !bool(p.Unleaveable) || p.MaxMembers == nil || *p.MaxMembers != 10 {
		t.Errorf("Round trip lost data: %+v", p)
	}
}

func TestEnsureFilesCreatesBoth(t *testing.T) {
	s := newTestStore(t, time.Minute)
	if err := s.EnsureFiles(); err != nil {
		t.Fatalf("EnsureFiles: %v", err)
	}
	for _, path := range []string{s.cfg.UsersPath, s.cfg.ProjectsPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected %s created: %v", path, err)
		}
	}
}
