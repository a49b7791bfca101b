// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestIntBoolRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"zero", "0", false},
		{"one", "1", true},
		{"json true", "true", true},
		{"json false", "false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b IntBool
			if err := json.Unmarshal([]byte(tt.input), &b); err != nil {
				t.Fatalf("Unmarshal(%q): %v", tt.input, err)
			}
			if bool(b) != tt.want {
				t.Errorf("Unmarshal(%q) = %v, want %v", tt.input, bool(b), tt.want)
			}
		})
	}

	// Marshaling always writes the legacy 0|1 form.
	out, err := json.Marshal(IntBool(true))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != "1" {
		t.Errorf("Marshal(true) = %s, want 1", out)
	}
	out, _ = json.Marshal(IntBool(false))
	if string(out) != "0" {
		t.Errorf("Marshal(false) = %s, want 0", out)
	}
}

func TestIntBoolRejectsGarbage(t *testing.T) {
	var b IntBool
	if err := json.Unmarshal([]byte(`"yes"`), &b); err == nil {
		t.Error("Expected error for non-flag value")
	}
}

func TestProjectRefParts(t *testing.T) {
	ref := NewProjectRef(CategorySport, "marathon-2026")
	if ref.String() != "sport:::marathon-2026" {
		t.Errorf("Wire form = %q", ref.String())
	}

	cat, id, err := ref.Parts()
	if err != nil {
		t.Fatalf("Parts: %v", err)
	}
	if cat != CategorySport || id != "marathon-2026" {
		t.Errorf("Parts = (%s, %s)", cat, id)
	}

	for _, bad := range []ProjectRef{"", "sport", "sport:::", ":::id"} {
		if _, _, err := bad.Parts(); err == nil {
			t.Errorf("Expected error for %q", string(bad))
		}
	}
}

func TestProfileComplete(t *testing.T) {
	complete := &User{Name: "Anna", Surname: "Petrova", FirstID: "12345", Phone: "+7-900-000-00-00"}
	if !complete.ProfileComplete() {
		t.Error("Expected complete profile")
	}

	tests := []struct {
		name string
		user User
	}{
		{"missing phone", User{Name: "A", Surname: "B", FirstID: "1"}},
		{"legacy placeholder", User{Name: "A", Surname: "B", FirstID: "1", Phone: legacyUnset}},
		{"blank surname", User{Name: "A", Surname: "  ", FirstID: "1", Phone: "+7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.user.ProfileComplete() {
				t.Error("Expected incomplete profile")
			}
		})
	}
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full name", User{Name: "Anna", Surname: "Petrova"}, "Anna Petrova"},
		{"name only", User{Name: "Anna", Surname: legacyUnset}, "Anna"},
		{"username fallback", User{Username: "anna_p"}, "anna_p"},
		{"nothing set", User{Surname: legacyUnset}, "Unknown user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserProjectList(t *testing.T) {
	u := &User{}
	a := NewProjectRef(CategoryScience, "a")
	b := NewProjectRef(CategoryScience, "b")

	u.AddProject(a)
	u.AddProject(b)
	u.AddProject(a) // duplicate, ignored
	if len(u.ActiveProjects) != 2 {
		t.Fatalf("ActiveProjects = %v", u.ActiveProjects)
	}

	u.RemoveProject(a)
	if u.HasProject(a) {
		t.Error("Expected a removed")
	}
	if !u.HasProject(b) {
		t.Error("Expected b kept")
	}
}

func TestProjectCapacity(t *testing.T) {
	three := 3
	p := &Project{MaxMembers: &three, Members: map[string]IntBool{"u1": true, "u2": true}}

	if !p.HasCapacity() {
		t.Error("Expected capacity with 2/3 members")
	}
	if p.FreeSlots() != 1 {
		t.Errorf("FreeSlots = %d, want 1", p.FreeSlots())
	}

	p.Members["u3"] = true
	if p.HasCapacity() {
		t.Error("Expected no capacity at 3/3")
	}
	if p.FreeSlots() != 0 {
		t.Errorf("FreeSlots = %d, want 0", p.FreeSlots())
	}

	unbounded := &Project{Members: map[string]IntBool{"u1": true}}
	if !unbounded.HasCapacity() {
		t.Error("Expected unbounded capacity for nil max_members")
	}
	if unbounded.FreeSlots() != -1 {
		t.Errorf("Unbounded FreeSlots = %d, want -1", unbounded.FreeSlots())
	}
}

func TestProjectDueOn(t *testing.T) {
	p := &Project{Date: "15.09.2026"}
	day := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	if !p.DueOn(day) {
		t.Error("Expected due on 15.09.2026")
	}
	if p.DueOn(day.AddDate(0, 0, 1)) {
		t.Error("Expected not due on the next day")
	}

	empty := &Project{}
	if empty.DueOn(day) {
		t.Error("Unset date must never be due")
	}
}

func TestProjectPrizePoints(t *testing.T) {
	tests := []struct {
		prize string
		want  int
	}{
		{"80", 80},
		{" 15 ", 15},
		{"", 0},
		{"abc", 0},
		{"-5", 0},
	}
	for _, tt := range tests {
		p := &Project{Prize: tt.prize}
		if got := p.PrizePoints(); got != tt.want {
			t.Errorf("PrizePoints(%q) = %d, want %d", tt.prize, got, tt.want)
		}
	}
}

func TestProjectState(t *testing.T) {
	p := &Project{}
	if p.State() != StateActive {
		t.Errorf("State = %s, want active", p.State())
	}
	p.Completed = true
	if p.State() != StateCompleting {
		t.Errorf("State = %s, want completing", p.State())
	}
}

func TestProjectHiddenName(t *testing.T) {
	const prefix = "​"
	p := &Project{Name: prefix + "Secret cleanup"}
	if !p.Hidden(prefix) {
		t.Error("Expected hidden")
	}
	if p.DisplayName(prefix) != "Secret cleanup" {
		t.Errorf("DisplayName = %q", p.DisplayName(prefix))
	}

	visible := &Project{Name: "Park cleanup"}
	if visible.Hidden(prefix) {
		t.Error("Expected visible")
	}
	if visible.DisplayName(prefix) != "Park cleanup" {
		t.Errorf("DisplayName = %q", visible.DisplayName(prefix))
	}
}

func TestEmptyProjectsCoversAllCategories(t *testing.T) {
	p := EmptyProjects()
	if len(p) != len(AllCategories) {
		t.Fatalf("EmptyProjects has %d categories, want %d", len(p), len(AllCategories))
	}
	for _, c := range AllCategories {
		if _, ok := p[c]; !ok {
			t.Errorf("Missing category %s", c)
		}
	}
}

func TestUserJSONWireFormat(t *testing.T) {
	raw := `{
		"name": "Anna", "surname": "Petrova", "username": "anna_p",
		"phone": "+7-900-000-00-00", "IDfirst": "42", "score": 80,
		"ban": 0, "moderator": true,
		"active_projects": ["sport:::marathon-2026"]
	}`
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if u.Score != 80 || u.Banned() || !u.Moderator {
		t.Errorf("Decoded user = %+v", u)
	}
	if len(u.ActiveProjects) != 1 || u.ActiveProjects[0] != "sport:::marathon-2026" {
		t.Errorf("ActiveProjects = %v", u.ActiveProjects)
	}
}

func TestProjectJSONWireFormat(t *testing.T) {
	raw := `{
		"name": "Marathon", "description": "Run", "date": "15.09.2026",
		"prize": "50", "max_members": 10,
		"members": {"u1": 1}, "approval_required": 1,
		"unleaveable": 0, "completed": 0
	}`
	var p Project
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.MaxMembers == nil || *p.MaxMembers != 10 {
		t.Errorf("MaxMembers = %v", p.MaxMembers)
	}
	if !p.IsMember("u1") || p.IsMember("u2") {
		t.Error("Member map decoded incorrectly")
	}
	if !bool(p.ApprovalRequired) || bool(p.Unleaveable) {
		t.Error("Flags decoded incorrectly")
	}

	// null max_members means unbounded
	var q Project
	if err := json.Unmarshal([]byte(`{"name":"x","max_members":null,"members":{}}`), &q); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if q.MaxMembers != nil {
		t.Error("Expected nil MaxMembers for null")
	}
}
