// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package models

import (
	"fmt"
	"strings"
)

// refSeparator joins category and project ID in the wire form of a project
// reference ("category:::project-id"). The legacy bot used the same separator
// in both stored references and callback routing tags.
const refSeparator = ":::"

// ProjectRef identifies a project as a (category, project ID) pair. Its wire
// form is "category:::project-id", stored in each user's active_projects list.
type ProjectRef string

// NewProjectRef builds a reference from its parts.
func NewProjectRef(category Category, projectID string) ProjectRef {
	return ProjectRef(string(category) + refSeparator + projectID)
}

// Parts splits the reference into category and project ID. An error is
// returned for references that do not follow the wire form.
func (r ProjectRef) Parts() (Category, string, error) {
	parts := strings.SplitN(string(r), refSeparator, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed project reference %q", string(r))
	}
	return Category(parts[0]), parts[1], nil
}

// String returns the wire form.
func (r ProjectRef) String() string {
	return string(r)
}
