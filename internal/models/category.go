// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package models

// Category is one of the fixed set of project category tags. The set is
// closed: the projects document is keyed by these tags and an empty map is
// pre-created for each one on first access.
type Category string

const (
	CategoryEducation    Category = "education"
	CategoryScience      Category = "science"
	CategoryProfession   Category = "profession"
	CategoryCulture      Category = "culture"
	CategoryVolunteering Category = "volunteering"
	CategoryPatriotism   Category = "patriotism"
	CategorySport        Category = "sport"
	CategoryOther        Category = "other"
)

// AllCategories lists every category tag in display order.
var AllCategories = []Category{
	CategoryEducation,
	CategoryScience,
	CategoryProfession,
	CategoryCulture,
	CategoryVolunteering,
	CategoryPatriotism,
	CategorySport,
	CategoryOther,
}

// Valid reports whether c is one of the closed category set.
func (c Category) Valid() bool {
	for _, k := range AllCategories {
		if c == k {
			return true
		}
	}
	return false
}

// EmptyProjects returns a schema-valid empty projects document with every
// category key present. Used as the self-heal default for a missing or
// corrupt projects file.
func EmptyProjects() Projects {
	p := make(Projects, len(AllCategories))
	for _, c := range AllCategories {
		p[c] = map[string]*Project{}
	}
	return p
}
