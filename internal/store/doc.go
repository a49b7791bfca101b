// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

/*
Package store owns the on-disk representation of the two persisted
collections (users, projects) and is their sole writer.

Reads go through a per-collection cached snapshot with a fixed staleness
ceiling; writes replace the whole backing file atomically (temp file +
rename) and refresh the cache, so a reader never observes a partially
written document. A missing or corrupt backing file is self-healed into a
schema-valid empty default rather than reported as an error.

Mutating callers must serialize their read-modify-write cycles through the
KeyedLock and read their working copy with UsersForUpdate/ProjectsForUpdate,
which bypass the cache. Cached snapshots returned by Users/Projects are
shared between goroutines and must be treated as read-only.
*/
package store
