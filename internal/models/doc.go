// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

/*
Package models defines the persisted data structures for Dobrohub.

The backing representation is two flat JSON documents owned by the store:

  - Users: user key -> profile (name parts, contacts, score, ban and
    moderator flags, active project references)
  - Projects: category tag -> project ID -> project (name, description,
    due date, prize, capacity, member map, lifecycle flags)

Field encodings mirror the files written by the legacy bot so existing
deployments keep their data across the rewrite: flags are 0|1 (IntBool),
prizes are string-encoded integers, due dates use DD.MM.YYYY, and project
references use the "category:::project-id" wire form.

The core invariant lives across both documents: user U's active_projects
list contains ref(P) if and only if U appears in P's member map. Only the
membership engine mutates either side, through a single pair of code paths.
*/
package models
