// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

// Package leaderboard computes the tied-rank point leaderboard as a pure
// function over a users snapshot. Nothing here reads or writes state.
package leaderboard

import (
	"fmt"
	"sort"

	"github.com/dobrohub/dobrohub/internal/models"
)

// Entry is one leaderboard row before formatting.
type Entry struct {
	UserKey string
	Name    string
	Score   int
}

// medals replace the numeric rank label for tie-groups starting at
// positions 1-3. Assignment is by position, not by distinct score rank: a
// two-way tie for first consumes positions 1 and 2, and the next group
// gets the bronze medal.
var medals = [3]string{"🥇", "🥈", "🥉"}

// Rank sorts the users by score descending, resolves ties into display
// groups and formats one line per user. It returns the lines and the
// requesting user's 1-based rank (tie-groups share the rank of the group's
// first position); rank 0 means the user was not found.
//
// topN > 0 truncates the sorted sequence before grouping, so a tie-group
// straddling the cutoff is simply cut, not redistributed.
func Rank(users models.Users, requestingUser string, topN int) ([]string, int) {
	entries := make([]Entry, 0, len(users))
	for key, u := range users {
		entries = append(entries, Entry{
			UserKey: key,
			Name:    u.DisplayName(),
			Score:   u.Score,
		})
	}

	// No secondary key: ties keep their incoming order and are resolved
	// only by grouping.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	rank := rankOf(entries, requestingUser)

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}

	return formatGroups(entries), rank
}

// rankOf returns 1 plus the number of users scoring strictly higher than
// the requesting user, so every member of a tie-group reports the same rank.
func rankOf(sorted []Entry, requestingUser string) int {
	if requestingUser == "" {
		return 0
	}
	for _, e := range sorted {
		if e.UserKey == requestingUser {
			higher := 0
			for _, o := range sorted {
				if o.Score > e.Score {
					higher++
				}
			}
			return higher + 1
		}
	}
	return 0
}

// formatGroups walks the sorted entries, collecting maximal runs of equal
// scores into display groups.
func formatGroups(entries []Entry) []string {
	lines := make([]string, 0, len(entries))
	for start := 0; start < len(entries); {
		end := start
		for end+1 < len(entries) && entries[end+1].Score == entries[start].Score {
			end++
		}
		lines = append(lines, formatGroup(entries[start:end+1], start+1, end+1)...)
		start = end + 1
	}
	return lines
}

// formatGroup renders one tie-group. Positions are 1-based. Singletons show
// "rank. name"; larger groups show "start-end name" on every member's line.
func formatGroup(group []Entry, startPos, endPos int) []string {
	medal := ""
	if startPos <= len(medals) {
		medal = medals[startPos-1]
	}

	if len(group) == 1 {
		e := group[0]
		if medal != "" {
			return []string{fmt.Sprintf("%s %s - %s ⭐️", medal, e.Name, FormatPoints(e.Score))}
		}
		return []string{fmt.Sprintf("%d. %s - %s ⭐️", startPos, e.Name, FormatPoints(e.Score))}
	}

	prefix := fmt.Sprintf("%d-%d", startPos, endPos)
	if medal != "" {
		prefix = medal + " " + prefix
	}

	lines := make([]string, 0, len(group))
	for _, e := range group {
		lines = append(lines, fmt.Sprintf("%s %s - %s ⭐️", prefix, e.Name, FormatPoints(e.Score)))
	}
	return lines
}

// FormatPoints renders a point total with its unit.
func FormatPoints(points int) string {
	if points == 1 {
		return "1 point"
	}
	return fmt.Sprintf("%d points", points)
}
