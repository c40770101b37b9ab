// Package types contains common types used across the application
package types

// Entry is one scored candidate as seen by the ranker.
type Entry struct {
	Rank              int    `json:"rank"`
	CandidateID       string `json:"candidate_id"`
	Score             int    `json:"score"`
	SkillMatchPercent int    `json:"skill_match"`
	// Position is the candidate's index in the pool it was scored from.
	Position int `json:"-"`
}

// HasSkillMatch reports whether the candidate covers any required skill.
func (e Entry) HasSkillMatch() bool {
	return e.SkillMatchPercent > 0
}
