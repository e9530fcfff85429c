package specification

import (
	"strings"

	"gorm.io/gorm"
)

type ByType struct {
	Type string
}

func (s ByType) Apply(db *gorm.DB) *gorm.DB {
	if s.Type == "" {
		return db
	}
	return db.Where("type = ?", s.Type)
}

type ByDifficulty struct {
	Difficulty string
}

func (s ByDifficulty) Apply(db *gorm.DB) *gorm.DB {
	if s.Difficulty == "" {
		return db
	}
	return db.Where("difficulty = ?", s.Difficulty)
}

// ByTitle matches titles case-insensitively.
type ByTitle struct {
	Title string
}

func (s ByTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(title) = ?", strings.ToLower(strings.TrimSpace(s.Title)))
}

// ChallengeSearchQuery filters challenges whose title or description contains Query.
type ChallengeSearchQuery struct {
	Query string
}

func (s ChallengeSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	if strings.TrimSpace(s.Query) == "" {
		return db
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(s.Query)) + "%"
	// LOWER + LIKE works on both Postgres and SQLite.
	return db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
}
