package domain

import "time"

// Supported interface languages. Russian is the default for users that never
// picked one.
const (
	LangRU = "ru"
	LangEN = "en"

	DefaultLanguage = LangRU
)

// User represents an application user stored in the database.
type User struct {
	TelegramID int64     `db:"id"`
	Language   string    `db:"lang"`
	CreatedAt  time.Time `db:"created_at"`
}

// KnownLanguage reports whether lang is one of the supported languages.
func KnownLanguage(lang string) bool {
	return lang == LangRU || lang == LangEN
}
