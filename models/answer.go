package models

import "time"

// Answer is append-only. Exactly one of Choice/Body is set, matching
// the question type; a MULTICHOICE submission records one row per
// selected choice. Questions and choices referenced here are only ever
// soft-deleted, so the history stays resolvable.
type Answer struct {
	ID         uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint          `gorm:"not null;index" json:"question_id"`
	Question   Question      `gorm:"foreignKey:QuestionID" json:"-"`
	UserID     uint          `gorm:"not null;index" json:"user_id"`
	User       User          `gorm:"foreignKey:UserID" json:"-"`
	ChoiceID   *uint         `json:"choice_id,omitempty"`
	Choice     *AnswerChoice `gorm:"foreignKey:ChoiceID" json:"-"`
	Body       *string       `gorm:"type:text" json:"body,omitempty"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (Answer) TableName() string {
	return "answers"
}
