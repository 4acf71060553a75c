package models

import "time"

type AnswerChoice struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Question   Question  `gorm:"foreignKey:QuestionID" json:"-"`
	Body       string    `gorm:"size:500;not null" json:"body"`
	IsDeleted  bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AnswerChoice) TableName() string {
	return "answer_choices"
}
