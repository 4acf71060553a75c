package models

import "time"

// Question types. CHOICE and MULTICHOICE questions carry answer
// choices; TEXT questions take a free-text body.
const (
	TypeText        = "TEXT"
	TypeChoice      = "CHOICE"
	TypeMultichoice = "MULTICHOICE"
)

type Question struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SurveyID     uint      `gorm:"not null;index" json:"survey_id"`
	Survey       Survey    `gorm:"foreignKey:SurveyID" json:"-"`
	QuestionType string    `gorm:"size:20;not null" json:"question_type"`
	Body         string    `gorm:"size:1500;not null" json:"body"`
	IsDeleted    bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Choices []AnswerChoice `gorm:"foreignKey:QuestionID" json:"choices"`
}

func (Question) TableName() string {
	return "questions"
}
