package models

import "time"

type Survey struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;size:200;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	StartDate   time.Time `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"column:end_date;type:date;not null" json:"end_date"`
	IsActive    bool      `gorm:"column:is_active;default:true" json:"is_active"`
	IsDeleted   bool      `gorm:"column:is_deleted;default:false" json:"is_deleted"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Questions []Question `gorm:"foreignKey:SurveyID" json:"questions"`
}

func (Survey) TableName() string {
	return "surveys"
}
