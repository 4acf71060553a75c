package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akazansky/survey-api/config"
	"github.com/akazansky/survey-api/models"
)

/* ========== Create question (admin) ========== */

type createQuestionReq struct {
	SurveyID     uint     `json:"survey_id" binding:"required"`
	Body         string   `json:"body" binding:"required,min=1"`
	QuestionType string   `json:"question_type" binding:"required"`
	Choices      []string `json:"choices"`
}

// CreateQuestion adds a question (with its choices, for choice-style
// types) to an existing survey, atomically.
func CreateQuestion(c *gin.Context) {
	var req createQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload")
		return
	}

	item := surveyQuestionReq{Body: req.Body, QuestionType: req.QuestionType, Choices: req.Choices}
	if err := validateQuestionReq(&item); err != nil {
		badRequest(c, err.Error())
		return
	}

	var survey models.Survey
	if err := config.DB.Where("id = ? AND is_deleted = ?", req.SurveyID, false).First(&survey).Error; err != nil {
		notFound(c, "Survey not found")
		return
	}

	q := models.Question{
		SurveyID:     survey.ID,
		QuestionType: item.QuestionType,
		Body:         item.Body,
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&q).Error; err != nil {
			return err
		}
		for _, body := range item.Choices {
			ch := models.AnswerChoice{QuestionID: q.ID, Body: body}
			if err := tx.Create(&ch).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		internalError(c, "Could not create question")
		return
	}

	created, err := loadQuestion(q.ID)
	if err != nil {
		internalError(c, "Could not load question")
		return
	}
	c.JSON(http.StatusCreated, newQuestionView(*created))
}

/* ========== Update question (admin) ========== */

type updateQuestionReq struct {
	Body         *string   `json:"body"`
	QuestionType *string   `json:"question_type"`
	Choices      *[]string `json:"choices"`
}

// UpdateQuestion partially updates a question. When a choice list is
// submitted the active choice set is reconciled against it: bodies
// absent from the new list are soft-deleted, new bodies are created,
// unchanged bodies are left untouched.
func UpdateQuestion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "Invalid question id")
		return
	}

	var req updateQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.QuestionType != nil {
		qt := strings.ToUpper(strings.TrimSpace(*req.QuestionType))
		if qt != models.TypeText && qt != models.TypeChoice && qt != models.TypeMultichoice {
			badRequest(c, "unknown question type: "+qt)
			return
		}
		updates["question_type"] = qt
	}

	var question models.Question
	if err := config.DB.Where("id = ? AND is_deleted = ?", id, false).First(&question).Error; err != nil {
		notFound(c, "Question not found")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&question).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Choices != nil {
			return reconcileChoices(tx, question.ID, *req.Choices)
		}
		return nil
	})
	if err != nil {
		internalError(c, "Could not update question")
		return
	}

	updated, err := loadQuestion(question.ID)
	if err != nil {
		internalError(c, "Could not load question")
		return
	}
	c.JSON(http.StatusOK, newQuestionView(*updated))
}

// reconcileChoices diffs the submitted bodies against the active
// choices. Existing rows whose body survives are kept as-is (no churn,
// no duplicates); the rest are soft-deleted; leftover submitted bodies
// become new rows.
func reconcileChoices(tx *gorm.DB, questionID uint, submitted []string) error {
	var existing []models.AnswerChoice
	if err := tx.Where("question_id = ? AND is_deleted = ?", questionID, false).
		Find(&existing).Error; err != nil {
		return err
	}

	remaining := make([]string, len(submitted))
	copy(remaining, submitted)

	removeOne := func(body string) bool {
		for i, b := range remaining {
			if b == body {
				remaining = append(remaining[:i], remaining[i+1:]...)
				return true
			}
		}
		return false
	}

	for _, ch := range existing {
		if removeOne(ch.Body) {
			continue
		}
		if err := tx.Model(&ch).Update("is_deleted", true).Error; err != nil {
			return err
		}
	}

	for _, body := range remaining {
		ch := models.AnswerChoice{QuestionID: questionID, Body: body}
		if err := tx.Create(&ch).Error; err != nil {
			return err
		}
	}
	return nil
}

/* ========== Delete question (admin) — soft ========== */

// DeleteQuestion flips is_deleted; answers already recorded against the
// question keep pointing at it.
func DeleteQuestion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "Invalid question id")
		return
	}

	var question models.Question
	if err := config.DB.Where("id = ? AND is_deleted = ?", id, false).First(&question).Error; err != nil {
		notFound(c, "Question not found")
		return
	}

	if err := config.DB.Model(&question).Update("is_deleted", true).Error; err != nil {
		internalError(c, "Could not delete question")
		return
	}
	c.Status(http.StatusNoContent)
}

/* ========== List / fetch questions ========== */

var questionOrderings = map[string]string{
	"created":   "created_at",
	"survey_id": "survey_id",
}

// ListQuestions returns non-deleted questions filtered by id and
// survey_id, oldest-created first by default.
func ListQuestions(c *gin.Context) {
	q := config.DB.Model(&models.Question{}).Where("is_deleted = ?", false)

	if v := c.Query("id"); v != "" {
		q = q.Where("id = ?", v)
	}
	if v := c.Query("survey_id"); v != "" {
		q = q.Where("survey_id = ?", v)
	}

	var questions []models.Question
	err := q.Order(orderClause(c.Query("ordering"), "created_at ASC, id ASC", questionOrderings)).
		Preload("Choices", "is_deleted = ?", false).
		Find(&questions).Error
	if err != nil {
		internalError(c, "Could not list questions")
		return
	}

	out := make([]questionView, 0, len(questions))
	for _, item := range questions {
		out = append(out, newQuestionView(item))
	}
	c.JSON(http.StatusOK, out)
}

// GetQuestion fetches one question; soft-deleted questions answer 404.
func GetQuestion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "Invalid question id")
		return
	}

	question, err := loadQuestion(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Question not found")
			return
		}
		internalError(c, "Could not load question")
		return
	}
	c.JSON(http.StatusOK, newQuestionView(*question))
}

func loadQuestion(id uint) (*models.Question, error) {
	var question models.Question
	err := config.DB.
		Where("id = ? AND is_deleted = ?", id, false).
		Preload("Choices", "is_deleted = ?", false).
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}
