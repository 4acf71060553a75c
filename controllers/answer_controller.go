package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akazansky/survey-api/config"
	"github.com/akazansky/survey-api/models"
)

/* ========== Take survey (public) ========== */

type takeAnswerReq struct {
	QuestionID uint    `json:"question_id" binding:"required"`
	Body       *string `json:"body"`
	ChoiceID   *uint   `json:"choice_id"`
	ChoiceIDs  []uint  `json:"choice_ids"`
}

type takeSurveyReq struct {
	UserID  int64           `json:"user_id" binding:"required"`
	Answers []takeAnswerReq `json:"answers" binding:"required,min=1,dive"`
}

// submissionError marks a structural problem in the submitted answer
// set; it aborts the transaction and maps to 400 instead of 500.
type submissionError struct {
	detail string
}

func (e submissionError) Error() string { return e.detail }

func rejectf(format string, args ...interface{}) error {
	return submissionError{detail: fmt.Sprintf(format, args...)}
}

// TakeSurvey records one respondent's answer set against the survey's
// live questions. The respondent is fetched or created by the caller's
// external user id. Validation and inserts run in one transaction: any
// mismatch between an answer and its question's type leaves nothing
// persisted.
func TakeSurvey(c *gin.Context) {
	surveyID, err := strconv.Atoi(c.Param("id"))
	if err != nil || surveyID <= 0 {
		badRequest(c, "Invalid survey id")
		return
	}

	var survey models.Survey
	if err := config.DB.Where("id = ? AND is_deleted = ?", surveyID, false).First(&survey).Error; err != nil {
		notFound(c, "Survey not found")
		return
	}

	var req takeSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where(models.User{ExternalID: &req.UserID}).
			Attrs(models.User{Status: models.StatusActive, Role: models.RoleAnonymous}).
			FirstOrCreate(&user).Error; err != nil {
			return err
		}

		for _, item := range req.Answers {
			var question models.Question
			err := tx.Where("id = ? AND survey_id = ? AND is_deleted = ?", item.QuestionID, survey.ID, false).
				First(&question).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return rejectf("question %d is not part of the survey", item.QuestionID)
				}
				return err
			}

			rows, err := buildAnswerRows(tx, question, user.ID, item)
			if err != nil {
				return err
			}
			for i := range rows {
				if err := tx.Create(&rows[i]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		var rejection submissionError
		if errors.As(err, &rejection) {
			badRequest(c, rejection.detail)
			return
		}
		config.Logger.Warn("could not record submission", "survey_id", survey.ID, "error", err)
		internalError(c, "Could not record answers")
		return
	}

	c.Status(http.StatusCreated)
}

// buildAnswerRows validates one submitted answer against its question's
// type and expands it into Answer rows (one per selected choice for
// MULTICHOICE).
func buildAnswerRows(tx *gorm.DB, question models.Question, userID uint, item takeAnswerReq) ([]models.Answer, error) {
	switch question.QuestionType {
	case models.TypeText:
		if item.ChoiceID != nil || len(item.ChoiceIDs) > 0 {
			return nil, rejectf("question %d takes a text body, not a choice", question.ID)
		}
		if item.Body == nil || *item.Body == "" {
			return nil, rejectf("question %d requires a text body", question.ID)
		}
		return []models.Answer{{QuestionID: question.ID, UserID: userID, Body: item.Body}}, nil

	case models.TypeChoice:
		if item.Body != nil || len(item.ChoiceIDs) > 0 {
			return nil, rejectf("question %d takes exactly one choice_id", question.ID)
		}
		if item.ChoiceID == nil {
			return nil, rejectf("question %d requires a choice_id", question.ID)
		}
		if err := checkChoice(tx, question.ID, *item.ChoiceID); err != nil {
			return nil, err
		}
		return []models.Answer{{QuestionID: question.ID, UserID: userID, ChoiceID: item.ChoiceID}}, nil

	case models.TypeMultichoice:
		if item.Body != nil || item.ChoiceID != nil {
			return nil, rejectf("question %d takes choice_ids", question.ID)
		}
		if len(item.ChoiceIDs) == 0 {
			return nil, rejectf("question %d requires at least one choice id", question.ID)
		}
		rows := make([]models.Answer, 0, len(item.ChoiceIDs))
		for _, choiceID := range item.ChoiceIDs {
			if err := checkChoice(tx, question.ID, choiceID); err != nil {
				return nil, err
			}
			id := choiceID
			rows = append(rows, models.Answer{QuestionID: question.ID, UserID: userID, ChoiceID: &id})
		}
		return rows, nil

	default:
		return nil, rejectf("question %d has an unsupported type", question.ID)
	}
}

func checkChoice(tx *gorm.DB, questionID, choiceID uint) error {
	var choice models.AnswerChoice
	err := tx.Where("id = ? AND question_id = ? AND is_deleted = ?", choiceID, questionID, false).
		First(&choice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rejectf("choice %d does not belong to question %d", choiceID, questionID)
		}
		return err
	}
	return nil
}

/* ========== List answers by external user (public) ========== */

// ListAnswers returns everything a respondent has ever answered across
// all surveys, newest first. The answer text resolves to the free-text
// body when present, otherwise to the linked choice's body.
func ListAnswers(c *gin.Context) {
	raw := c.Query("user_id")
	if raw == "" {
		badRequest(c, "user_id is required")
		return
	}
	externalID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(c, "user_id must be an integer")
		return
	}

	var user models.User
	if err := config.DB.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		notFound(c, "User not found")
		return
	}

	var answers []models.Answer
	err = config.DB.Where("user_id = ?", user.ID).
		Preload("Question").
		Preload("Choice").
		Order("created_at DESC, id DESC").
		Find(&answers).Error
	if err != nil {
		internalError(c, "Could not list answers")
		return
	}

	results := make([]gin.H, 0, len(answers))
	for _, a := range answers {
		text := ""
		if a.Body != nil {
			text = *a.Body
		} else if a.Choice != nil {
			text = a.Choice.Body
		}
		results = append(results, gin.H{
			"survey_id":   a.Question.SurveyID,
			"question_id": a.QuestionID,
			"question":    a.Question.Body,
			"answer":      text,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": externalID,
		"results": results,
	})
}
