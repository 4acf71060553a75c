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

/* ========== Create survey (admin) ========== */

type surveyQuestionReq struct {
	Body         string   `json:"body" binding:"required,min=1"`
	QuestionType string   `json:"question_type" binding:"required"`
	Choices      []string `json:"choices"`
}

type createSurveyReq struct {
	Name        string              `json:"name" binding:"required,min=1"`
	Description string              `json:"description"`
	StartDate   string              `json:"start_date" binding:"required"`
	EndDate     string              `json:"end_date" binding:"required"`
	Questions   []surveyQuestionReq `json:"questions" binding:"required,dive"`
}

// validateQuestionReq normalizes the type and enforces that choice-style
// questions carry answer options.
func validateQuestionReq(q *surveyQuestionReq) error {
	q.QuestionType = strings.ToUpper(strings.TrimSpace(q.QuestionType))
	switch q.QuestionType {
	case models.TypeText:
		return nil
	case models.TypeChoice, models.TypeMultichoice:
		if len(q.Choices) == 0 {
			return errors.New("answer options not supplied")
		}
		return nil
	default:
		return errors.New("unknown question type: " + q.QuestionType)
	}
}

// CreateSurvey persists the survey with its questions and their choices
// as one unit. A failure in any nested row rolls back everything.
func CreateSurvey(c *gin.Context) {
	var req createSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(c, "end_date must be YYYY-MM-DD")
		return
	}

	for i := range req.Questions {
		if err := validateQuestionReq(&req.Questions[i]); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	survey := models.Survey{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&survey).Error; err != nil {
			return err
		}
		for _, item := range req.Questions {
			q := models.Question{
				SurveyID:     survey.ID,
				QuestionType: item.QuestionType,
				Body:         item.Body,
			}
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
			for _, body := range item.Choices {
				ch := models.AnswerChoice{QuestionID: q.ID, Body: body}
				if err := tx.Create(&ch).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		internalError(c, "Could not create survey")
		return
	}

	created, err := loadSurvey(survey.ID)
	if err != nil {
		internalError(c, "Could not load survey")
		return
	}
	c.JSON(http.StatusCreated, newSurveyView(*created))
}

/* ========== Update survey (admin) ========== */

type updateSurveyReq struct {
	Name    *string `json:"name"`
	EndDate *string `json:"end_date"`
}

// UpdateSurvey changes only the name and end date; everything else is
// immutable after creation.
func UpdateSurvey(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "Invalid survey id")
		return
	}

	var req updateSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			badRequest(c, "end_date must be YYYY-MM-DD")
			return
		}
		updates["end_date"] = endDate
	}

	var survey models.Survey
	if err := config.DB.Where("id = ? AND is_deleted = ?", id, false).First(&survey).Error; err != nil {
		notFound(c, "Survey not found")
		return
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&survey).Updates(updates).Error; err != nil {
			internalError(c, "Could not update survey")
			return
		}
	}

	updated, err := loadSurvey(survey.ID)
	if err != nil {
		internalError(c, "Could not load survey")
		return
	}
	c.JSON(http.StatusOK, newSurveyView(*updated))
}

/* ========== Delete survey (admin) — soft ========== */

// DeleteSurvey flips is_deleted; rows are never removed because answers
// reference the survey transitively. A second delete answers 404 since
// the row is no longer visible.
func DeleteSurvey(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "Invalid survey id")
		return
	}

	var survey models.Survey
	if err := config.DB.Where("id = ? AND is_deleted = ?", id, false).First(&survey).Error; err != nil {
		notFound(c, "Survey not found")
		return
	}

	if err := config.DB.Model(&survey).Update("is_deleted", true).Error; err != nil {
		internalError(c, "Could not delete survey")
		return
	}
	c.Status(http.StatusNoContent)
}

/* ========== List / fetch surveys ========== */

var surveyOrderings = map[string]string{
	"created":    "created_at",
	"start_date": "start_date",
	"end_date":   "end_date",
}

// orderClause maps an ?ordering= value ("-created", "start_date", ...)
// to a SQL clause, falling back to the default when the field is not
// orderable.
func orderClause(param, fallback string, allowed map[string]string) string {
	field := param
	desc := strings.HasPrefix(param, "-")
	if desc {
		field = param[1:]
	}
	col, ok := allowed[field]
	if !ok {
		return fallback
	}
	// id tiebreak keeps the order stable for rows created in the same
	// instant.
	if desc {
		return col + " DESC, id DESC"
	}
	return col + " ASC, id ASC"
}

// ListSurveys returns surveys filtered by id, start/end date and the
// is_deleted flag, newest-created first by default. Nested questions
// and choices exclude soft-deleted rows.
func ListSurveys(c *gin.Context) {
	q := config.DB.Model(&models.Survey{})

	if v := c.Query("id"); v != "" {
		q = q.Where("id = ?", v)
	}
	if v := c.Query("start_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			badRequest(c, "start_date must be YYYY-MM-DD")
			return
		}
		q = q.Where("start_date = ?", d)
	}
	if v := c.Query("end_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			badRequest(c, "end_date must be YYYY-MM-DD")
			return
		}
		q = q.Where("end_date = ?", d)
	}
	if v := c.Query("is_deleted"); v != "" {
		deleted, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "is_deleted must be a boolean")
			return
		}
		q = q.Where("is_deleted = ?", deleted)
	}

	var surveys []models.Survey
	err := q.Order(orderClause(c.Query("ordering"), "created_at DESC, id DESC", surveyOrderings)).
		Preload("Questions", "is_deleted = ?", false).
		Preload("Questions.Choices", "is_deleted = ?", false).
		Find(&surveys).Error
	if err != nil {
		internalError(c, "Could not list surveys")
		return
	}

	out := make([]surveyView, 0, len(surveys))
	for _, s := range surveys {
		out = append(out, newSurveyView(s))
	}
	c.JSON(http.StatusOK, out)
}

// GetSurvey fetches one survey; soft-deleted surveys answer 404.
func GetSurvey(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "Invalid survey id")
		return
	}

	survey, err := loadSurvey(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Survey not found")
			return
		}
		internalError(c, "Could not load survey")
		return
	}
	c.JSON(http.StatusOK, newSurveyView(*survey))
}

func loadSurvey(id uint) (*models.Survey, error) {
	var survey models.Survey
	err := config.DB.
		Where("id = ? AND is_deleted = ?", id, false).
		Preload("Questions", "is_deleted = ?", false).
		Preload("Questions.Choices", "is_deleted = ?", false).
		First(&survey).Error
	if err != nil {
		return nil, err
	}
	return &survey, nil
}
