package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akazansky/survey-api/config"
	"github.com/akazansky/survey-api/models"
)

const dateLayout = "2006-01-02"

// badRequest logs the rejection with its offending detail, then
// surfaces only the declared reason to the caller.
func badRequest(c *gin.Context, detail string) {
	config.Logger.Warn("BAD REQUEST", "path", c.FullPath(), "detail", detail)
	c.JSON(http.StatusBadRequest, gin.H{"message": detail})
}

func notFound(c *gin.Context, detail string) {
	c.JSON(http.StatusNotFound, gin.H{"message": detail})
}

func internalError(c *gin.Context, detail string) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": detail})
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

/* ========== Resource views ========== */

type choiceView struct {
	ID   uint   `json:"id"`
	Body string `json:"body"`
}

type questionView struct {
	ID           uint         `json:"id"`
	SurveyID     uint         `json:"survey_id"`
	Body         string       `json:"body"`
	QuestionType string       `json:"question_type"`
	IsDeleted    bool         `json:"is_deleted"`
	Choices      []choiceView `json:"choices"`
}

type surveyView struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	IsDeleted bool           `json:"is_deleted"`
	Questions []questionView `json:"questions"`
}

func newQuestionView(q models.Question) questionView {
	choices := make([]choiceView, 0, len(q.Choices))
	for _, ch := range q.Choices {
		choices = append(choices, choiceView{ID: ch.ID, Body: ch.Body})
	}
	return questionView{
		ID:           q.ID,
		SurveyID:     q.SurveyID,
		Body:         q.Body,
		QuestionType: q.QuestionType,
		IsDeleted:    q.IsDeleted,
		Choices:      choices,
	}
}

func newSurveyView(s models.Survey) surveyView {
	questions := make([]questionView, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, newQuestionView(q))
	}
	return surveyView{
		ID:        s.ID,
		Name:      s.Name,
		StartDate: s.StartDate.Format(dateLayout),
		EndDate:   s.EndDate.Format(dateLayout),
		IsDeleted: s.IsDeleted,
		Questions: questions,
	}
}
