package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/akazansky/survey-api/config"
	"github.com/akazansky/survey-api/models"
)

func TestCreateSurveyRequiresAdmin(t *testing.T) {
	r := setupTest(t)

	body := gin.H{
		"name":       "S",
		"start_date": "2021-12-01",
		"end_date":   "2022-01-01",
		"questions":  []gin.H{{"body": "Q", "question_type": "TEXT"}},
	}

	w := doJSON(t, r, http.MethodPost, "/surveys", body, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("anonymous create: got %d, want 403", w.Code)
	}
}

func TestCreateSurveyNested(t *testing.T) {
	r := setupTest(t)
	_, token := seedAdmin(t, "P@ssw0rd")

	survey := createSurvey(t, r, token)
	questions, _ := survey["questions"].([]interface{})
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	choice := questionByType(t, survey, "CHOICE")
	if choices, _ := choice["choices"].([]interface{}); len(choices) != 2 {
		t.Errorf("got %d choices, want 2", len(choices))
	}
}

func TestCreateSurveyAtomicity(t *testing.T) {
	r := setupTest(t)
	_, token := seedAdmin(t, "P@ssw0rd")

	// A CHOICE question without choices must fail the whole request and
	// leave no survey, question or choice rows behind.
	w := doJSON(t, r, http.MethodPost, "/surveys", gin.H{
		"name":       "S",
		"start_date": "2021-12-01",
		"end_date":   "2022-01-01",
		"questions": []gin.H{
			{"body": "Comments?", "question_type": "TEXT"},
			{"body": "Gender?", "question_type": "CHOICE"},
		},
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400 (%s)", w.Code, w.Body.String())
	}

	for _, probe := range []struct {
		name  string
		model interface{}
	}{
		{"surveys", &models.Survey{}},
		{"questions", &models.Question{}},
		{"answer_choices", &models.AnswerChoice{}},
	} {
		var count int64
		config.DB.Model(probe.model).Count(&count)
		if count != 0 {
			t.Errorf("%s: %d rows persisted, want 0", probe.name, count)
		}
	}
}

func TestUpdateSurveyPartial(t *testing.T) {
	r := setupTest(t)
	_, token := seedAdmin(t, "P@ssw0rd")
	id := surveyID(t, createSurvey(t, r, token))

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/surveys/%d", id), gin.H{"name": "Renamed"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update: got %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var updated map[string]interface{}
	decodeBody(t, w, &updated)
	if updated["name"] != "Renamed" {
		t.Errorf("name = %v, want Renamed", updated["name"])
	}
	// Unspecified fields are retained.
	if updated["end_date"] != "2022-01-01" {
		t.Errorf("end_date = %v, want 2022-01-01", updated["end_date"])
	}
	if updated["start_date"] != "2021-12-01" {
		t.Errorf("start_date = %v, want 2021-12-01", updated["start_date"])
	}
}

func TestUpdateSurveyNotFound(t *testing.T) {
	r := setupTest(t)
	_, token := seedAdmin(t, "P@ssw0rd")

	w := doJSON(t, r, http.MethodPut, "/surveys/12345", gin.H{"name": "X"}, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", w.Code)
	}
}

func TestDeleteSurveySoft(t *testing.T) {
	r := setupTest(t)
	_, token := seedAdmin(t, "P@ssw0rd")
	id := surveyID(t, createSurvey(t, r, token))

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/surveys/%d", id), nil, token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d, want 204", w.Code)
	}

	// The row survives with the flag set.
	var survey models.Survey
	if err := config.DB.First(&survey, id).Error; err != nil {
		t.Fatalf("survey row gone after soft delete: %v", err)
	}
	if !survey.IsDeleted {
		t.Error("is_deleted = false after delete")
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/surveys/%d", id), nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("fetch deleted: got %d, want 404", w.Code)
	}

	// Deleting again: the row is no longer visible.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/surveys/%d", id), nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", w.Code)
	}
}

func TestListSurveysFilterAndOrder(t *testing.T) {
	r := setupTest(t)
	_, token := seedAdmin(t, "P@ssw0rd")

	first := surveyID(t, createSurvey(t, r, token))
	second := surveyID(t, createSurvey(t, r, token))
	doJSON(t, r, http.MethodDelete, fmt.Sprintf("/surveys/%d", second), nil, token)

	var listed []map[string]interface{}

	w := doJSON(t, r, http.MethodGet, "/surveys?is_deleted=false", nil, "")
	decodeBody(t, w, &listed)
	if len(listed) != 1 || surveyID(t, listed[0]) != first {
		t.Errorf("is_deleted=false returned %v, want only survey %d", listed, first)
	}

	w = doJSON(t, r, http.MethodGet, "/surveys?is_deleted=true", nil, "")
	decodeBody(t, w, &listed)
	if len(listed) != 1 || surveyID(t, listed[0]) != second {
		t.Errorf("is_deleted=true returned %v, want only survey %d", listed, second)
	}

	// Default ordering is newest-created first.
	w = doJSON(t, r, http.MethodGet, "/surveys", nil, "")
	decodeBody(t, w, &listed)
	if len(listed) != 2 {
		t.Fatalf("got %d surveys, want 2", len(listed))
	}
	if surveyID(t, listed[0]) != second {
		t.Errorf("first listed = %d, want newest (%d)", surveyID(t, listed[0]), second)
	}

	w = doJSON(t, r, http.MethodGet, "/surveys?ordering=created", nil, "")
	decodeBody(t, w, &listed)
	if surveyID(t, listed[0]) != first {
		t.Errorf("ordering=created: first listed = %d, want oldest (%d)", surveyID(t, listed[0]), first)
	}
}

func TestListSurveysFilterByID(t *testing.T) {
	r := setupTest(t)
	_, token := seedAdmin(t, "P@ssw0rd")

	first := surveyID(t, createSurvey(t, r, token))
	createSurvey(t, r, token)

	var listed []map[string]interface{}
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/surveys?id=%d", first), nil, "")
	decodeBody(t, w, &listed)
	if len(listed) != 1 || surveyID(t, listed[0]) != first {
		t.Errorf("id filter returned %v, want only survey %d", listed, first)
	}
}
