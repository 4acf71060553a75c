package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akazansky/survey-api/config"
	"github.com/akazansky/survey-api/models"
	"github.com/akazansky/survey-api/routes"
	"github.com/akazansky/survey-api/utils"
)

// testClientIP isolates the per-IP login limiter between tests.
var (
	ipCounter    uint32
	testClientIP string
)

// setupTest gives each test its own in-memory database and a router
// with the full middleware chain.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	n := atomic.AddUint32(&ipCounter, 1)
	testClientIP = fmt.Sprintf("10.9.%d.%d", n/256, n%256)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = testClientIP + ":1234"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// seedAdmin creates an administrator and returns it with a valid access
// token.
func seedAdmin(t *testing.T, password string) (*models.User, string) {
	t.Helper()
	admin, err := config.EnsureAdmin(config.DB, "admin", password)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	token, _, err := utils.GenerateAccessToken(strconv.FormatUint(uint64(admin.ID), 10))
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return admin, token
}

// createSurvey posts a standard two-question survey (one CHOICE, one
// TEXT) and returns the decoded response.
func createSurvey(t *testing.T, r *gin.Engine, token string) map[string]interface{} {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/surveys", gin.H{
		"name":       "S",
		"start_date": "2021-12-01",
		"end_date":   "2022-01-01",
		"questions": []gin.H{
			{"body": "Gender?", "question_type": "CHOICE", "choices": []string{"Male", "Female"}},
			{"body": "Comments?", "question_type": "TEXT"},
		},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create survey: got %d, want 201 (%s)", w.Code, w.Body.String())
	}
	var survey map[string]interface{}
	decodeBody(t, w, &survey)
	return survey
}

func surveyID(t *testing.T, survey map[string]interface{}) uint {
	t.Helper()
	id, ok := survey["id"].(float64)
	if !ok {
		t.Fatalf("survey response has no id: %v", survey)
	}
	return uint(id)
}

// questionByType digs the first question of the given type out of a
// decoded survey response.
func questionByType(t *testing.T, survey map[string]interface{}, questionType string) map[string]interface{} {
	t.Helper()
	questions, _ := survey["questions"].([]interface{})
	for _, raw := range questions {
		q, _ := raw.(map[string]interface{})
		if q["question_type"] == questionType {
			return q
		}
	}
	t.Fatalf("no %s question in %v", questionType, survey)
	return nil
}

func choiceID(t *testing.T, question map[string]interface{}, body string) uint {
	t.Helper()
	choices, _ := question["choices"].([]interface{})
	for _, raw := range choices {
		ch, _ := raw.(map[string]interface{})
		if ch["body"] == body {
			return uint(ch["id"].(float64))
		}
	}
	t.Fatalf("no choice %q in %v", body, question)
	return 0
}
