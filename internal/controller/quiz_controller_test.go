package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"blazequiz_backend/internal/model"
	"blazequiz_backend/internal/service"
	"blazequiz_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type memProgressStore struct {
	records map[string]*model.UserProgress
}

func (m *memProgressStore) FindByUserID(userID string) (*model.UserProgress, error) {
	p, ok := m.records[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p.Clone(), nil
}

func (m *memProgressStore) Create(p *model.UserProgress) error {
	m.records[p.UserID] = p.Clone()
	return nil
}

func (m *memProgressStore) Update(p *model.UserProgress) error {
	m.records[p.UserID] = p.Clone()
	return nil
}

func (m *memProgressStore) TopByXP(limit int) ([]model.UserProgress, error) { return nil, nil }

func (m *memProgressStore) FindSectionProgress(userID, sectionID string) (*model.SectionProgress, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *memProgressStore) SaveSectionProgress(sp *model.SectionProgress) error { return nil }

func (m *memProgressStore) FindCampaignProgress(userID, campaignID string) (*model.CampaignProgress, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *memProgressStore) SaveCampaignProgress(cp *model.CampaignProgress) error { return nil }

type memQuestionSource struct {
	questions map[string]*model.Question
}

func (m *memQuestionSource) FindByID(id string) (*model.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (m *memQuestionSource) FindActive() ([]model.Question, error) {
	var out []model.Question
	for _, q := range m.questions {
		out = append(out, *q)
	}
	return out, nil
}

func (m *memQuestionSource) FindActiveBySectionID(sectionID string) ([]model.Question, error) {
	var out []model.Question
	for _, q := range m.questions {
		if q.SectionID == sectionID {
			out = append(out, *q)
		}
	}
	return out, nil
}

type memSectionSource struct{}

func (memSectionSource) FindByID(id string) (*model.Section, error) {
	return nil, gorm.ErrRecordNotFound
}
func (memSectionSource) FindActiveOrdered() ([]model.Section, error)                 { return nil, nil }
func (memSectionSource) FindActiveByCampaign(campaignID string) ([]model.Section, error) { return nil, nil }

type memCampaignSource struct{}

func (memCampaignSource) FindActiveOrdered() ([]model.Campaign, error) { return nil, nil }

func newQuizTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	q := &model.Question{Text: "What is the capital of France?", XPValue: 10, Section: 1, IsActive: true,
		Answers: []model.Answer{{Content: "Paris", IsCorrect: true, IsActive: true}}}
	q.ID = "q1"

	svc := service.NewProgressService(
		&memProgressStore{records: make(map[string]*model.UserProgress)},
		&memQuestionSource{questions: map[string]*model.Question{"q1": q}},
		memSectionSource{},
		memCampaignSource{},
	)
	ctrl := NewQuizController(svc)

	router := gin.New()
	router.POST("/api/questions/:questionId/submit", func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: "u1", Email: "u1@example.com"})
		ctrl.SubmitAnswer(c)
	})
	return router
}

func submit(t *testing.T, router *gin.Engine, questionID, answer string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"answer": answer})
	req := httptest.NewRequest(http.MethodPost, "/api/questions/"+questionID+"/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitAnswerEndpoint(t *testing.T) {
	router := newQuizTestRouter()

	w := submit(t, router, "q1", "paris")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Code int                  `json:"code"`
		Data service.SubmitResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Data.Correct || resp.Data.XPAwarded != 10 {
		t.Errorf("got %+v, want correct with 10 XP", resp.Data)
	}

	// 重复答对：幂等
	w = submit(t, router, "q1", "Paris")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Data.AlreadyAnswered || resp.Data.XPAwarded != 0 || resp.Data.TotalXP != 10 {
		t.Errorf("duplicate submit got %+v", resp.Data)
	}
}

func TestSubmitAnswerEndpointNotFound(t *testing.T) {
	router := newQuizTestRouter()
	if w := submit(t, router, "nope", "x"); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSubmitAnswerEndpointBadBody(t *testing.T) {
	router := newQuizTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/questions/q1/submit", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
