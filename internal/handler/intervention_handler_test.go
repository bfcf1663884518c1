package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-intervention-api/internal/dto"
	"github.com/noah-isme/sma-intervention-api/internal/middleware"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/internal/service"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
)

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "counselor-1", FullName: "Mr. Idris", Role: models.RoleCounselor})
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type assessmentServiceMock struct {
	last   models.IncidentAssessment
	result *models.AssessmentResult
	err    error
}

func (m *assessmentServiceMock) Assess(ctx context.Context, a models.IncidentAssessment) (*models.AssessmentResult, error) {
	m.last = a
	return m.result, m.err
}

func TestAssessmentHandlerAssess(t *testing.T) {
	mockSvc := &assessmentServiceMock{result: &models.AssessmentResult{RecommendedLevel: models.LevelB}}
	handler := NewAssessmentHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/assessments", []byte(`{"student_id":"stu-1","domain_id":"hallways","demerit_assigned":true}`))
	handler.Assess(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.last.DemeritAssigned)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, string(models.LevelB), data["recommended_level"])
}

func TestAssessmentHandlerMalformedBody(t *testing.T) {
	handler := NewAssessmentHandler(&assessmentServiceMock{})

	c, w := newTestContext(http.MethodPost, "/assessments", []byte(`{"student_id":`))
	handler.Assess(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, appErrors.ErrValidation.Code, errBody["code"])
}

type domainServiceMock struct {
	hit bool
	err error
}

func (m *domainServiceMock) List(ctx context.Context) ([]models.BehavioralDomain, bool, error) {
	return []models.BehavioralDomain{{ID: "hallways", Name: "Hallways"}}, m.hit, m.err
}

func (m *domainServiceMock) GetCached(ctx context.Context, id string) (*models.BehavioralDomain, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	return &models.BehavioralDomain{ID: id}, m.hit, nil
}

func TestDomainHandlerReportsCacheHit(t *testing.T) {
	handler := NewDomainHandler(&domainServiceMock{hit: true})

	c, w := newTestContext(http.MethodGet, "/domains", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	meta := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	assert.Equal(t, true, meta["cache_hit"])
}

func TestDomainHandlerGetMissing(t *testing.T) {
	handler := NewDomainHandler(&domainServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "behavioral domain not found")})

	c, w := newTestContext(http.MethodGet, "/domains/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

type levelBServiceMock struct {
	levelBService
	completeReq    dto.CompleteLevelBRequest
	completeErr    error
	completeCalled bool
}

func (m *levelBServiceMock) CompleteMonitoring(ctx context.Context, id string, req dto.CompleteLevelBRequest, actor *models.Actor) (*models.LevelBIntervention, error) {
	m.completeCalled = true
	m.completeReq = req
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	return &models.LevelBIntervention{ID: id, Status: models.LevelBStatusCompletedSuccess}, nil
}

func TestLevelBHandlerCompleteWithoutBody(t *testing.T) {
	mockSvc := &levelBServiceMock{}
	handler := NewLevelBHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/level-b/b-1/complete", nil)
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	handler.Complete(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.completeCalled)
	assert.Nil(t, mockSvc.completeReq.ConsequenceType)
}

func TestLevelBHandlerCompletePartialEscalation(t *testing.T) {
	mockSvc := &levelBServiceMock{
		completeErr: appErrors.PartialEscalation(errors.New("insert failed"), "re-entry protocol not created", map[string]interface{}{
			"committed": "b-1",
		}),
	}
	handler := NewLevelBHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/level-b/b-1/complete", []byte(`{"consequence_type":"iss"}`))
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	handler.Complete(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, mockSvc.completeReq.ConsequenceType)
	assert.Equal(t, "iss", *mockSvc.completeReq.ConsequenceType)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, appErrors.ErrPartialEscalation.Code, errBody["code"])
}

type levelCServiceMock struct {
	levelCService
	listQuery dto.LevelCListQuery
	listActor *models.Actor
	exportFmt string
	exportErr error
	closeErr  error
}

func (m *levelCServiceMock) List(ctx context.Context, query dto.LevelCListQuery, actor *models.Actor) ([]models.LevelCCase, *models.Pagination, error) {
	m.listQuery = query
	m.listActor = actor
	return []models.LevelCCase{{ID: "case-1"}}, &models.Pagination{Limit: 50, TotalCount: 1}, nil
}

func (m *levelCServiceMock) Close(ctx context.Context, id string, req dto.CloseCaseRequest, actor *models.Actor) (*models.LevelCCase, error) {
	return nil, m.closeErr
}

func (m *levelCServiceMock) Export(ctx context.Context, id, format string) (*service.Document, error) {
	m.exportFmt = format
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	return &service.Document{Filename: "case-" + id + ".csv", ContentType: "text/csv", Body: []byte("section,field,value\n")}, nil
}

func TestLevelCHandlerListMyCaseload(t *testing.T) {
	mockSvc := &levelCServiceMock{}
	handler := NewLevelCHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/level-c?my_caseload=true&status=monitoring", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.listQuery.MyCaseload)
	assert.Equal(t, "monitoring", mockSvc.listQuery.Status)
	require.NotNil(t, mockSvc.listActor)
	assert.Equal(t, "counselor-1", mockSvc.listActor.ID)
	assert.EqualValues(t, 1, decodeEnvelope(t, w)["count"])
}

func TestLevelCHandlerCloseConflict(t *testing.T) {
	handler := NewLevelCHandler(&levelCServiceMock{closeErr: appErrors.Clone(appErrors.ErrConflict, "case already closed")})

	c, w := newTestContext(http.MethodPost, "/level-c/case-1/close", []byte(`{"outcome_status":"success"}`))
	c.Params = gin.Params{{Key: "id", Value: "case-1"}}
	handler.Close(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLevelCHandlerExport(t *testing.T) {
	mockSvc := &levelCServiceMock{}
	handler := NewLevelCHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/level-c/case-1/export?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "case-1"}}
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mockSvc.exportFmt)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "case-case-1.csv")
	assert.Equal(t, "section,field,value\n", w.Body.String())
}

type reentryServiceMock struct {
	reentryService
	createReq dto.CreateReentryRequest
	createErr error
	scriptErr error
}

func (m *reentryServiceMock) Create(ctx context.Context, req dto.CreateReentryRequest, actor *models.Actor) (*models.ReentryProtocol, error) {
	m.createReq = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.ReentryProtocol{ID: "re-1", StudentID: req.StudentID}, nil
}

func (m *reentryServiceMock) Script(ctx context.Context, id, format string) (*service.Document, error) {
	return nil, m.scriptErr
}

func TestReentryHandlerCreateRepairPath(t *testing.T) {
	mockSvc := &reentryServiceMock{}
	handler := NewReentryHandler(mockSvc)

	payload := `{"student_id":"stu-1","source_type":"oss","source_id":"case-1"}`
	c, w := newTestContext(http.MethodPost, "/reentry", []byte(payload))
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mockSvc.createReq.SourceID)
	assert.Equal(t, "case-1", *mockSvc.createReq.SourceID)
}

func TestReentryHandlerCreateAlreadyLinked(t *testing.T) {
	handler := NewReentryHandler(&reentryServiceMock{createErr: appErrors.Clone(appErrors.ErrConflict, "source already has a reentry protocol")})

	c, w := newTestContext(http.MethodPost, "/reentry", []byte(`{"student_id":"stu-1","source_type":"oss","source_id":"case-1"}`))
	handler.Create(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestReentryHandlerScriptBadFormat(t *testing.T) {
	handler := NewReentryHandler(&reentryServiceMock{scriptErr: appErrors.Clone(appErrors.ErrValidation, "format must be text or pdf")})

	c, w := newTestContext(http.MethodGet, "/reentry/re-1/script?format=docx", nil)
	c.Params = gin.Params{{Key: "id", Value: "re-1"}}
	handler.Script(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

type auditHistoryMock struct {
	resource string
	id       string
}

func (m *auditHistoryMock) History(ctx context.Context, resource, resourceID string) ([]models.AuditLog, error) {
	m.resource = resource
	m.id = resourceID
	return []models.AuditLog{{ID: "log-1", Action: models.AuditActionLevelCCreate, Resource: resource}}, nil
}

func TestAuditHandlerHistory(t *testing.T) {
	mockSvc := &auditHistoryMock{}
	handler := NewAuditHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/audit-logs/level_c/case-1", nil)
	c.Params = gin.Params{{Key: "resource", Value: "level_c"}, {Key: "id", Value: "case-1"}}
	handler.History(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "level_c", mockSvc.resource)
	assert.Equal(t, "case-1", mockSvc.id)
	data := decodeEnvelope(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
}
