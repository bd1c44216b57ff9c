package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Terjeeld/lasviewer/internal/models"
	"github.com/Terjeeld/lasviewer/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockFiles struct {
	uploadFile models.LogFile
	uploadErr  error
	getFile    models.LogFile
	getErr     error
	listFiles  []models.LogFile
	listErr    error
	deleteErr  error
	plotReq    models.PlotRequest
	plotErr    error

	uploadCalls    int
	deleteCalls    int
	lastUploadName string
	lastUploadData []byte
	lastOwnerID    int
	lastGetID      string
	lastPlotID     string
	lastPlotDepth  string
	lastPlotCurve  string
}

func (m *mockFiles) Upload(ctx context.Context, ownerID int, name string, data []byte) (models.LogFile, error) {
	m.uploadCalls++
	m.lastOwnerID = ownerID
	m.lastUploadName = name
	m.lastUploadData = data
	return m.uploadFile, m.uploadErr
}
func (m *mockFiles) Get(ctx context.Context, ownerID int, id string) (models.LogFile, error) {
	m.lastOwnerID = ownerID
	m.lastGetID = id
	return m.getFile, m.getErr
}
func (m *mockFiles) List(ctx context.Context, ownerID int) ([]models.LogFile, error) {
	m.lastOwnerID = ownerID
	return m.listFiles, m.listErr
}
func (m *mockFiles) Delete(ctx context.Context, ownerID int, id string) error {
	m.deleteCalls++
	m.lastOwnerID = ownerID
	m.lastGetID = id
	return m.deleteErr
}
func (m *mockFiles) BuildPlot(ctx context.Context, ownerID int, id, depthName, targetName string) (models.PlotRequest, error) {
	m.lastOwnerID = ownerID
	m.lastPlotID = id
	m.lastPlotDepth = depthName
	m.lastPlotCurve = targetName
	return m.plotReq, m.plotErr
}

type mockActivityLog struct {
	resp     []models.ActivityEvent
	err      error
	calls    int
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockActivityLog) List(ctx context.Context, f service.LogFilter) ([]models.ActivityEvent, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
