package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Terjeeld/lasviewer/internal/las"
	"github.com/Terjeeld/lasviewer/internal/models"
	"github.com/Terjeeld/lasviewer/internal/service"
)

func storedFileFixture(t *testing.T) models.LogFile {
	t.Helper()
	curves := models.NewCurveSet()
	if err := curves.Add("DEPT", []float64{100, 100.5, 101}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := curves.Add("GR", []float64{45.2, 46.1, 44.8}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return models.LogFile{
		ID:         "file-1",
		OwnerID:    7,
		Name:       "well.las",
		SizeBytes:  512,
		Header:     []models.HeaderField{{Section: "WELL", Mnemonic: "WELL", Value: "TEST-1"}},
		Curves:     curves,
		DepthCurve: "DEPT",
		UploadedAt: time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC),
	}
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, mw.FormDataContentType()
}

func doAuthed(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadFile_Success(t *testing.T) {
	files := &mockFiles{uploadFile: storedFileFixture(t)}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Files: files}
	r := newTestRouter(s)

	body, contentType := multipartBody(t, "file", "well.las", "~C\n DEPT.M : d\n~A\n 1.0\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	w := doAuthed(r, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload status=%d, body=%s", w.Code, w.Body.String())
	}
	if files.uploadCalls != 1 {
		t.Fatalf("Upload calls = %d", files.uploadCalls)
	}
	if files.lastOwnerID != 7 {
		t.Fatalf("ownerID = %d; want 7 (from token)", files.lastOwnerID)
	}
	if files.lastUploadName != "well.las" {
		t.Fatalf("upload name = %q", files.lastUploadName)
	}

	var resp struct {
		Status string `json:"status"`
		File   struct {
			ID         string   `json:"id"`
			Curves     []string `json:"curves"`
			DepthCurve string   `json:"depth_curve"`
			Samples    int      `json:"samples"`
		} `json:"file"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != statusUploaded || resp.File.ID != "file-1" {
		t.Fatalf("bad response: %+v", resp)
	}
	if len(resp.File.Curves) != 2 || resp.File.DepthCurve != "DEPT" || resp.File.Samples != 3 {
		t.Fatalf("summary missing curve info: %+v", resp.File)
	}
}

func TestUploadFile_RequiresMultipartField(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Files: &mockFiles{}}
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", bytes.NewBufferString("raw"))
	req.Header.Set("Content-Type", "text/plain")
	w := doAuthed(r, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d; want 400", w.Code)
	}
}

func TestUploadFile_ParseErrorIs400(t *testing.T) {
	files := &mockFiles{uploadErr: &las.ParseError{Line: 4, Msg: "bad numeric value"}}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Files: files}
	r := newTestRouter(s)

	body, contentType := multipartBody(t, "file", "broken.las", "junk")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	w := doAuthed(r, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d; want 400, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Error == "" {
		t.Fatalf("parse error message missing from body: %s", w.Body.String())
	}
}

func TestGetFile_FoundAndMissing(t *testing.T) {
	files := &mockFiles{getFile: storedFileFixture(t)}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Files: files}
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/file-1", nil)
	w := doAuthed(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		File   map[string]any       `json:"file"`
		Header []models.HeaderField `json:"header"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Header) != 1 || resp.Header[0].Value != "TEST-1" {
		t.Fatalf("header missing: %+v", resp.Header)
	}
	if files.lastGetID != "file-1" {
		t.Fatalf("get id = %q", files.lastGetID)
	}

	// Missing file → 404
	files.getErr = service.ErrFileNotFound
	req = httptest.NewRequest(http.MethodGet, "/api/v1/files/nope", nil)
	w = doAuthed(r, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing file status=%d; want 404", w.Code)
	}
}

func TestListFiles(t *testing.T) {
	files := &mockFiles{listFiles: []models.LogFile{
		{ID: "a", Name: "a.las"},
		{ID: "b", Name: "b.las"},
	}}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Files: files}
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
	w := doAuthed(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	var resp struct {
		Count int              `json:"count"`
		Files []models.LogFile `json:"files"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 2 || len(resp.Files) != 2 {
		t.Fatalf("bad list: %+v", resp)
	}
}

func TestPlotCurve_Success(t *testing.T) {
	files := &mockFiles{plotReq: models.PlotRequest{
		X:      []float64{100, 100.5, 101},
		Y:      []float64{45.2, 46.1, 44.8},
		XLabel: "DEPT",
		YLabel: "GR",
	}}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Files: files}
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/file-1/plot?curve=GR", nil)
	w := doAuthed(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("plot status=%d, body=%s", w.Code, w.Body.String())
	}
	if files.lastPlotID != "file-1" || files.lastPlotCurve != "GR" || files.lastPlotDepth != "" {
		t.Fatalf("plot args = (%q, %q, %q)", files.lastPlotID, files.lastPlotCurve, files.lastPlotDepth)
	}

	var req2 models.PlotRequest
	if err := json.Unmarshal(w.Body.Bytes(), &req2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req2.XLabel != "DEPT" || req2.YLabel != "GR" || len(req2.X) != 3 {
		t.Fatalf("plot body = %+v", req2)
	}
}

func TestPlotCurve_DepthOverrideForwarded(t *testing.T) {
	files := &mockFiles{}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Files: files}
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/file-1/plot?curve=GR&depth=TVD", nil)
	w := doAuthed(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("plot status=%d", w.Code)
	}
	if files.lastPlotDepth != "TVD" {
		t.Fatalf("depth override = %q; want TVD", files.lastPlotDepth)
	}
}

func TestPlotCurve_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"missing curve param", nil, http.StatusBadRequest},
		{"file not found", service.ErrFileNotFound, http.StatusNotFound},
		{"unknown curve", &service.UnknownCurveError{Name: "RHOB"}, http.StatusBadRequest},
		{"inconsistent lengths", service.ErrInconsistentSampleCount, http.StatusBadRequest},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			files := &mockFiles{plotErr: tc.err}
			s := &service.Service{Authorization: &mockAuth{parseID: 7}, Files: files}
			r := newTestRouter(s)

			url := "/api/v1/files/file-1/plot?curve=GR"
			if tc.err == nil {
				url = "/api/v1/files/file-1/plot" // no curve param at all
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			w := doAuthed(r, req)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d; want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestDeleteFile(t *testing.T) {
	files := &mockFiles{}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Files: files}
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/files/file-1", nil)
	w := doAuthed(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status=%d", w.Code)
	}
	if files.deleteCalls != 1 {
		t.Fatalf("Delete calls = %d", files.deleteCalls)
	}

	files.deleteErr = service.ErrFileNotFound
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/files/nope", nil)
	w = doAuthed(r, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete missing status=%d; want 404", w.Code)
	}
}

func TestFilesEndpoints_RequireAuth(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{parseErr: http.ErrNoCookie}, Files: &mockFiles{}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}
}
