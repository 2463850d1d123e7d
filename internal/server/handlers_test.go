package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/radlens/radlens/apimodels"
	"github.com/radlens/radlens/internal/config"
	"github.com/radlens/radlens/internal/intake"
	"github.com/radlens/radlens/internal/llm"
)

type stubPipeline struct {
	calls int
	resp  *apimodels.AnalysisResponse
	err   error
}

func (s *stubPipeline) Analyze(_ context.Context, _ *intake.Payload) (*apimodels.AnalysisResponse, error) {
	s.calls++
	return s.resp, s.err
}

func testServer(pipeline Pipeline) *Server {
	return New(config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           "0",
			ReadTimeout:    time.Second,
			WriteTimeout:   time.Second,
			MaxUploadBytes: 1 << 20,
			StaticDir:      "web/static",
		},
	}, pipeline)
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", filename)
	assert.NoError(t, err)
	_, err = fw.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))))
	return buf.Bytes()
}

func doUpload(s *Server, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalyzeHappyPath(t *testing.T) {
	pipeline := &stubPipeline{resp: &apimodels.AnalysisResponse{
		Report:   "report text",
		Sections: []apimodels.Section{{Name: "Key Findings", Body: "something"}},
		References: []apimodels.Reference{
			{Title: "Ref", URL: "https://example.org"},
		},
		Metadata: apimodels.AnalysisMetadata{Attempts: 1},
	}}
	s := testServer(pipeline)

	body, contentType := multipartUpload(t, "scan.png", pngBytes(t))
	rec := doUpload(s, body, contentType)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, pipeline.calls)

	var resp apimodels.AnalysisResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "report text", resp.Report)
	assert.Len(t, resp.References, 1)
}

func TestHandleAnalyzeUnsupportedExtension(t *testing.T) {
	pipeline := &stubPipeline{}
	s := testServer(pipeline)

	body, contentType := multipartUpload(t, "scan.tiff", pngBytes(t))
	rec := doUpload(s, body, contentType)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	// The model must never be invoked when intake fails.
	assert.Equal(t, 0, pipeline.calls)

	var errResp apimodels.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Error, ".png", "error must name the supported set")
}

func TestHandleAnalyzeRenamedTextFile(t *testing.T) {
	pipeline := &stubPipeline{}
	s := testServer(pipeline)

	body, contentType := multipartUpload(t, "notes.png", []byte("definitely not a png"))
	rec := doUpload(s, body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, pipeline.calls)
}

func TestHandleAnalyzeMissingFile(t *testing.T) {
	s := testServer(&stubPipeline{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	assert.NoError(t, mw.WriteField("note", "no file here"))
	assert.NoError(t, mw.Close())

	rec := doUpload(s, &body, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzePipelineErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantSubstr string
	}{
		{"authentication", fmt.Errorf("%w: bad key", llm.ErrAuthentication), http.StatusBadGateway, "MODEL_API_KEY"},
		{"transient", fmt.Errorf("%w: 503", llm.ErrTransient), http.StatusServiceUnavailable, "temporarily unavailable"},
		{"invalid response", fmt.Errorf("%w: empty", llm.ErrInvalidResponse), http.StatusBadGateway, "empty or malformed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := testServer(&stubPipeline{err: tc.err})

			body, contentType := multipartUpload(t, "scan.png", pngBytes(t))
			rec := doUpload(s, body, contentType)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var errResp apimodels.ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Contains(t, errResp.Error, tc.wantSubstr)
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s := testServer(&stubPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
