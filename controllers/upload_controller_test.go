package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/choripam/choripam-api/services"
	"github.com/choripam/choripam-api/utils"
)

func setupUploadRouter(t *testing.T, images services.ImageService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uc := NewUploadController(images)
	router := gin.New()
	router.GET("/api/v1/uploads/:filename", GetUploadedImage)
	admin := router.Group("/api/v1/admin", asAdmin("choripam"))
	admin.POST("/uploads", uc.UploadImage)
	admin.DELETE("/uploads/:key", uc.DeleteImage)
	return router
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadImageToS3(t *testing.T) {
	mockS3 := services.NewMockS3Service()
	router := setupUploadRouter(t, services.NewS3ImageService(mockS3))

	body, contentType := multipartUpload(t, "image", "choripapa.png", []byte("fake png"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := newRecorder(router, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	key := data["key"].(string)
	assert.True(t, mockS3.HasFile(key))
	assert.NotEmpty(t, data["url"])
}

func TestUploadImageRejectsBadFormat(t *testing.T) {
	router := setupUploadRouter(t, services.NewS3ImageService(services.NewMockS3Service()))

	body, contentType := multipartUpload(t, "image", "document.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := newRecorder(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_FILE_FORMAT")
}

func TestUploadImageRequiresFile(t *testing.T) {
	router := setupUploadRouter(t, services.NewS3ImageService(services.NewMockS3Service()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", nil)
	w := newRecorder(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestUploadImageS3Failure(t *testing.T) {
	mockS3 := services.NewMockS3Service()
	mockS3.FailUploads = true
	router := setupUploadRouter(t, services.NewS3ImageService(mockS3))

	body, contentType := multipartUpload(t, "image", "choripapa.png", []byte("fake png"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := newRecorder(router, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "UPLOAD_FAILED")
}

func TestLocalUploadAndServe(t *testing.T) {
	dir := t.TempDir()
	router := setupUploadRouter(t, services.NewLocalImageService(dir))

	originalUploadDir := utils.UploadDir
	utils.UploadDir = dir
	t.Cleanup(func() { utils.UploadDir = originalUploadDir })

	body, contentType := multipartUpload(t, "image", "choripapa.png", []byte("fake png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := newRecorder(router, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	filename := data["key"].(string)

	// The stored file is served back through the public uploads route
	req = httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+filename, nil)
	w = newRecorder(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte("fake png bytes"), w.Body.Bytes())

	// And exists on disk where the service put it
	_, err := os.Stat(filepath.Join(dir, filename))
	assert.NoError(t, err)
}

func TestGetUploadedImageRejections(t *testing.T) {
	router := setupUploadRouter(t, services.NewS3ImageService(services.NewMockS3Service()))

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "traversal attempt", path: "/api/v1/uploads/..secret.png", expectedStatus: http.StatusBadRequest},
		{name: "unsupported extension", path: "/api/v1/uploads/file.gif", expectedStatus: http.StatusBadRequest},
		{name: "missing file", path: "/api/v1/uploads/missing.png", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := newRecorder(router, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
