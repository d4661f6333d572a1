package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"estampa-studio/service"
)

// UploadController accepts user-supplied images for the customizer and
// returns their durable URLs.
type UploadController struct {
	uploads *service.UploadService
}

// NewUploadController creates a new UploadController
func NewUploadController(uploads *service.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// Upload handles POST /customizer/uploads
// Accepts a multipart form with an "image" file field.
func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(12 << 20); err != nil {
		http.Error(w, fmt.Sprintf("Invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusInternalServerError)
		return
	}

	url, err := c.uploads.Store(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		// Upload failures are fatal to this operation only: the element is
		// simply never added.
		http.Error(w, fmt.Sprintf("Failed to store upload: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"url": url}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
