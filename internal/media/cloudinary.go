// Package media is the boundary to the external image host. One
// multipart POST per upload, no retry, no chunking, no progress.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrUploadFailed reports that the media host returned no usable URL.
var ErrUploadFailed = errors.New("upload returned no url")

const defaultEndpoint = "https://api.cloudinary.com/v1_1"

// Uploader posts images to Cloudinary using an unsigned upload preset.
type Uploader struct {
	endpoint  string
	cloudName string
	preset    string
	client    *http.Client
}

func NewUploader(cloudName, preset string) *Uploader {
	return &Uploader{
		endpoint:  defaultEndpoint,
		cloudName: cloudName,
		preset:    preset,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// NewUploaderWithEndpoint points the uploader at a custom base URL.
// Used by tests.
func NewUploaderWithEndpoint(endpoint, cloudName, preset string) *Uploader {
	u := NewUploader(cloudName, preset)
	u.endpoint = endpoint
	return u
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends one image and returns its durable public URL.
func (u *Uploader) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	body, contentType, err := buildForm(filename, file, u.preset, u.cloudName)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/image/upload", u.endpoint, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("media upload: %w", err)
	}
	defer resp.Body.Close()

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("media upload: decode response: %w", err)
	}

	if parsed.SecureURL == "" {
		if parsed.Error.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrUploadFailed, parsed.Error.Message)
		}
		return "", ErrUploadFailed
	}
	return parsed.SecureURL, nil
}

func buildForm(filename string, file io.Reader, preset, cloudName string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("upload_preset", preset); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("cloud_name", cloudName); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
