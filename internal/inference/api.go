package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"lpr-console/internal/domain/lpr"
)

func (c *Client) Health(ctx context.Context) (*lpr.HealthStatus, error) {
	var status lpr.HealthStatus
	if err := c.Do(ctx, http.MethodGet, APIVersion+"/health/", nil, "", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) PredictImage(ctx context.Context, file lpr.File, overlay bool) (lpr.Record, error) {
	return c.predict(ctx, "/predict/image/", file, map[string]string{
		"overlay": strconv.FormatBool(overlay),
	})
}

func (c *Client) PredictVideo(ctx context.Context, file lpr.File, skipFrames int) (lpr.Record, error) {
	if skipFrames < 0 {
		skipFrames = lpr.DefaultSkipFrames
	}
	return c.predict(ctx, "/predict/video/", file, map[string]string{
		"skip_frames": strconv.Itoa(skipFrames),
	})
}

func (c *Client) CreateAPIKey(ctx context.Context, name string) (*lpr.APIKey, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var key lpr.APIKey
	if err := c.Do(ctx, http.MethodPost, APIVersion+"/api-keys/create/", bytes.NewReader(payload), "application/json", &key); err != nil {
		return nil, err
	}
	if key.Key == "" {
		return nil, fmt.Errorf("no api_key in response")
	}
	return &key, nil
}

func (c *Client) predict(ctx context.Context, path string, file lpr.File, fields map[string]string) (lpr.Record, error) {
	body, contentType, err := multipartBody(file, fields)
	if err != nil {
		return nil, err
	}

	var record lpr.Record
	if err := c.Do(ctx, http.MethodPost, APIVersion+path, body, contentType, &record); err != nil {
		return nil, err
	}
	return record, nil
}

func multipartBody(file lpr.File, fields map[string]string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write file part: %w", err)
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
