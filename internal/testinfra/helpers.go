//go:build integration

package testinfra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TruncateAllTables empties every table, children first.
func TruncateAllTables(ctx context.Context, t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	tables := []string{"brew_likes", "brews", "coffees", "friendships", "users"}
	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate table %s", table)
	}
}

// JPEG encodes a solid width x height image.
func JPEG(t *testing.T, width int, height int) []byte {
	t.Helper()

	img := imaging.New(width, height, color.NRGBA{R: 120, G: 72, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func JSONRequest(method string, target string, body any, token string) *http.Request {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func MultipartRequest(t *testing.T, method string, target string, field string, files []File, token string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
		header.Set("Content-Type", file.ContentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.Data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// Decode reads a JSON response body into a generic map.
func Decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

// ErrorCode returns error.code of a failed response.
func ErrorCode(t *testing.T, result map[string]any) string {
	t.Helper()

	errObj, ok := result["error"].(map[string]any)
	require.True(t, ok, "error field should be an object: %v", result)
	code, _ := errObj["code"].(string)
	return code
}

// ErrorMessage returns error.message of a failed response.
func ErrorMessage(t *testing.T, result map[string]any) string {
	t.Helper()

	errObj, ok := result["error"].(map[string]any)
	require.True(t, ok, "error field should be an object: %v", result)
	message, _ := errObj["message"].(string)
	return message
}
