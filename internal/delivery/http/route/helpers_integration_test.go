//go:build integration

package route_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/ferdian3456/brewlog/internal/testinfra"
	"github.com/stretchr/testify/require"
)

func startApp(t *testing.T) *testinfra.App {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	infra := testinfra.StartInfra(ctx, t)
	app := testinfra.SetupTestApp(t, infra)
	t.Cleanup(func() { testinfra.TruncateAllTables(context.Background(), t, app.DB) })
	return app
}

// call sends a JSON request and decodes the response body.
func call(t *testing.T, app *testinfra.App, method string, target string, body any, token string) (int, map[string]any) {
	t.Helper()

	resp, err := app.Fiber.Test(testinfra.JSONRequest(method, target, body, token), -1)
	require.NoError(t, err)
	return resp.StatusCode, testinfra.Decode(t, resp)
}

func createCoffee(t *testing.T, app *testinfra.App, token string, fields map[string]any) string {
	t.Helper()

	payload := map[string]any{"roastDate": "2024-05-01"}
	for key, value := range fields {
		payload[key] = value
	}

	status, body := call(t, app, http.MethodPost, "/api/coffees/", payload, token)
	require.Equal(t, http.StatusCreated, status, "create coffee: %v", body)
	return body["id"].(string)
}

func createBrew(t *testing.T, app *testinfra.App, token string, coffeeId string, rating int, isPublic bool) string {
	t.Helper()

	status, body := call(t, app, http.MethodPost, "/api/brews/", map[string]any{
		"coffee":          coffeeId,
		"brewMethod":      "V60",
		"brewTemperature": 93,
		"brewRatio":       map[string]any{"coffee": 15, "water": 250},
		"grindSize":       "Medium-Fine",
		"rating":          rating,
		"isPublic":        isPublic,
	}, token)
	require.Equal(t, http.StatusCreated, status, "create brew: %v", body)
	return body["id"].(string)
}

func coffeeNames(body map[string]any) []string {
	names := []string{}
	for _, raw := range body["coffees"].([]any) {
		names = append(names, raw.(map[string]any)["name"].(string))
	}
	return names
}
