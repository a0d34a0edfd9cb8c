//go:build integration

package route_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ferdian3456/brewlog/internal/testinfra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoffeeListing(t *testing.T) {
	app := startApp(t)

	aliceToken, _ := register(t, app, "alice")
	bobToken, _ := register(t, app, "bobby")

	createCoffee(t, app, aliceToken, map[string]any{"name": "Gayo Wine", "roaster": "Otten", "origin": "Aceh", "isPublic": true, "price": 120000})
	privateId := createCoffee(t, app, aliceToken, map[string]any{"name": "Kintamani", "roaster": "Otten", "origin": "Bali", "price": 90000})
	createCoffee(t, app, bobToken, map[string]any{"name": "Toraja Sapan", "roaster": "Toarco", "origin": "Sulawesi", "isPublic": true, "price": 150000})

	tests := []struct {
		name      string
		token     string
		query     string
		wantNames []string
		wantTotal int
	}{
		{"owner sees public and own private", aliceToken, "?sortBy=name&order=asc", []string{"Gayo Wine", "Kintamani", "Toraja Sapan"}, 3},
		{"others do not see private coffees", bobToken, "?sortBy=name&order=asc", []string{"Gayo Wine", "Toraja Sapan"}, 2},
		{"only mine", aliceToken, "?onlyMine=true&sortBy=name&order=asc", []string{"Gayo Wine", "Kintamani"}, 2},
		{"roaster filter is case insensitive", bobToken, "?roaster=otten", []string{"Gayo Wine"}, 1},
		{"origin filter", aliceToken, "?origin=bal", []string{"Kintamani"}, 1},
		{"full text search", aliceToken, "?search=toraja", []string{"Toraja Sapan"}, 1},
		{"price descending", aliceToken, "?sortBy=price&order=desc", []string{"Toraja Sapan", "Gayo Wine", "Kintamani"}, 3},
		{"unknown sort column falls back to newest first", aliceToken, "?sortBy=password", []string{"Toraja Sapan", "Kintamani", "Gayo Wine"}, 3},
		{"pagination", aliceToken, "?sortBy=name&order=asc&limit=2&page=2", []string{"Toraja Sapan"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, http.MethodGet, "/api/coffees/"+tt.query, nil, tt.token)
			require.Equal(t, http.StatusOK, status)

			assert.Equal(t, tt.wantNames, coffeeNames(body))
			assert.EqualValues(t, tt.wantTotal, body["total"])
		})
	}

	t.Run("private coffee is forbidden to others", func(t *testing.T) {
		status, _ := call(t, app, http.MethodGet, "/api/coffees/"+privateId, nil, bobToken)
		assert.Equal(t, http.StatusForbidden, status)

		status, body := call(t, app, http.MethodGet, "/api/coffees/"+privateId, nil, aliceToken)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Kintamani", body["name"])
	})

	t.Run("similar coffee is a conflict", func(t *testing.T) {
		status, _ := call(t, app, http.MethodPost, "/api/coffees/", map[string]any{
			"name": "gayo wine", "roaster": "otten", "origin": "aceh", "roastDate": "2024-05-02",
		}, aliceToken)
		assert.Equal(t, http.StatusConflict, status)
	})
}

func TestPopularCoffees(t *testing.T) {
	app := startApp(t)
	ctx := context.Background()

	token, _ := register(t, app, "barista")

	gayo := createCoffee(t, app, token, map[string]any{"name": "Gayo Wine", "roaster": "Otten", "origin": "Aceh", "isPublic": true})
	toraja := createCoffee(t, app, token, map[string]any{"name": "Toraja Sapan", "roaster": "Toarco", "origin": "Sulawesi", "isPublic": true})

	createBrew(t, app, token, toraja, 8, true)
	createBrew(t, app, token, toraja, 6, true)
	createBrew(t, app, token, gayo, 9, true)
	createBrew(t, app, token, gayo, 9, false)
	createBrew(t, app, token, gayo, 9, false)

	top := func() []map[string]any {
		resp, err := app.Fiber.Test(testinfra.JSONRequest(http.MethodGet, "/api/coffees/popular/top?limit=5", nil, token), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var entries []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
		return entries
	}

	entries := top()
	require.Len(t, entries, 2)
	assert.Equal(t, "Toraja Sapan", entries[0]["coffee"].(map[string]any)["name"])
	assert.EqualValues(t, 2, entries[0]["brewCount"])
	assert.InDelta(t, 7.0, entries[0]["averageRating"], 0.001)
	assert.EqualValues(t, 1, entries[1]["brewCount"])

	exists, err := app.Cache.Exists(ctx, "coffees:popular:5").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, exists)

	createBrew(t, app, token, gayo, 7, true)
	createBrew(t, app, token, gayo, 7, true)

	entries = top()
	assert.Equal(t, "Toraja Sapan", entries[0]["coffee"].(map[string]any)["name"], "cached ranking is served until it expires")

	require.NoError(t, app.Cache.Del(ctx, "coffees:popular:5").Err())

	entries = top()
	assert.Equal(t, "Gayo Wine", entries[0]["coffee"].(map[string]any)["name"])
	assert.EqualValues(t, 3, entries[0]["brewCount"])
}

func TestBrewLikes(t *testing.T) {
	app := startApp(t)

	ownerToken, _ := register(t, app, "owner")
	fanToken, _ := register(t, app, "fanatic")

	coffeeId := createCoffee(t, app, ownerToken, map[string]any{"name": "Frinsa Natural", "roaster": "Frinsa", "origin": "West Java", "isPublic": true})
	publicBrew := createBrew(t, app, ownerToken, coffeeId, 9, true)
	privateBrew := createBrew(t, app, ownerToken, coffeeId, 5, false)

	status, body := call(t, app, http.MethodPost, "/api/brews/"+publicBrew+"/like", nil, fanToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["liked"])
	assert.EqualValues(t, 1, body["likesCount"])

	status, body = call(t, app, http.MethodPost, "/api/brews/"+publicBrew+"/like", nil, ownerToken)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["likesCount"])

	status, body = call(t, app, http.MethodGet, "/api/brews/"+publicBrew, nil, fanToken)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["likesCount"])
	assert.Equal(t, true, body["likedByMe"])

	status, body = call(t, app, http.MethodPost, "/api/brews/"+publicBrew+"/like", nil, fanToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["liked"])
	assert.EqualValues(t, 1, body["likesCount"])

	status, _ = call(t, app, http.MethodPost, "/api/brews/"+privateBrew+"/like", nil, fanToken)
	assert.Equal(t, http.StatusForbidden, status)
}
