package testutil

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/mmk-backoffice/internal/domain/model"
)

func TestFakeBackend_RoutesAndRecords(t *testing.T) {
	b := NewFakeBackend(t)
	b.RespondPage(http.MethodGet, "/organizations", []model.Organization{NewOrganization().Build()},
		model.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1})

	resp, err := http.Get(b.URL() + "/organizations?page=1&limit=20")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                 `json:"success"`
		Data    []model.Organization `json:"data"`
		Meta    struct {
			Pagination model.Pagination `json:"pagination"`
		} `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Acme Salon", body.Data[0].Name)
	assert.Equal(t, 1, body.Meta.Pagination.Total)

	last, ok := b.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/organizations", last.Path)
	assert.Equal(t, "20", last.Query.Get("limit"))
}

func TestFakeBackend_UnknownRouteIs404(t *testing.T) {
	b := NewFakeBackend(t)
	b.RespondError(http.MethodPost, "/login", http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")

	resp, err := http.Post(b.URL()+"/login", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(b.URL() + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Len(t, b.Requests(), 2)
}

func TestPrincipalBuilder(t *testing.T) {
	p := NewPrincipal().WithID("a-9").Elevated().Build()
	assert.Equal(t, "a-9", p.ID)
	assert.True(t, p.IsElevated())
	assert.False(t, NewPrincipal().Build().IsElevated())
}
