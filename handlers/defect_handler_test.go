package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qa-workflow-simulator/models"
	"qa-workflow-simulator/services"
)

func TestRegisterDefectEndpointIdempotent(t *testing.T) {
	router := newRouter()

	payload := models.RegisterDefectRequest{
		ID:           services.DefectResponsiveLayout,
		Summary:      "Action buttons are clipped on narrow viewports",
		Reproduction: "Resize the viewport below 480px",
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/defects", payload)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["triggered"])
	assert.Equal(t, float64(1), resp["count"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/defects", payload)
	resp = decode(t, w)
	assert.Equal(t, false, resp["triggered"])
	assert.Equal(t, float64(1), resp["count"])
}

func TestRegisterDefectEndpointValidation(t *testing.T) {
	router := newRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/defects", map[string]string{"summary": "missing id"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDefectListAndReset(t *testing.T) {
	router := newRouter()

	doJSON(t, router, http.MethodPost, "/api/v1/defects", models.RegisterDefectRequest{
		ID:      "edit-while-published",
		Summary: "Published article can be edited in place",
	})

	w := doJSON(t, router, http.MethodGet, "/api/v1/defects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(1), resp["count"])
	defects := resp["defects"].([]interface{})
	require.Len(t, defects, 1)
	first := defects[0].(map[string]interface{})
	assert.Equal(t, "edit-while-published", first["id"])
	assert.NotEmpty(t, first["found_at"])

	w = doJSON(t, router, http.MethodDelete, "/api/v1/defects", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/defects", nil)
	resp = decode(t, w)
	assert.Equal(t, float64(0), resp["count"])
}
