package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hijrafr/expat-services-api/internal/model"
)

func adminJSON(router http.Handler, method, url, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	return w
}

func createTestRequest(t *testing.T, router *gin.Engine) model.AssistanceRequest {
	t.Helper()
	w := postJSON(router, "/api/v1/assistance-requests",
		`{"client_name":"Yasmine Benali","client_email":"yasmine@example.com","country_id":"uae","service_code":"residence-visa-new"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var req model.AssistanceRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &req))
	return req
}

func TestAssistanceHandler_Intake(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router := setupPortalRouter(t)

	t.Run("happy: public intake defaults to new/medium", func(t *testing.T) {
		req := createTestRequest(t, router)
		assert.NotEmpty(t, req.ID)
		assert.Equal(t, "new", req.Status)
		assert.Equal(t, "medium", req.Priority)
	})

	t.Run("bad: unknown country", func(t *testing.T) {
		w := postJSON(router, "/api/v1/assistance-requests",
			`{"client_name":"X","client_email":"x@example.com","country_id":"atlantis","service_code":"y"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad: missing email", func(t *testing.T) {
		w := postJSON(router, "/api/v1/assistance-requests",
			`{"client_name":"X","country_id":"uae","service_code":"y"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAssistanceHandler_BackOfficeFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router := setupPortalRouter(t)
	token := loginTestAdmin(t, router)
	request := createTestRequest(t, router)

	t.Run("list includes the new request", func(t *testing.T) {
		w := getWithToken(router, "/api/v1/admin/assistance-requests?status=new", token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Requests []model.AssistanceRequest `json:"requests"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Requests)
	})

	t.Run("partial update changes only provided fields", func(t *testing.T) {
		w := adminJSON(router, "PATCH", "/api/v1/admin/assistance-requests/"+request.ID, token,
			`{"status":"in_review"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated model.AssistanceRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, "in_review", updated.Status)
		assert.Equal(t, "medium", updated.Priority, "untouched fields keep their values")
	})

	t.Run("bad: invalid status value", func(t *testing.T) {
		w := adminJSON(router, "PATCH", "/api/v1/admin/assistance-requests/"+request.ID, token,
			`{"status":"teleported"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("document upload and review", func(t *testing.T) {
		w := adminJSON(router, "POST", "/api/v1/admin/assistance-requests/"+request.ID+"/documents", token,
			`{"name":"passeport.pdf","doc_type":"passport"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var doc model.Document
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Equal(t, "pending", doc.Status)

		review := adminJSON(router, "POST", "/api/v1/admin/documents/"+doc.ID+"/review", token,
			`{"status":"approved","notes":"lisible et valide"}`)
		require.Equal(t, http.StatusOK, review.Code, review.Body.String())

		list := getWithToken(router, "/api/v1/admin/assistance-requests/"+request.ID+"/documents", token)
		require.Equal(t, http.StatusOK, list.Code)

		var resp struct {
			Documents []model.Document `json:"documents"`
		}
		require.NoError(t, json.Unmarshal(list.Body.Bytes(), &resp))
		require.Len(t, resp.Documents, 1)
		assert.Equal(t, "approved", resp.Documents[0].Status)
		assert.Equal(t, "Test Admin", resp.Documents[0].ReviewedBy)
	})

	t.Run("notes attributed to the logged-in admin", func(t *testing.T) {
		w := adminJSON(router, "POST", "/api/v1/admin/assistance-requests/"+request.ID+"/notes", token,
			`{"content":"dossier complet, en attente de traduction"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var note model.AdminNote
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
		assert.Equal(t, "Test Admin", note.CreatedBy)
		assert.Equal(t, "internal", note.NoteType)
	})

	t.Run("bad: unknown request id", func(t *testing.T) {
		w := getWithToken(router, "/api/v1/admin/assistance-requests/00000000-0000-0000-0000-000000000000", token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
