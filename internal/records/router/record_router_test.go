package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LACRA/agritrace360/internal/config"
	"github.com/LACRA/agritrace360/internal/database"
	"github.com/LACRA/agritrace360/internal/records/model"
	"github.com/LACRA/agritrace360/internal/records/service"
	"github.com/LACRA/agritrace360/utils"
)

func setupRouter(t *testing.T, protect gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := database.New(&config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, "warn")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db, service.Models()...))

	engine := gin.New()
	NewRecordRouter(service.NewRecordService(db)).Register(engine.Group("/api"), protect)
	return engine
}

func allow(c *gin.Context) { c.Next() }

func deny(c *gin.Context) {
	utils.WriteErrorCode(c, http.StatusUnauthorized, utils.CodeUnauthorized, "authentication required")
}

func do(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

var commodityBody = map[string]any{
	"batchNumber":  "COF-2024-001",
	"name":         "Coffee Batch 1",
	"type":         "coffee",
	"qualityGrade": "A",
	"county":       "Lofa",
	"quantity":     500,
	"unit":         "kg",
}

func TestRecordRouter_CreateAndList(t *testing.T) {
	engine := setupRouter(t, allow)

	w := do(engine, http.MethodPost, "/api/commodities", commodityBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var commodity model.Commodity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &commodity))
	assert.Equal(t, "COF-2024-001", commodity.BatchNumber)

	w = do(engine, http.MethodPost, "/api/certifications", map[string]any{
		"certificateNumber": "EXP-CERT-2024-001",
		"certificateType":   "export",
		"exporterName":      "Acme Exports",
		"commodityId":       commodity.ID,
		"status":            "active",
		"issuedDate":        "2024-01-01",
		"expiryDate":        "2025-01-01",
		"certificationBody": "LACRA",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(engine, http.MethodGet, "/api/certifications?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page model.ListResult[model.Certification]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, 5, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "EXP-CERT-2024-001", page.Items[0].CertificateNumber)

	w = do(engine, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary model.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, int64(1), summary.Commodities)
	assert.Equal(t, int64(1), summary.CommoditiesByCounty["Lofa"])
}

func TestRecordRouter_Errors(t *testing.T) {
	engine := setupRouter(t, allow)
	require.Equal(t, http.StatusCreated, do(engine, http.MethodPost, "/api/commodities", commodityBody).Code)

	t.Run("duplicate", func(t *testing.T) {
		w := do(engine, http.MethodPost, "/api/commodities", commodityBody)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, utils.CodeConflict, decodeError(t, w).Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := do(engine, http.MethodPost, "/api/reports", map[string]any{"reportId": "EUDR-1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, utils.CodeInvalidArgument, decodeError(t, w).Code)
	})

	t.Run("expiry before issue", func(t *testing.T) {
		w := do(engine, http.MethodPost, "/api/certifications", map[string]any{
			"certificateNumber": "EXP-CERT-2024-002",
			"certificateType":   "quality",
			"exporterName":      "Acme Exports",
			"commodityId":       1,
			"issuedDate":        "2024-06-01",
			"expiryDate":        "2024-01-01",
			"certificationBody": "LACRA",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "expiryDate must not be before issuedDate")
	})

	t.Run("bad pagination", func(t *testing.T) {
		w := do(engine, http.MethodGet, "/api/reports?offset=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid 'offset' query parameter, must be a non-negative integer", decodeError(t, w).Message)
	})
}

func TestRecordRouter_ProtectedRoutes(t *testing.T) {
	engine := setupRouter(t, deny)

	assert.Equal(t, http.StatusUnauthorized, do(engine, http.MethodPost, "/api/commodities", commodityBody).Code)
	assert.Equal(t, http.StatusUnauthorized, do(engine, http.MethodGet, "/api/dashboard/summary", nil).Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/commodities", nil).Code)
}
