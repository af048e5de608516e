package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/memory"
	"github.com/mamadbah2/dairy/internal/server/handlers"
	entriessvc "github.com/mamadbah2/dairy/internal/service/entries"
)

func newEntryRouter(t *testing.T, store *memory.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := entriessvc.NewService(store, store, zaptest.NewLogger(t))
	handler := handlers.NewEntryHandler(svc, store, zaptest.NewLogger(t))

	r := gin.New()
	r.POST("/api/milk-entries/customer/:customerId", handler.Save)
	r.PUT("/api/milk-entries/customer/:customerId/date/:date", handler.UpdateByDate)
	r.GET("/api/milk-entries/customer/:customerId", handler.ListByCustomer)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSaveEntryCreatedThenUpdated(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	r := newEntryRouter(t, store)
	path := "/api/milk-entries/customer/" + customerID.Hex()

	rec := doJSON(t, r, http.MethodPost, path, gin.H{"date": "2024-03-10", "cow": 4, "buffalo": 2})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, path, gin.H{"date": "2024-03-10", "cow": 6})
	assert.Equal(t, http.StatusOK, rec.Code, "second save of the same day must answer 200")

	var entry models.MilkEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, 6.0, entry.Cow)
	assert.Equal(t, 0.0, entry.Buffalo, "replace is wholesale, buffalo resets to the request value")
}

func TestSaveEntryValidation(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	r := newEntryRouter(t, store)

	rec := doJSON(t, r, http.MethodPost, "/api/milk-entries/customer/nope", gin.H{"date": "2024-03-10"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/milk-entries/customer/"+customerID.Hex(), gin.H{"date": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/milk-entries/customer/"+customerID.Hex(), gin.H{"date": "2024-03-10", "cow": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateByDateAnswers404WithoutEntry(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	r := newEntryRouter(t, store)

	rec := doJSON(t, r, http.MethodPut,
		"/api/milk-entries/customer/"+customerID.Hex()+"/date/2024-03-10",
		gin.H{"cow": 5})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	store.SeedEntry(models.MilkEntry{
		CustomerID: customerID,
		Date:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local),
		Cow:        2,
	})

	rec = doJSON(t, r, http.MethodPut,
		"/api/milk-entries/customer/"+customerID.Hex()+"/date/2024-03-10",
		gin.H{"cow": 5})
	assert.Equal(t, http.StatusOK, rec.Code)

	entry, err := store.FindEntryForDay(context.Background(), customerID, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, 5.0, entry.Cow)
}

func TestListByCustomerReturnsAscendingDates(t *testing.T) {
	store := memory.NewStore()
	customerID := store.SeedCustomer("Ravi")
	for d := 12; d >= 10; d-- {
		store.SeedEntry(models.MilkEntry{
			CustomerID: customerID,
			Date:       time.Date(2024, 3, d, 0, 0, 0, 0, time.Local),
			Cow:        float64(d),
		})
	}
	r := newEntryRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/milk-entries/customer/"+customerID.Hex(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []models.MilkEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 3)
	for i := 1; i < len(listed); i++ {
		assert.True(t, listed[i-1].Date.Before(listed[i].Date))
	}
}
