/*
Copyright 2024 Linkmint Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmint/linkmint"
	model2 "github.com/linkmint/linkmint/api/model"
	"github.com/linkmint/linkmint/config"
	"github.com/linkmint/linkmint/database"
	"github.com/linkmint/linkmint/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	if s.Response != nil {
		if err := json.NewDecoder(resp.Body).Decode(&s.Response); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
	})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	lm, err := linkmint.NewLinkmint(&database.Datasource{Conn: db})
	require.NoError(t, err)

	return NewAPI(lm).Router(), mock
}

func trackedLinkRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"link_id", "affiliate_id", "store_id", "tracking_code", "original_url",
		"utm_source", "utm_medium", "utm_campaign", "clicks", "conversions", "revenue", "created_at", "meta_data",
	}).AddRow("lnk_api1", "aff_api1", "store_1", "AB12CD34", "https://store.example/products/boots",
		"", "", "", 0, 0, 0, time.Now(), nil)
}

func activeAffiliateRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"affiliate_id", "store_id", "email", "name", "website", "commission_bps", "status",
		"total_earnings", "total_sales", "click_count", "conversion_rate", "created_at", "meta_data",
	}).AddRow("aff_api1", "store_1", "a@creator.example", "A Creator", "", 1000, model.StatusActive,
		0, 0, 0, 0.0, time.Now(), nil)
}

func TestReceiveOrderEventOrganic(t *testing.T) {
	router, mock := setupRouter(t)

	payload, err := json.Marshal(model2.OrderWebhook{
		OrderID: "ord_organic",
		StoreID: "store_1",
		Amount:  "42.00",
	})
	require.NoError(t, err)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBuffer(payload),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/webhooks/orders",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, false, response["attributed"])
	assert.Equal(t, "ord_organic", response["order_id"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiveOrderEventAttributed(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT .* FROM tracking_links").WillReturnRows(trackedLinkRow())
	mock.ExpectQuery("SELECT .* FROM affiliates").WillReturnRows(activeAffiliateRow())
	mock.ExpectExec("INSERT INTO commission_entries").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE tracking_links").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE affiliates").WillReturnResult(sqlmock.NewResult(0, 1))

	payload, err := json.Marshal(model2.OrderWebhook{
		OrderID:  "ord_tracked",
		StoreID:  "store_1",
		Amount:   "250.00",
		MetaData: map[string]string{model.TrackingCodeMetaKey: "AB12CD34"},
	})
	require.NoError(t, err)

	var response struct {
		OrderID    string                `json:"order_id"`
		Attributed bool                  `json:"attributed"`
		Commission model.CommissionEntry `json:"commission"`
	}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBuffer(payload),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/webhooks/orders",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, response.Attributed)
	assert.Equal(t, "aff_api1", response.Commission.AffiliateID)
	assert.Equal(t, int64(2500), response.Commission.CommissionCent)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiveOrderEventRejectsMissingFields(t *testing.T) {
	router, mock := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBufferString(`{"order_id": "ord_1"}`),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/webhooks/orders",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedirectClick(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT .* FROM tracking_links").WillReturnRows(trackedLinkRow())
	mock.ExpectQuery("SELECT .* FROM affiliates").WillReturnRows(activeAffiliateRow())
	mock.ExpectExec("UPDATE tracking_links").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE affiliates").WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodGet, "/r/AB12CD34", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusFound, resp.Code)
	location := resp.Header().Get("Location")
	assert.Contains(t, location, "https://store.example/products/boots")
	assert.Contains(t, location, "AB12CD34")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedirectClickUnknownCode(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT .* FROM tracking_links").
		WillReturnRows(sqlmock.NewRows([]string{"link_id"}))

	req := httptest.NewRequest(http.MethodGet, "/r/NOPE0000", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTrackingLinkValidation(t *testing.T) {
	router, mock := setupRouter(t)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBufferString(`{"affiliate_id": "aff_1", "original_url": "not a url"}`),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/links",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
