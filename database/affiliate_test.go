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

package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmint/linkmint/internal/apierror"
	"github.com/linkmint/linkmint/model"
)

func TestCreateAffiliateRecord(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectExec("INSERT INTO affiliates").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateAffiliate(context.Background(), model.Affiliate{
		StoreID:       "store_1",
		Email:         gofakeit.Email(),
		Name:          gofakeit.Name(),
		CommissionBps: 1500,
		MetaData:      map[string]interface{}{"recruitment_score": 45},
	})
	require.NoError(t, err)
	assert.Contains(t, created.AffiliateID, "aff_")
	assert.Equal(t, model.StatusPending, created.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAffiliateDuplicateEmail(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectExec("INSERT INTO affiliates").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_affiliates_store_email"})

	_, err := ds.CreateAffiliate(context.Background(), model.Affiliate{
		StoreID: "store_1",
		Email:   "taken@creator.example",
	})
	require.Error(t, err)

	var apiErr apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAffiliateByIDNotFound(t *testing.T) {
	ds, mock := newTestDatasource(t)

	mock.ExpectQuery("SELECT .* FROM affiliates").
		WithArgs("aff_missing").
		WillReturnRows(sqlmock.NewRows([]string{"affiliate_id"}))

	_, err := ds.GetAffiliateByID(context.Background(), "aff_missing")
	require.Error(t, err)

	var apiErr apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
