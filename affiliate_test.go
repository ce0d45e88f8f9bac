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

package linkmint

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmint/linkmint/model"
)

func TestCreateAffiliate(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	mock.ExpectExec("INSERT INTO affiliates").
		WillReturnResult(sqlmock.NewResult(1, 1))

	affiliate := model.Affiliate{
		StoreID:       "store_1",
		Email:         gofakeit.Email(),
		Name:          gofakeit.Name(),
		CommissionBps: 1500,
	}
	created, err := lm.CreateAffiliate(context.Background(), affiliate, nil)
	require.NoError(t, err)
	assert.Contains(t, created.AffiliateID, "aff_")
	assert.Equal(t, model.StatusPending, created.Status)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)

	assertExpectationsMet(t, mock)
}

func TestCreateAffiliateScoresApplication(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	mock.ExpectExec("INSERT INTO affiliates").
		WillReturnResult(sqlmock.NewResult(1, 1))

	application := &model.AffiliateApplication{
		Website:         "https://blog.example",
		SocialFollowers: 25000,
		Niche:           "home fitness",
		Pitch:           gofakeit.Sentence(30),
	}
	created, err := lm.CreateAffiliate(context.Background(), model.Affiliate{
		StoreID: "store_1",
		Email:   gofakeit.Email(),
	}, application)
	require.NoError(t, err)
	assert.Contains(t, created.MetaData, "recruitment_score")

	assertExpectationsMet(t, mock)
}

func TestCreateAffiliateRequiresStoreAndEmail(t *testing.T) {
	lm, _, _ := newTestLinkmint(t, nil)

	_, err := lm.CreateAffiliate(context.Background(), model.Affiliate{Email: "x@y.example"}, nil)
	assert.Error(t, err)

	_, err = lm.CreateAffiliate(context.Background(), model.Affiliate{StoreID: "store_1"}, nil)
	assert.Error(t, err)
}

func TestApproveAffiliate(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	mock.ExpectExec("UPDATE affiliates").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, lm.ApproveAffiliate(context.Background(), "aff_test1"))

	assertExpectationsMet(t, mock)
}

func TestUpdateAffiliateStatusRejectsUnknown(t *testing.T) {
	lm, _, _ := newTestLinkmint(t, nil)

	err := lm.UpdateAffiliateStatus(context.Background(), "aff_test1", "frozen")
	assert.Error(t, err)
}

func TestUpdateCommissionRateBounds(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	assert.Error(t, lm.UpdateCommissionRate(context.Background(), "aff_test1", -1))
	assert.Error(t, lm.UpdateCommissionRate(context.Background(), "aff_test1", 10001))

	mock.ExpectExec("UPDATE affiliates").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, lm.UpdateCommissionRate(context.Background(), "aff_test1", 2500))

	assertExpectationsMet(t, mock)
}

func TestUpdateAffiliateStatusMissingAffiliate(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	mock.ExpectExec("UPDATE affiliates").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := lm.UpdateAffiliateStatus(context.Background(), "aff_missing", model.StatusSuspended)
	assert.Error(t, err)

	assertExpectationsMet(t, mock)
}
