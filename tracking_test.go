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
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmint/linkmint/model"
)

func activeAffiliate() model.Affiliate {
	return model.Affiliate{
		AffiliateID:   "aff_test1",
		StoreID:       "store_1",
		Email:         "jane@creator.example",
		Name:          "Jane",
		CommissionBps: 1000,
		Status:        model.StatusActive,
	}
}

func duplicateCodeErr() *pq.Error {
	return &pq.Error{Code: "23505", Constraint: "uq_tracking_links_code"}
}

func TestIssueTrackingLink(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	expectAffiliateLookup(mock, activeAffiliate())
	mock.ExpectExec("INSERT INTO tracking_links").
		WillReturnResult(sqlmock.NewResult(1, 1))

	link, err := lm.IssueTrackingLink(context.Background(), "aff_test1", "https://store.example/products/widget", nil)
	require.NoError(t, err)
	assert.Contains(t, link.LinkID, "lnk_")
	assert.Len(t, link.TrackingCode, model.DefaultTrackingCodeLength)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]+$`), link.TrackingCode)
	assert.Equal(t, "store_1", link.StoreID)

	assertExpectationsMet(t, mock)
}

func TestIssueTrackingLinkRetriesOnCollision(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	expectAffiliateLookup(mock, activeAffiliate())
	mock.ExpectExec("INSERT INTO tracking_links").
		WillReturnError(duplicateCodeErr())
	mock.ExpectExec("INSERT INTO tracking_links").
		WillReturnResult(sqlmock.NewResult(1, 1))

	link, err := lm.IssueTrackingLink(context.Background(), "aff_test1", "https://store.example/products/widget", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, link.TrackingCode)

	assertExpectationsMet(t, mock)
}

func TestIssueTrackingLinkExhaustsRetries(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	expectAffiliateLookup(mock, activeAffiliate())
	for i := 0; i < 5; i++ {
		mock.ExpectExec("INSERT INTO tracking_links").
			WillReturnError(duplicateCodeErr())
	}

	_, err := lm.IssueTrackingLink(context.Background(), "aff_test1", "https://store.example/products/widget", nil)
	assert.ErrorIs(t, err, ErrCodeGenerationExhausted)

	assertExpectationsMet(t, mock)
}

func TestIssueTrackingLinkRequiresActiveAffiliate(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	pending := activeAffiliate()
	pending.Status = model.StatusPending
	expectAffiliateLookup(mock, pending)

	_, err := lm.IssueTrackingLink(context.Background(), "aff_test1", "https://store.example/products/widget", nil)
	assert.ErrorIs(t, err, ErrAffiliateNotActive)

	assertExpectationsMet(t, mock)
}

func TestIssueTrackingLinkRejectsBadURL(t *testing.T) {
	lm, _, _ := newTestLinkmint(t, nil)

	_, err := lm.IssueTrackingLink(context.Background(), "aff_test1", "not a url", nil)
	assert.Error(t, err)
}

func TestIssueTrackingLinkCarriesCampaign(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	expectAffiliateLookup(mock, activeAffiliate())
	mock.ExpectExec("INSERT INTO tracking_links").
		WillReturnResult(sqlmock.NewResult(1, 1))

	campaign := &model.Campaign{Source: "newsletter", Medium: "email", Campaign: "spring"}
	link, err := lm.IssueTrackingLink(context.Background(), "aff_test1", "https://store.example/p/1", campaign)
	require.NoError(t, err)
	assert.Equal(t, "newsletter", link.UTMSource)
	assert.Equal(t, "email", link.UTMMedium)
	assert.Equal(t, "spring", link.UTMCampaign)

	assertExpectationsMet(t, mock)
}

func TestGetTrackingLinkByCodeUnknown(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	mock.ExpectQuery("SELECT .* FROM tracking_links").
		WillReturnRows(sqlmock.NewRows(linkColumns))

	_, err := lm.GetTrackingLinkByCode(context.Background(), "NOPE1234")
	assert.ErrorIs(t, err, ErrInvalidTrackingCode)

	assertExpectationsMet(t, mock)
}
