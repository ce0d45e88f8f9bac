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
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmint/linkmint/model"
)

func TestRecordClick(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	link := trackedLink()
	link.UTMSource = "newsletter"
	expectLinkLookup(mock, link)
	expectAffiliateLookup(mock, activeAffiliate())
	mock.ExpectExec("UPDATE tracking_links").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE affiliates").
		WillReturnResult(sqlmock.NewResult(0, 1))

	target, err := lm.RecordClick(context.Background(), "AB12CD34", ClickMeta{
		IPAddress: "203.0.113.9",
		UserAgent: "test-agent",
	})
	require.NoError(t, err)
	assert.Equal(t, "AB12CD34", target.TrackingCode)
	assert.Equal(t, "aff_test1", target.AffiliateID)
	assert.Equal(t, "10", target.CommissionPct)

	u, err := url.Parse(target.URL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "aff_test1", q.Get("lm_aff"))
	assert.Equal(t, "AB12CD34", q.Get("lm_code"))
	assert.Equal(t, "newsletter", q.Get("utm_source"))

	assertExpectationsMet(t, mock)
}

func TestRecordClickUnknownCode(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	mock.ExpectQuery("SELECT .* FROM tracking_links").
		WillReturnRows(sqlmock.NewRows(linkColumns))

	_, err := lm.RecordClick(context.Background(), "NOPE1234", ClickMeta{})
	assert.ErrorIs(t, err, ErrInvalidTrackingCode)

	assertExpectationsMet(t, mock)
}

// A dead analytics queue must not break the redirect path.
func TestRecordClickSurvivesQueueFailure(t *testing.T) {
	lm, mock, mr := newTestLinkmint(t, nil)
	mr.Close()

	expectLinkLookup(mock, trackedLink())
	expectAffiliateLookup(mock, activeAffiliate())
	mock.ExpectExec("UPDATE tracking_links").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE affiliates").
		WillReturnResult(sqlmock.NewResult(0, 1))

	target, err := lm.RecordClick(context.Background(), "AB12CD34", ClickMeta{})
	require.NoError(t, err)
	assert.NotEmpty(t, target.URL)

	assertExpectationsMet(t, mock)
}

func TestProcessClickEvent(t *testing.T) {
	lm, mock, _ := newTestLinkmint(t, nil)

	event := model.ClickEvent{
		ClickID:      "clk_test1",
		TrackingCode: "AB12CD34",
		AffiliateID:  "aff_test1",
		ClickedAt:    time.Now(),
	}
	payload, err := json.Marshal(&event)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO click_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	task := asynq.NewTask("new:click", payload)
	require.NoError(t, lm.ProcessClickEvent(context.Background(), task))

	assertExpectationsMet(t, mock)
}
