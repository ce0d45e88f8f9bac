package request

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJsonReq(t *testing.T) {
	buf, err := ToJsonReq(map[string]string{"amount": "25.00"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"25.00"}`, buf.String())
}

func TestCall(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://payouts.test/transfers",
		httpmock.NewStringResponder(200, `{"confirmation":"pay_123"}`))

	body, err := ToJsonReq(map[string]string{"amount": "25.00"})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "https://payouts.test/transfers", body)
	require.NoError(t, err)

	var response map[string]string
	resp, err := Call(req, &response)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "pay_123", response["confirmation"])
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}
