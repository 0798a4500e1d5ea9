package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPasswordRequest_AcceptsNumberOrString(t *testing.T) {
	for _, body := range []string{
		`{"destinationId": 12, "password": "plage"}`,
		`{"destinationId": "12", "password": "plage"}`,
	} {
		var req VerifyPasswordRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		require.NotNil(t, req.DestinationID)
		assert.Equal(t, FlexID(12), *req.DestinationID)
		assert.Equal(t, "plage", *req.Password)
	}
}

func TestVerifyPasswordRequest_RejectsGarbageID(t *testing.T) {
	var req VerifyPasswordRequest
	assert.Error(t, json.Unmarshal([]byte(`{"destinationId": "abc"}`), &req))
}
