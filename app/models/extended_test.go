package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomTimeUnmarshalJSON(t *testing.T) {
	var ct CustomTime
	require.NoError(t, json.Unmarshal([]byte(`"2012-05-14"`), &ct))
	assert.Equal(t, 2012, ct.Time.Year())
	assert.Equal(t, 5, int(ct.Time.Month()))
	assert.Equal(t, 14, ct.Time.Day())

	assert.Error(t, json.Unmarshal([]byte(`"14/05/2012"`), &ct))
}

func TestCustomTimeMarshalJSON(t *testing.T) {
	var ct CustomTime
	require.NoError(t, json.Unmarshal([]byte(`"2012-05-14"`), &ct))

	out, err := json.Marshal(ct)
	require.NoError(t, err)
	assert.Equal(t, `"2012-05-14"`, string(out))
}
