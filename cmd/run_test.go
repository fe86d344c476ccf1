package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/wayfarer/internal/site"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"url=https://example.com", "query=a=b"})
	require.NoError(t, err)
	assert.Equal(t, site.Params{
		"url":   "https://example.com",
		"query": "a=b", // only the first '=' splits
	}, params)
}

func TestParseParams_Invalid(t *testing.T) {
	_, err := parseParams([]string{"no-equals"})
	assert.Error(t, err)

	_, err = parseParams([]string{"=value"})
	assert.Error(t, err)
}

func TestParseParams_Empty(t *testing.T) {
	params, err := parseParams(nil)
	require.NoError(t, err)
	assert.Empty(t, params)
}
