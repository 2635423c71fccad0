package utils_test

import (
	"encoding/json"
	"testing"

	"rules-service/core/utils"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"GR-DE-0001", "GR-DE-0001"},
		{[]byte("raw"), "raw"},
		{json.Number("1.10"), "1.10"},
		{float64(1), "1"},
		{1.5, "1.5"},
		{42, "42"},
		{int64(7), "7"},
		{true, "true"},
		{map[string]any{"a": float64(1)}, `{"a":1}`},
		{[]any{"x", float64(2)}, `["x",2]`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, utils.ToString(tc.in))
	}
}

func TestMissingKeys(t *testing.T) {
	m := map[string]any{"identifier": "x", "version": nil}

	assert.Empty(t, utils.MissingKeys(m, "identifier", "version"))
	assert.Equal(t, []string{"region", "raw_data"}, utils.MissingKeys(m, "identifier", "region", "raw_data"))
}
