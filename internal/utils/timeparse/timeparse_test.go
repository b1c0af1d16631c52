package timeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBiliLocal(t *testing.T) {
	// 2021-01-01 10:00:00 GMT+8 == 2021-01-01T02:00:00Z
	ts, err := ParseBiliLocal("2021-01-01 10:00:00")
	require.NoError(t, err)
	assert.Equal(t, int64(1609466400), ts)
}

func TestParseBiliLocalFractionalSeconds(t *testing.T) {
	ts, err := ParseBiliLocal("2021-01-01 10:00:00.000")
	require.NoError(t, err)
	assert.Equal(t, int64(1609466400), ts)
}

func TestParseBiliLocalInvalid(t *testing.T) {
	cases := []string{"", "   ", "0000-00-00 00:00:00", "不是时间"}
	for _, raw := range cases {
		_, err := ParseBiliLocal(raw)
		assert.Error(t, err, "输入: %q", raw)
	}
}

func TestParseRFC3339(t *testing.T) {
	ts, err := ParseRFC3339("2021-01-01T02:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1609466400), ts)

	// 带小数秒
	ts, err = ParseRFC3339("2021-01-01T02:00:00.500Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1609466400), ts)

	// 带偏移
	ts, err = ParseRFC3339("2021-01-01T11:00:00+09:00")
	require.NoError(t, err)
	assert.Equal(t, int64(1609466400), ts)
}

func TestParseRFC3339Invalid(t *testing.T) {
	_, err := ParseRFC3339("")
	assert.Error(t, err)
	_, err = ParseRFC3339("2021-01-01 02:00:00")
	assert.Error(t, err)
}
