package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedtest-bridge/internal/document"
)

func TestParse(t *testing.T) {
	doc, err := document.Parse([]byte(`{"ping": 15.2, "data": {"packetLoss": 0}}`))
	require.NoError(t, err)
	require.Contains(t, doc, "ping")

	_, err = document.Parse([]byte(`{not json`))
	require.Error(t, err)

	// 顶层不是对象也算解析失败
	_, err = document.Parse([]byte(`[1, 2, 3]`))
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	doc, err := document.Parse([]byte(`{
		"ping": 15.2,
		"isp": "Example ISP",
		"data": {
			"packetLoss": 0,
			"ping": {"jitter": 1.1, "low": 10, "high": 20}
		}
	}`))
	require.NoError(t, err)

	tests := []struct {
		path  string
		want  any
		found bool
	}{
		{"ping", 15.2, true},
		{"data.packetLoss", 0.0, true},
		{"data.ping.jitter", 1.1, true},
		{"data.ping.high", 20.0, true},
		{"missing", nil, false},
		{"data.missing", nil, false},
		{"data.ping.jitter.deeper", nil, false}, // 数字下面没有子路径
		{"isp.nested", nil, false},              // 字符串下面没有子路径
	}

	for _, tt := range tests {
		v, ok := document.Lookup(doc, tt.path)
		assert.Equal(t, tt.found, ok, "path %s", tt.path)
		if tt.found {
			assert.Equal(t, tt.want, v, "path %s", tt.path)
		}
	}
}

func TestLookupNullValue(t *testing.T) {
	doc, err := document.Parse([]byte(`{"ping": null}`))
	require.NoError(t, err)

	// null 是"存在但为空"：查得到，值为 nil
	v, ok := document.Lookup(doc, "ping")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestAsFloat(t *testing.T) {
	f, err := document.AsFloat(15.2)
	require.NoError(t, err)
	assert.Equal(t, 15.2, f)

	f, err = document.AsFloat("937100616")
	require.NoError(t, err)
	assert.Equal(t, 937100616.0, f)

	f, err = document.AsFloat(" 12.5 ")
	require.NoError(t, err)
	assert.Equal(t, 12.5, f)

	_, err = document.AsFloat("abc")
	assert.Error(t, err)

	_, err = document.AsFloat(nil)
	assert.Error(t, err)

	_, err = document.AsFloat(true)
	assert.Error(t, err)

	_, err = document.AsFloat(map[string]any{"nested": 1})
	assert.Error(t, err)

	_, err = document.AsFloat([]any{1.0})
	assert.Error(t, err)
}
