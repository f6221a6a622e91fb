package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type code string

func (c code) String() string { return "code:" + string(c) }

func TestExtractString(t *testing.T) {
	list := []any{"resource_id", "KBTH-24-00001", "count", 3, 42, "ignored"}

	assert.Equal(t, "KBTH-24-00001", ExtractString(list, "resource_id"))
	assert.Empty(t, ExtractString(list, "count"), "non-string values are skipped")
	assert.Empty(t, ExtractString(list, "missing"))
	assert.Empty(t, ExtractString([]any{"dangling"}, "dangling"))
}

func TestToMap(t *testing.T) {
	list := []any{"resource_id", "x", "vaccine", code("bcg"), "quantity", 20}

	got := ToMap(list, "resource_id")
	assert.Equal(t, map[string]string{"vaccine": "code:bcg", "quantity": "20"}, got)
	assert.Nil(t, ToMap([]any{"resource_id", "x"}, "resource_id"))
}
