package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zachkp/portfolio/internal/content"
)

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
		want  int
	}{
		{"bare array", `[{"_id":"1"},{"_id":"2"}]`, "data", 2},
		{"data envelope", `{"data":[{"_id":"1"}]}`, "data", 1},
		{"named envelope", `{"messages":[{"_id":"1"},{"_id":"2"},{"_id":"3"}]}`, "messages", 3},
		{"falls back to data", `{"data":[{"_id":"1"}]}`, "messages", 1},
		{"missing field", `{"items":[{"_id":"1"}]}`, "data", 0},
		{"null field", `{"data":null}`, "data", 0},
		{"garbage", `not json`, "data", 0},
		{"empty", ``, "data", 0},
		{"wrong element type", `[1,2]`, "data", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeList[content.Message]([]byte(tt.raw), tt.field)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestDecodeItemsKeepsServerOrder(t *testing.T) {
	raw := []byte(`[{"_id":"b","role":"Second"},{"_id":"a","role":"First"}]`)

	got := decodeItems(content.Experience, raw)

	assert.Equal(t, "b", got[0].ItemID())
	assert.Equal(t, "a", got[1].ItemID())
	assert.IsType(t, content.ExperienceEntry{}, got[0])
}
