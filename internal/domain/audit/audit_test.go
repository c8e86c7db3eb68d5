package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAudited(t *testing.T) {
	for _, m := range []string{"POST", "PUT", "PATCH", "DELETE"} {
		assert.True(t, IsAudited(m), m)
	}
	for _, m := range []string{"GET", "HEAD", "OPTIONS"} {
		assert.False(t, IsAudited(m), m)
	}
	assert.False(t, CapturesPrevious("POST"))
	assert.True(t, CapturesPrevious("DELETE"))
}

func TestEntityFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/products/123", "products"},
		{"/api/v1/b2b/quotes/1/approve", "b2b"},
		{"/api/v1/orders?x=1", "orders"},
		{"/api/v1", "unknown"},
		{"/api/v1/", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, EntityFromPath(tt.path, "/api/v1"))
		})
	}
}

func TestEntityIDFromBody(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"string id", `{"id":"abc"}`, "abc", true},
		{"integer id", `{"id":42}`, "42", true},
		{"integral float id", `{"id":42.0}`, "42", true},
		{"fractional id", `{"id":4.5}`, "4.5", true},
		{"boolean id", `{"id":true}`, "", false},
		{"null id", `{"id":null}`, "", false},
		{"object id", `{"id":{"x":1}}`, "", false},
		{"no id", `{"name":"x"}`, "", false},
		{"array body", `[1,2]`, "", false},
		{"empty body", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EntityIDFromBody([]byte(tt.body))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePayload(t *testing.T) {
	assert.Nil(t, NormalizePayload(nil))
	assert.Nil(t, NormalizePayload([]byte("  ")))
	assert.Nil(t, NormalizePayload([]byte(`{}`)))
	assert.Nil(t, NormalizePayload([]byte(`[]`)))
	assert.Nil(t, NormalizePayload([]byte(`"text"`)))

	p := NormalizePayload([]byte(`{"status":"PAID"}`))
	require.NotNil(t, p)
	assert.JSONEq(t, `{"status":"PAID"}`, *p)
}

func TestFormPayload(t *testing.T) {
	assert.Nil(t, FormPayload(nil))
	assert.Nil(t, FormPayload(map[string][]string{"empty": {}}))

	b := FormPayload(map[string][]string{
		"businessName": {"Acme"},
		"quantity":     {"30"},
		"tags":         {"eco", "logo"},
	})
	assert.JSONEq(t, `{"businessName":"Acme","quantity":"30","tags":["eco","logo"]}`, string(b))

	p := NormalizePayload(b)
	require.NotNil(t, p)
	assert.JSONEq(t, string(b), *p)
}

func TestNewLog(t *testing.T) {
	l := NewLog(Entry{
		Action:       "PATCH",
		Entity:       "orders",
		EntityID:     "o-1",
		Body:         []byte(`{"status":"SHIPPED"}`),
		PreviousData: []byte(`{"status":"PAID"}`),
		UserID:       "u-1",
	})
	assert.Equal(t, "PATCH", l.Action)
	require.NotNil(t, l.EntityID)
	assert.Equal(t, "o-1", *l.EntityID)
	require.NotNil(t, l.PreviousData)
	assert.Nil(t, l.IP)
	assert.Nil(t, l.UserAgent)

	out, err := json.Marshal(l)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, map[string]any{"status": "SHIPPED"}, decoded["payload"])
	assert.Equal(t, map[string]any{"status": "PAID"}, decoded["previousData"])
	assert.Nil(t, decoded["ip"])

	empty := NewLog(Entry{Action: "POST", Entity: "b2b", Body: []byte(`{}`), PreviousData: []byte("null")})
	assert.Nil(t, empty.Payload)
	assert.Nil(t, empty.PreviousData)
}
