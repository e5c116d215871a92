package validation

import (
	"errors"
	"math"
	"testing"

	"studysmarter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, body string) Payload {
	t.Helper()
	p, err := ParsePayload([]byte(body))
	require.NoError(t, err)
	return p
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
		empty   bool
	}{
		{name: "absent body", body: "", empty: true},
		{name: "whitespace body", body: "  \n ", empty: true},
		{name: "empty object", body: "{}", empty: true},
		{name: "object", body: `{"a":1}`},
		{name: "malformed", body: `{"a":`, wantErr: "Invalid JSON payload"},
		{name: "array", body: `[1,2]`, wantErr: "Request body must be a JSON object"},
		{name: "scalar", body: `42`, wantErr: "Request body must be a JSON object"},
		{name: "garbage", body: `hello`, wantErr: "Invalid JSON payload"},
		{name: "null literal", body: `null`, wantErr: "Request body must be a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload([]byte(tt.body))
			if tt.wantErr != "" {
				var appErr *models.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, models.CodeValidation, appErr.Code)
				assert.Equal(t, tt.wantErr, appErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.empty, p.Empty())
		})
	}
}

func TestPayload_RequireFields(t *testing.T) {
	p := mustParse(t, `{"content":"x","room_id":null}`)

	assert.NoError(t, p.RequireFields("content", "room_id"))

	err := p.RequireFields("content", "creator_id", "post_id")
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Missing required fields", appErr.Message)
	assert.Equal(t, []string{"content", "creator_id", "post_id"}, appErr.Fields["required"])
	assert.Equal(t, []string{"creator_id", "post_id"}, appErr.Fields["missing"])
}

func TestPayload_String(t *testing.T) {
	p := mustParse(t, `{"name":"  Math  ","empty":"   ","num":5,"nil":null,"obj":{}}`)

	s, ok := p.String("name")
	assert.True(t, ok)
	assert.Equal(t, "Math", s)

	s, ok = p.String("empty")
	assert.True(t, ok)
	assert.Empty(t, s)

	s, ok = p.String("nil")
	assert.True(t, ok)
	assert.Empty(t, s)

	s, ok = p.String("absent")
	assert.True(t, ok)
	assert.Empty(t, s)

	_, ok = p.String("num")
	assert.False(t, ok)
	_, ok = p.String("obj")
	assert.False(t, ok)
}

func TestPayload_Int(t *testing.T) {
	p := mustParse(t, `{
		"int": 10,
		"neg": -3,
		"float_whole": 4.0,
		"float_frac": 4.5,
		"str": " 12 ",
		"str_bad": "twelve",
		"str_frac": "1.5",
		"bool": true,
		"nil": null,
		"arr": [1],
		"two_pow_63": 9223372036854775808,
		"big_float": 1e19,
		"max": 9223372036854775807
	}`)

	tests := []struct {
		field string
		want  int64
		ok    bool
	}{
		{"int", 10, true},
		{"neg", -3, true},
		{"float_whole", 4, true},
		{"float_frac", 0, false},
		{"str", 12, true},
		{"str_bad", 0, false},
		{"str_frac", 0, false},
		{"bool", 0, false},
		{"nil", 0, false},
		{"arr", 0, false},
		{"two_pow_63", 0, false},
		{"big_float", 0, false},
		{"max", math.MaxInt64, true},
		{"absent", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := p.Int(tt.field)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayload_OptionalInt(t *testing.T) {
	p := mustParse(t, `{"room_id":null,"post_id":"7","bad":"x"}`)

	v, ok := p.OptionalInt("room_id")
	assert.True(t, ok)
	assert.Nil(t, v)

	v, ok = p.OptionalInt("absent")
	assert.True(t, ok)
	assert.Nil(t, v)

	v, ok = p.OptionalInt("post_id")
	assert.True(t, ok)
	require.NotNil(t, v)
	assert.Equal(t, int64(7), *v)

	_, ok = p.OptionalInt("bad")
	assert.False(t, ok)
}

func TestPayload_OptionalString(t *testing.T) {
	p := mustParse(t, `{"description":"  quiet room ","nil":null,"num":1}`)

	v, ok := p.OptionalString("description")
	assert.True(t, ok)
	require.NotNil(t, v)
	assert.Equal(t, "quiet room", *v)

	v, ok = p.OptionalString("nil")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = p.OptionalString("num")
	assert.False(t, ok)
}
