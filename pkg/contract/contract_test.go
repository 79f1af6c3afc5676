package contract

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func requireFieldError(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	require.Equal(t, field, verr.Field)
	require.NotEmpty(t, verr.Message)
	return verr
}

func TestDecodeCreateBath_Valid(t *testing.T) {
	in, err := DecodeCreateBath([]byte(`{"durationMinutes":30,"temperatureCelsius":40,"rating":5,"notes":"relaxing"}`))
	require.NoError(t, err)
	require.Nil(t, in.Date)

	nb := in.ToNewBath()
	require.Equal(t, 30, nb.DurationMinutes)
	require.Equal(t, 5, nb.Rating)
	require.Equal(t, 40, *nb.TemperatureCelsius)
	require.Equal(t, "relaxing", *nb.Notes)
}

func TestDecodeCreateBath_OptionalFieldsMayBeNull(t *testing.T) {
	in, err := DecodeCreateBath([]byte(`{"date":"2026-01-02T20:30:00Z","durationMinutes":1,"rating":1,"temperatureCelsius":null,"notes":null}`))
	require.NoError(t, err)
	require.NotNil(t, in.Date)
	require.True(t, in.Date.Equal(time.Date(2026, time.January, 2, 20, 30, 0, 0, time.UTC)))
	require.Nil(t, in.TemperatureCelsius)
	require.Nil(t, in.Notes)
}

func TestDecodeCreateBath_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"rating zero", `{"durationMinutes":30,"rating":0}`, "rating", "rating must be at least 1"},
		{"rating six", `{"durationMinutes":30,"rating":6}`, "rating", "rating must be at most 5"},
		{"missing duration", `{"rating":3}`, "durationMinutes", "durationMinutes is required"},
		{"zero duration", `{"durationMinutes":0,"rating":3}`, "durationMinutes", "durationMinutes must be at least 1"},
		{"missing rating", `{"durationMinutes":10}`, "rating", "rating is required"},
		{"duration wrong type", `{"durationMinutes":"long","rating":3}`, "durationMinutes", "durationMinutes must be an integer"},
		{"null duration", `{"durationMinutes":null,"rating":3}`, "durationMinutes", "durationMinutes must not be null"},
		{"bad date", `{"date":"yesterday","durationMinutes":10,"rating":3}`, "date", "date must be an RFC 3339 timestamp"},
		{"first field wins", `{"rating":9}`, "durationMinutes", "durationMinutes is required"},
		{"duration beyond int32", `{"durationMinutes":3000000000,"rating":3}`, "durationMinutes", "durationMinutes must be at most 2147483647"},
		{"temperature beyond int32", `{"durationMinutes":10,"temperatureCelsius":-3000000000,"rating":3}`, "temperatureCelsius", "temperatureCelsius must be at least -2147483648"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeCreateBath([]byte(tc.body))
			verr := requireFieldError(t, err, tc.field)
			require.Equal(t, tc.msg, verr.Message)
		})
	}
}

func TestDecodeCreateBath_NotJSON(t *testing.T) {
	for _, body := range []string{`not json`, `[1,2]`, `null`, ``} {
		_, err := DecodeCreateBath([]byte(body))
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), body)
		require.Empty(t, verr.Field)
		require.Equal(t, "invalid JSON payload", verr.Message)
	}
}

func TestDecodeUpdateBath_Partial(t *testing.T) {
	in, err := DecodeUpdateBath([]byte(`{"rating":2}`))
	require.NoError(t, err)

	p := in.ToPatch()
	require.Equal(t, 2, *p.Rating)
	require.Nil(t, p.DurationMinutes)
	require.Nil(t, p.Date)
	require.False(t, p.NotesSet)
	require.False(t, p.TemperatureSet)
}

func TestDecodeUpdateBath_ExplicitNullClearsNullable(t *testing.T) {
	in, err := DecodeUpdateBath([]byte(`{"notes":null,"temperatureCelsius":37}`))
	require.NoError(t, err)

	p := in.ToPatch()
	require.True(t, p.NotesSet)
	require.Nil(t, p.Notes)
	require.True(t, p.TemperatureSet)
	require.Equal(t, 37, *p.TemperatureCelsius)
}

func TestDecodeUpdateBath_Invalid(t *testing.T) {
	_, err := DecodeUpdateBath([]byte(`{"rating":0}`))
	requireFieldError(t, err, "rating")

	_, err = DecodeUpdateBath([]byte(`{"durationMinutes":0}`))
	requireFieldError(t, err, "durationMinutes")

	_, err = DecodeUpdateBath([]byte(`{"rating":null}`))
	requireFieldError(t, err, "rating")

	_, err = DecodeUpdateBath([]byte(`{"durationMinutes":2147483648}`))
	requireFieldError(t, err, "durationMinutes")

	_, err = DecodeUpdateBath([]byte(`{"temperatureCelsius":2147483648}`))
	verr := requireFieldError(t, err, "temperatureCelsius")
	require.Equal(t, "temperatureCelsius must be at most 2147483647", verr.Message)

	_, err = DecodeUpdateBath([]byte(`{"temperatureCelsius":2147483647,"durationMinutes":2147483647}`))
	require.NoError(t, err)

	_, err = DecodeUpdateBath([]byte(`{"notes":12}`))
	verr = requireFieldError(t, err, "notes")
	require.Equal(t, "notes must be a string", verr.Message)
}

func TestUpdateBathInput_MarshalOmitsUnset(t *testing.T) {
	rating := 3
	b, err := json.Marshal(UpdateBathInput{Rating: &rating, Notes: Null[string]()})
	require.NoError(t, err)
	require.JSONEq(t, `{"rating":3,"notes":null}`, string(b))

	b, err = json.Marshal(UpdateBathInput{TemperatureCelsius: Some(39)})
	require.NoError(t, err)
	require.JSONEq(t, `{"temperatureCelsius":39}`, string(b))
}

func TestNullable_Unmarshal(t *testing.T) {
	var v struct {
		A Nullable[int] `json:"a"`
		B Nullable[int] `json:"b"`
		C Nullable[int] `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":4}`), &v))
	require.True(t, v.A.Set)
	require.Nil(t, v.A.Value)
	require.Equal(t, 4, *v.B.Value)
	require.False(t, v.C.Set)
}

func TestValidateCreate(t *testing.T) {
	d, r := 20, 4
	require.NoError(t, ValidateCreate(CreateBathInput{DurationMinutes: &d, Rating: &r}))

	bad := 7
	requireFieldError(t, ValidateCreate(CreateBathInput{DurationMinutes: &d, Rating: &bad}), "rating")

	hot := 3000000000
	requireFieldError(t, ValidateCreate(CreateBathInput{DurationMinutes: &d, TemperatureCelsius: &hot, Rating: &r}), "temperatureCelsius")
	requireFieldError(t, ValidateUpdate(UpdateBathInput{TemperatureCelsius: Some(hot)}), "temperatureCelsius")
	require.NoError(t, ValidateUpdate(UpdateBathInput{TemperatureCelsius: Null[int]()}))
}

func TestBuildURL(t *testing.T) {
	require.Equal(t, "/api/baths/42", BuildURL("/api/baths/:id", map[string]any{"id": 42}))
	require.Equal(t, "/api/baths/:id", BuildURL("/api/baths/:id", nil))
	require.Equal(t, "/api/baths/:id", BuildURL("/api/baths/:id", map[string]any{"other": 1}))
	require.Equal(t, "/a/1/b/:missing", BuildURL("/a/:x/b/:missing", map[string]any{"x": "1"}))
	require.Equal(t, "/api/baths/:idx", BuildURL("/api/baths/:idx", map[string]any{"id": 3}))
	require.Equal(t, "/api/baths/7", GetBath.URL(map[string]any{"id": int64(7)}))
}

func TestRouteRelative(t *testing.T) {
	require.Equal(t, "/baths/:id", UpdateBath.Relative())
	require.Equal(t, "/baths", ListBaths.Relative())
}

func TestDecodeResponse_Bath(t *testing.T) {
	body := []byte(`{"id":1,"date":"2026-01-02T20:30:00Z","durationMinutes":30,"temperatureCelsius":null,"rating":5,"notes":"x"}`)
	v, err := DecodeResponse(GetBath, http.StatusOK, body)
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestDecodeResponse_Violations(t *testing.T) {
	cases := []struct {
		name   string
		route  Route
		status int
		body   string
	}{
		{"rating out of range", GetBath, http.StatusOK, `{"id":1,"date":"2026-01-02T20:30:00Z","durationMinutes":30,"rating":9}`},
		{"missing id", CreateBath, http.StatusCreated, `{"date":"2026-01-02T20:30:00Z","durationMinutes":30,"rating":3}`},
		{"unknown field", GetBath, http.StatusOK, `{"id":1,"date":"2026-01-02T20:30:00Z","durationMinutes":30,"rating":3,"mood":"calm"}`},
		{"list is object", ListBaths, http.StatusOK, `{"id":1}`},
		{"null list", ListBaths, http.StatusOK, `null`},
		{"undeclared status", ListBaths, http.StatusNotFound, `{"message":"x"}`},
		{"error without message", UpdateBath, http.StatusBadRequest, `{"field":"rating"}`},
		{"delete with body", DeleteBath, http.StatusNoContent, `{"ok":true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeResponse(tc.route, tc.status, []byte(tc.body))
			require.ErrorIs(t, err, ErrContractViolation)
		})
	}
}

func TestDecodeResponse_EmptyList(t *testing.T) {
	v, err := DecodeResponse(ListBaths, http.StatusOK, []byte(`[]`))
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestClampSearchSize(t *testing.T) {
	require.Equal(t, DefaultSearchSize, ClampSearchSize(0))
	require.Equal(t, DefaultSearchSize, ClampSearchSize(-4))
	require.Equal(t, 80, ClampSearchSize(80))
	require.Equal(t, MaxSearchSize, ClampSearchSize(MaxSearchSize+1))
}
