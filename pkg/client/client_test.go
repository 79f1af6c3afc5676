package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bath-journal/config"
	"github.com/oksasatya/bath-journal/internal/container"
	"github.com/oksasatya/bath-journal/internal/router"
	"github.com/oksasatya/bath-journal/pkg/contract"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c, err := container.New(context.Background(), &config.Config{StorageDriver: "memory"}, logger)
	require.NoError(t, err)
	engine := gin.New()
	reg := router.NewRegistry(engine)
	router.InitModules(reg, c, nil)
	reg.RegisterAll()

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func ptr[T any](v T) *T { return &v }

func TestClient_AgainstServer(t *testing.T) {
	cl := New(newServer(t).URL)
	ctx := context.Background()

	list, err := cl.ListBaths(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	b, err := cl.CreateBath(ctx, contract.CreateBathInput{DurationMinutes: ptr(30), Rating: ptr(5), Notes: ptr("hot")})
	require.NoError(t, err)
	require.Positive(t, b.ID)

	// create invalidated the cached empty list
	list, err = cl.ListBaths(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := cl.GetBath(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)

	u, err := cl.UpdateBath(ctx, b.ID, contract.UpdateBathInput{Rating: ptr(2), Notes: contract.Null[string]()})
	require.NoError(t, err)
	require.Equal(t, 2, u.Rating)
	require.Nil(t, u.Notes)

	st, err := cl.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, st.TotalBaths)
	require.InDelta(t, 2.0, st.AvgRating, 1e-9)

	found, err := cl.SearchBaths(ctx, "hot")
	require.NoError(t, err)
	require.Empty(t, found)

	require.NoError(t, cl.DeleteBath(ctx, b.ID))
	list, err = cl.ListBaths(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	got, err = cl.GetBath(ctx, b.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	err = cl.DeleteBath(ctx, b.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "failed to delete bath", apiErr.Message)

	_, err = cl.UpdateBath(ctx, b.ID, contract.UpdateBathInput{Rating: ptr(3)})
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "failed to update bath", apiErr.Message)
	require.Empty(t, apiErr.Field)
}

func TestClient_ValidatesBeforeSending(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	cl := New(srv.URL)

	_, err := cl.CreateBath(context.Background(), contract.CreateBathInput{DurationMinutes: ptr(10), Rating: ptr(0)})
	var verr *contract.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "rating", verr.Field)
	require.Zero(t, hits.Load())
}

func TestClient_ServerValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"notes must be a string","field":"notes"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateBath(context.Background(), contract.CreateBathInput{DurationMinutes: ptr(10), Rating: ptr(3)})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "notes", apiErr.Field)
	require.Equal(t, "notes must be a string", apiErr.Message)
}

func TestClient_ContractViolations(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		call   func(*Client) error
	}{
		{"list is not an array", http.StatusOK, `{"id":1}`, func(c *Client) error {
			_, err := c.ListBaths(context.Background())
			return err
		}},
		{"bath out of range", http.StatusOK, `{"id":1,"date":"2026-01-02T20:30:00Z","durationMinutes":0,"rating":3}`, func(c *Client) error {
			_, err := c.GetBath(context.Background(), 1)
			return err
		}},
		{"created with 200", http.StatusOK, `{"id":1,"date":"2026-01-02T20:30:00Z","durationMinutes":5,"rating":3}`, func(c *Client) error {
			_, err := c.CreateBath(context.Background(), contract.CreateBathInput{DurationMinutes: ptr(5), Rating: ptr(3)})
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()
			require.ErrorIs(t, tc.call(New(srv.URL)), contract.ErrContractViolation)
		})
	}
}

func TestClient_GenericFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Internal Server Error"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListBaths(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	require.Equal(t, "failed to list baths", apiErr.Message)
}

func TestClient_SendsCookies(t *testing.T) {
	var sawCookie atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err == nil {
			sawCookie.Store(true)
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cl := New(srv.URL)
	_, err := cl.ListBaths(context.Background())
	require.NoError(t, err)
	cl.InvalidateList()
	_, err = cl.ListBaths(context.Background())
	require.NoError(t, err)
	require.True(t, sawCookie.Load())
}
