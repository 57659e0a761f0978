package embedding

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateJob(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	doc := JobDocument{JobID: 42, Title: "Backend Engineer", EnterpriseID: 7, EnterpriseName: "Acme Corp"}

	require.NoError(t, c.CreateJob(context.Background(), doc))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/embedding/job", gotPath)
	assert.JSONEq(t, `{"jobId":42,"title":"Backend Engineer","enterpriseId":7,"enterpriseName":"Acme Corp"}`, string(gotBody))
}

func TestClient_DeleteJobs(t *testing.T) {
	t.Run("SendsIDs", func(t *testing.T) {
		var gotMethod, gotPath string
		var gotIDs []int64

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotIDs))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		require.NoError(t, c.DeleteJobs(context.Background(), []int64{1, 2, 3}))

		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/embedding/job", gotPath)
		assert.Equal(t, []int64{1, 2, 3}, gotIDs)
	})

	t.Run("EmptySetSkipsRequest", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		require.NoError(t, c.DeleteJobs(context.Background(), nil))
		assert.False(t, called)
	})
}

func TestClient_DeleteJob(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.DeleteJob(context.Background(), 99))

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/embedding/job/99", gotPath)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	err := c.CreateJob(context.Background(), JobDocument{JobID: 1, Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
