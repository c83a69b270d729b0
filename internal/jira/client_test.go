package jira

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengrove/feedbridge/internal/domain"
)

type capturedRequest struct {
	path   string
	auth   string
	body   []byte
	header http.Header
}

// newCaptureServer returns a test server that records requests and answers
// with the given status.
func newCaptureServer(t *testing.T, status int) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		captured = append(captured, capturedRequest{
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			body:   body,
			header: r.Header.Clone(),
		})
		w.WriteHeader(status)
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func testAccount() domain.ExternalAccount {
	return domain.ExternalAccount{
		ID:           "acct1",
		UserID:       "U1",
		ProviderType: ProviderType,
		Domain:       "tracker.example.com",
		Token:        "sekrit",
	}
}

func TestPostComment(t *testing.T) {
	srv, captured := newCaptureServer(t, http.StatusCreated)
	client := NewClient(srv.URL)

	err := client.PostComment(context.Background(), testAccount(), "PROJ-42", "U2 updated D123.\n\nhttps://code.example.com/D123")
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/rest/api/2/issue/PROJ-42/comment", req.path)
	assert.Equal(t, "Bearer sekrit", req.auth)
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))

	var got map[string]string
	require.NoError(t, json.Unmarshal(req.body, &got))
	assert.Equal(t, "U2 updated D123.\n\nhttps://code.example.com/D123", got["body"])
}

func TestPostRemoteLink_Payload(t *testing.T) {
	srv, captured := newCaptureServer(t, http.StatusCreated)
	client := NewClient(srv.URL)

	link := domain.RemoteLinkInfo{
		SubjectID: "PHID-DREV-123",
		URL:       "https://code.example.com/D123",
		ShortName: "D123",
		Title:     "Fix the frobnicator",
		Resolved:  true,
	}
	err := client.PostRemoteLink(context.Background(), testAccount(), "PROJ-42", link)
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/rest/api/2/issue/PROJ-42/remotelink", req.path)
	assert.Equal(t, "Bearer sekrit", req.auth)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "remote_link", req.body)
}

func TestPost_NonSuccessStatusIsError(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusForbidden)
	client := NewClient(srv.URL)

	err := client.PostComment(context.Background(), testAccount(), "PROJ-42", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestPost_TransportErrorIsError(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusOK)
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL)

	err := client.PostRemoteLink(context.Background(), testAccount(), "PROJ-42", domain.RemoteLinkInfo{})
	require.Error(t, err)
}
