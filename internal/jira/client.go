package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/opengrove/feedbridge/internal/domain"
)

// ProviderType is the provider kind account bindings must carry to be
// usable with this client.
const ProviderType = "jira"

// Client is a minimal JIRA REST API client for publishing issue comments
// and remote links. Calls authenticate as the external account passed per
// request, so one client serves every acting user on a site.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new JIRA API client for the given site base URL
// (e.g. https://mycompany.atlassian.net).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PostComment creates a comment on the issue identified by key, posting as
// the given account.
func (c *Client) PostComment(ctx context.Context, account domain.ExternalAccount, key, body string) error {
	req := commentRequest{Body: body}

	path := fmt.Sprintf("/rest/api/2/issue/%s/comment", url.PathEscape(key))
	var resp json.RawMessage
	if err := c.post(ctx, account, path, req, &resp); err != nil {
		return fmt.Errorf("post comment: %w", err)
	}
	return nil
}

// PostRemoteLink creates or updates a remote link on the issue identified
// by key. The globalId carries the subject identity so republishing the
// same subject updates the existing link instead of adding another.
// Field semantics follow the JIRA remote issue link format.
func (c *Client) PostRemoteLink(ctx context.Context, account domain.ExternalAccount, key string, link domain.RemoteLinkInfo) error {
	req := RemoteLinkRequest{
		GlobalID: "phabricatorPhid=" + link.SubjectID,
		Application: remoteLinkApplication{
			Type: "org.phabricator.differential",
			Name: "Differential",
		},
		Relationship: "implemented in",
		Object: remoteLinkObject{
			URL:     link.URL,
			Title:   link.ShortName,
			Summary: link.Title,
			Icon: remoteLinkIcon{
				URL16x16: "https://secure.phabricator.com/rsrc/image/apple-touch-icon.png",
				Title:    "Revision",
			},
			Status: remoteLinkStatus{
				Resolved: link.Resolved,
			},
		},
	}

	path := fmt.Sprintf("/rest/api/2/issue/%s/remotelink", url.PathEscape(key))
	var resp json.RawMessage
	if err := c.post(ctx, account, path, req, &resp); err != nil {
		return fmt.Errorf("post remote link: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, account domain.ExternalAccount, path string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+account.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

type commentRequest struct {
	Body string `json:"body"`
}

// RemoteLinkRequest is the wire body of a remote issue link. Exported for
// payload tests.
type RemoteLinkRequest struct {
	GlobalID     string                `json:"globalId"`
	Application  remoteLinkApplication `json:"application"`
	Relationship string                `json:"relationship"`
	Object       remoteLinkObject      `json:"object"`
}

type remoteLinkApplication struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type remoteLinkObject struct {
	URL     string           `json:"url"`
	Title   string           `json:"title"`
	Summary string           `json:"summary"`
	Icon    remoteLinkIcon   `json:"icon"`
	Status  remoteLinkStatus `json:"status"`
}

type remoteLinkIcon struct {
	URL16x16 string `json:"url16x16"`
	Title    string `json:"title"`
}

type remoteLinkStatus struct {
	Resolved bool `json:"resolved"`
}
