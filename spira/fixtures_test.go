package spira

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://spira.example.com"

func projectJSON(name string, id int64) map[string]any {
	return map[string]any{
		"Active":          true,
		"CreationDate":    "/Date(1707863960317-0600)/",
		"Description":     "<p>This is a description.</p><p>&nbsp;</p><p>Second line of description</p>",
		"Name":            name,
		"NonWorkingHours": 0,
		"ProjectId":       id,
		"Website":         "",
		"WorkingDays":     5,
		"WorkingHours":    8,
	}
}

func requirementJSON(name string, id int64) map[string]any {
	return map[string]any{
		"RequirementId":        id,
		"StatusId":             4,
		"ImportanceId":         2,
		"AuthorId":             1,
		"OwnerId":              3,
		"ReleaseId":            nil,
		"ComponentId":          7,
		"Name":                 name,
		"Description":          "<p>Requirement text</p>",
		"CreationDate":         "/Date(1707863960317-0600)/",
		"LastUpdateDate":       "1707950360317-0600",
		"Summary":              false,
		"ReleaseVersionNumber": "1.0.0.0",
		"IndentLevel":          "AAA",
		"CustomProperties": map[string]any{
			"Custom_01": "Web",
		},
		"ProjectId": 99,
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func mustObject(t *testing.T, v any) Object {
	t.Helper()
	o, err := parseObject([]byte(mustJSON(t, v)))
	require.NoError(t, err)
	return o
}

type fakeResponse struct {
	status int
	body   string
	err    error
}

// fakeTransport serves canned responses by path and records every call.
type fakeTransport struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{responses: make(map[string]fakeResponse)}
}

func (f *fakeTransport) on(path string, status int, body string) *fakeTransport {
	f.responses[path] = fakeResponse{status: status, body: body}
	return f
}

func (f *fakeTransport) fail(path string, err error) *fakeTransport {
	f.responses[path] = fakeResponse{err: err}
	return f
}

func (f *fakeTransport) Get(ctx context.Context, path string) (int, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	resp, ok := f.responses[path]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	if !ok {
		return 404, []byte(fmt.Sprintf("no fixture for %s", path)), nil
	}
	if resp.err != nil {
		return 0, nil, resp.err
	}
	return resp.status, []byte(resp.body), nil
}

func (f *fakeTransport) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestClient(t *testing.T, transport Transport, opts ...Option) *Client {
	t.Helper()
	opts = append(opts, WithTransport(transport))
	client, err := NewClient(testBaseURL, V5_0, "fredbloggs", "test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}
