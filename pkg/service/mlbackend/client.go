package mlbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/utils/safe"
)

// validateTimeout bounds the validation call. No other call carries a
// client-enforced deadline; long-running training relies on the caller's
// context.
const validateTimeout = 30 * time.Second

// StatusError is returned for non-2xx backend responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Service = &client{}

// Option is a functional option for the backend client
type Option func(*client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a backend client for the given base origin, such as
// "https://analysis.example.com".
func New(baseURL string, opts ...Option) (Service, error) {
	if baseURL == "" {
		return nil, goerr.New("backend base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, goerr.Wrap(err, "invalid backend base URL", goerr.V("base_url", baseURL))
	}

	c := &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BuildURL joins the base origin with a relative endpoint path
func (c *client) BuildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// newJSONRequest builds a POST request with a JSON body. A nil body sends
// an empty JSON object.
func newJSONRequest(ctx context.Context, method, rawURL string, body any) (*http.Request, error) {
	if body == nil {
		body = map[string]any{}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal request body")
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(data))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build request", goerr.V("url", rawURL))
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// newMultipartRequest builds a POST request carrying the file as a single
// "file" form field. The Content-Type comes from the multipart writer so
// the boundary is set correctly; no JSON content type is applied.
func newMultipartRequest(ctx context.Context, rawURL string, file *UploadFile) (*http.Request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create form file", goerr.V("file", file.Name))
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return nil, goerr.Wrap(err, "failed to copy file into form", goerr.V("file", file.Name))
	}
	if err := mw.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, &buf)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build request", goerr.V("url", rawURL))
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

// do executes a request and decodes the JSON response into a map. No
// retries; the caller's context governs cancellation.
func (c *client) do(ctx context.Context, req *http.Request) (map[string]any, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "backend request failed",
			goerr.V("url", req.URL.String()), goerr.V("method", req.Method))
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read backend response", goerr.V("url", req.URL.String()))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.Wrap(&StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))},
			"backend call failed", goerr.V("url", req.URL.String()))
	}

	raw := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, goerr.Wrap(err, "failed to decode backend response", goerr.V("url", req.URL.String()))
		}
	}

	return raw, nil
}

func (c *client) CreateSession(ctx context.Context, tool types.ToolID, name string) (types.SessionID, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, c.BuildURL(sessionEndpoint(tool)), map[string]any{
		"name": name,
	})
	if err != nil {
		return "", err
	}

	raw, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}

	id, ok := raw["session_id"].(string)
	if !ok || id == "" {
		return "", goerr.New("backend session response has no session_id", goerr.V("tool", tool))
	}
	return types.SessionID(id), nil
}

func (c *client) Upload(ctx context.Context, endpoint string, sessionID types.SessionID, file *UploadFile, params UploadParams) (*StepResult, error) {
	u := c.BuildURL(endpoint)
	q := url.Values{"session_id": {sessionID.String()}}
	if params.TargetColumn != "" {
		q.Set("target_column", params.TargetColumn)
	}
	if params.TextColumn != "" {
		q.Set("text_column", params.TextColumn)
	}

	req, err := newMultipartRequest(ctx, u+"?"+q.Encode(), file)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewStepResult(raw), nil
}

func (c *client) Validate(ctx context.Context, endpoint string, sessionID types.SessionID, params ValidateParams) (*StepResult, error) {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	body := map[string]any{
		"session_id": sessionID.String(),
	}
	if params.TargetColumn != "" {
		body["target_column"] = params.TargetColumn
	}
	if params.TextColumn != "" {
		body["text_column"] = params.TextColumn
	}

	req, err := newJSONRequest(ctx, http.MethodPost, c.BuildURL(endpoint), body)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewStepResult(raw), nil
}

func (c *client) Preprocess(ctx context.Context, endpoint string, sessionID types.SessionID, options map[string]any) (*StepResult, error) {
	return c.postStep(ctx, endpoint, sessionID, options)
}

func (c *client) Train(ctx context.Context, endpoint string, sessionID types.SessionID, options map[string]any) (*StepResult, error) {
	return c.postStep(ctx, endpoint, sessionID, options)
}

func (c *client) Results(ctx context.Context, endpoint string, sessionID types.SessionID) (*StepResult, error) {
	return c.postStep(ctx, endpoint, sessionID, nil)
}

func (c *client) Predict(ctx context.Context, endpoint string, sessionID types.SessionID, features map[string]any) (*StepResult, error) {
	body := map[string]any{
		"session_id": sessionID.String(),
		"features":   features,
	}
	req, err := newJSONRequest(ctx, http.MethodPost, c.BuildURL(endpoint), body)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewStepResult(raw), nil
}

func (c *client) postStep(ctx context.Context, endpoint string, sessionID types.SessionID, options map[string]any) (*StepResult, error) {
	body := map[string]any{
		"session_id": sessionID.String(),
	}
	for k, v := range options {
		body[k] = v
	}

	req, err := newJSONRequest(ctx, http.MethodPost, c.BuildURL(endpoint), body)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewStepResult(raw), nil
}

func (c *client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BuildURL(healthEndpoint), nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build request")
	}

	if _, err := c.do(ctx, req); err != nil {
		return goerr.Wrap(err, "backend health check failed")
	}
	return nil
}

func (c *client) TrainingStatus(ctx context.Context, tool types.ToolID, sessionID types.SessionID) (*TrainingStatus, error) {
	u := c.BuildURL(statusEndpoint(tool)) + "?" + url.Values{"session_id": {sessionID.String()}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build request", goerr.V("url", u))
	}

	raw, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	status := &TrainingStatus{State: TrainingStateRunning}
	if v, ok := raw["state"].(string); ok {
		status.State = v
	}
	if v, ok := raw["progress"].(float64); ok {
		status.Progress = v
	}
	if v, ok := raw["message"].(string); ok {
		status.Message = v
	}
	return status, nil
}
