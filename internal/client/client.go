package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spec-kit/team-service/internal/api/dto"
)

const defaultFailureMessage = "Request failed"

// Kind classifies a failed API call.
type Kind string

const (
	KindValidation     Kind = "ValidationError"
	KindNotFound       Kind = "NotFound"
	KindRequestFailure Kind = "RequestFailure"
)

// Client provides typed access to the team API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the request timeout on a copy of the current HTTP client,
// so a client passed through WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			h := *c.httpClient
			h.Timeout = d
			c.httpClient = &h
		}
	}
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://127.0.0.1:8080"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// APIError is returned for every failed call, whether the server answered or not.
type APIError struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an API error, or RequestFailure for anything else.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindRequestFailure
}

// IsNotFound reports whether err is a NotFound API error.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func (c *Client) do(ctx context.Context, method, path string, body any, v any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: KindRequestFailure, Message: defaultFailureMessage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &APIError{Kind: KindRequestFailure, Status: resp.StatusCode, Message: defaultFailureMessage, Err: err}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		apiErr.Kind = KindValidation
	case http.StatusNotFound:
		apiErr.Kind = KindNotFound
	default:
		apiErr.Kind = KindRequestFailure
	}

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if data, err := io.ReadAll(resp.Body); err == nil && len(data) > 0 {
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Code = payload.Error.Code
			apiErr.Message = strings.TrimSpace(payload.Error.Message)
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = defaultFailureMessage
	}
	return apiErr
}

// ListTeams returns every team with its member count.
func (c *Client) ListTeams(ctx context.Context) ([]dto.TeamResponse, error) {
	var teams []dto.TeamResponse
	if err := c.do(ctx, http.MethodGet, "/api/teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// CreateTeam creates a team.
func (c *Client) CreateTeam(ctx context.Context, req dto.TeamCreateRequest) (dto.TeamResponse, error) {
	var team dto.TeamResponse
	if err := c.do(ctx, http.MethodPost, "/api/teams", req, &team); err != nil {
		return dto.TeamResponse{}, err
	}
	return team, nil
}

// GetTeam returns a team with its members.
func (c *Client) GetTeam(ctx context.Context, id int64) (dto.TeamDetailResponse, error) {
	var team dto.TeamDetailResponse
	if err := c.do(ctx, http.MethodGet, teamPath(id), nil, &team); err != nil {
		return dto.TeamDetailResponse{}, err
	}
	return team, nil
}

// UpdateTeam applies a partial team update.
func (c *Client) UpdateTeam(ctx context.Context, id int64, req dto.TeamUpdateRequest) (dto.TeamDetailResponse, error) {
	var team dto.TeamDetailResponse
	if err := c.do(ctx, http.MethodPut, teamPath(id), req, &team); err != nil {
		return dto.TeamDetailResponse{}, err
	}
	return team, nil
}

// DeleteTeam removes a team and its members.
func (c *Client) DeleteTeam(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, teamPath(id), nil, nil)
}

// ListMembers returns the members of a team.
func (c *Client) ListMembers(ctx context.Context, teamID int64) ([]dto.MemberResponse, error) {
	var members []dto.MemberResponse
	if err := c.do(ctx, http.MethodGet, teamPath(teamID)+"/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddMember adds a member to a team.
func (c *Client) AddMember(ctx context.Context, teamID int64, req dto.MemberCreateRequest) (dto.MemberResponse, error) {
	var member dto.MemberResponse
	if err := c.do(ctx, http.MethodPost, teamPath(teamID)+"/members", req, &member); err != nil {
		return dto.MemberResponse{}, err
	}
	return member, nil
}

// UpdateMember applies a partial member update.
func (c *Client) UpdateMember(ctx context.Context, id int64, req dto.MemberUpdateRequest) (dto.MemberResponse, error) {
	var member dto.MemberResponse
	if err := c.do(ctx, http.MethodPut, memberPath(id), req, &member); err != nil {
		return dto.MemberResponse{}, err
	}
	return member, nil
}

// DeleteMember removes a member.
func (c *Client) DeleteMember(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, memberPath(id), nil, nil)
}

func teamPath(id int64) string {
	return fmt.Sprintf("/api/teams/%d", id)
}

func memberPath(id int64) string {
	return fmt.Sprintf("/api/members/%d", id)
}
