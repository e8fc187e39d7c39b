package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/metrics"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseURL     string `validate:"required,url"`
	AccessToken string
	Timeout     time.Duration
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %v, body: %v", e.StatusCode, e.Body)
}

type Client struct {
	baseURL     string
	accessToken string
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
}

func NewClient(cfg Config) (*Client, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) ListJobs(ctx context.Context, parameters PageParameters) (models.JobPage, error) {

	if err := parameters.Validate(); err != nil {
		return models.JobPage{}, fmt.Errorf("invalid parameters: %w", err)
	}

	var response pageResponse[job]
	if err := c.getJSON(ctx, "list_jobs", "/api/v1/jobs?"+parameters.ToUrlParams().Encode(), &response); err != nil {
		return models.JobPage{}, err
	}

	return models.JobPage{
		Items:    lo.Map(response.Result, func(j job, _ int) models.Job { return j.toModel() }),
		Page:     response.Meta.Page,
		PageSize: response.Meta.PageSize,
		Total:    response.Meta.Total,
	}, nil
}

func (c *Client) GetJob(ctx context.Context, id int64) (models.Job, error) {

	var response dataResponse[job]
	if err := c.getJSON(ctx, "get_job", "/api/v1/jobs/"+formatID(id), &response); err != nil {
		return models.Job{}, err
	}
	return response.Data.toModel(), nil
}

func (c *Client) CountApplications(ctx context.Context, jobID int64) (int, error) {

	var response dataResponse[applicationCount]
	path := "/api/v1/jobs/" + formatID(jobID) + "/applications/count"
	if err := c.getJSON(ctx, "count_applications", path, &response); err != nil {
		return 0, err
	}
	return response.Data.TotalApplications, nil
}

func (c *Client) ListSkills(ctx context.Context, page, pageSize int) ([]models.Skill, int, error) {

	parameters := PageParameters{Page: page, PageSize: pageSize}
	if err := parameters.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid parameters: %w", err)
	}

	var response pageResponse[skill]
	if err := c.getJSON(ctx, "list_skills", "/api/v1/skills?"+parameters.ToUrlParams().Encode(), &response); err != nil {
		return nil, 0, err
	}

	skills := lo.Map(response.Result, func(s skill, _ int) models.Skill { return s.toModel() })
	return skills, response.Meta.Pages, nil
}

func (c *Client) ListCompanies(ctx context.Context, parameters PageParameters) (models.CompanyPage, error) {

	if err := parameters.Validate(); err != nil {
		return models.CompanyPage{}, fmt.Errorf("invalid parameters: %w", err)
	}

	var response pageResponse[company]
	if err := c.getJSON(ctx, "list_companies", "/api/v1/companies?"+parameters.ToUrlParams().Encode(), &response); err != nil {
		return models.CompanyPage{}, err
	}

	return models.CompanyPage{
		Items:    lo.Map(response.Result, func(c company, _ int) models.Company { return c.toModel() }),
		Page:     response.Meta.Page,
		PageSize: response.Meta.PageSize,
		Total:    response.Meta.Total,
	}, nil
}

// GetFavorites returns ids of the jobs the user marked as favorite.
func (c *Client) GetFavorites(ctx context.Context, userID string) ([]int64, error) {

	params := url.Values{}
	params.Add("userId", userID)

	var response pageResponse[favorite]
	if err := c.getJSON(ctx, "get_favorites", "/api/v1/favorites?"+params.Encode(), &response); err != nil {
		return nil, err
	}
	return lo.Map(response.Result, func(f favorite, _ int) int64 { return f.Job.ID }), nil
}

func (c *Client) AddFavorite(ctx context.Context, userID string, jobID int64) error {

	body, err := json.Marshal(favoriteRequest{UserID: userID, JobID: jobID})
	if err != nil {
		return fmt.Errorf("error encoding request: %w", err)
	}

	_, err = c.sendRequest(ctx, "add_favorite", http.MethodPost, "/api/v1/favorites", bytes.NewReader(body))
	return err
}

func (c *Client) RemoveFavorite(ctx context.Context, userID string, jobID int64) error {

	params := url.Values{}
	params.Add("userId", userID)

	path := "/api/v1/favorites/" + formatID(jobID) + "?" + params.Encode()
	_, err := c.sendRequest(ctx, "remove_favorite", http.MethodDelete, path, nil)
	return err
}

func (c *Client) getJSON(ctx context.Context, endpoint string, path string, target any) error {

	body, err := c.sendRequest(ctx, endpoint, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if err = json.NewDecoder(bytes.NewReader(body)).Decode(target); err != nil {
		return fmt.Errorf("error decoding JSON response: %w", err)
	}
	return nil
}

func (c *Client) sendRequest(ctx context.Context, endpoint string, method string, path string, body io.Reader) ([]byte, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
