package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"harvest-timer/internal/domain"
	"harvest-timer/internal/ports"
	"harvest-timer/internal/version"
)

// DefaultBaseURL is the Harvest API origin.
const DefaultBaseURL = "https://api.harvestapp.com"

var _ ports.Harvest = (*Client)(nil)

// Client implements ports.Harvest against the Harvest v2 REST API.
type Client struct {
	baseURL   string
	transport *Transport
	now       func() time.Time
	log       *slog.Logger
}

type options struct {
	doer      Doer
	now       func() time.Time
	userAgent string
	timeout   time.Duration
}

// Option customizes a Client.
type Option func(*options)

// WithDoer replaces the HTTP client used for requests.
func WithDoer(d Doer) Option {
	return func(o *options) { o.doer = d }
}

// WithClock replaces the clock that determines "today".
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithTimeout sets an overall per-request timeout on the *http.Client doer,
// whichever order it is given in relative to WithDoer. A Doer that is not an
// *http.Client owns its own deadlines and is left unchanged. Zero keeps the
// client default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func NewClient(baseURL string, creds Credentials, log *slog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	o := options{
		doer:      http.DefaultClient,
		now:       time.Now,
		userAgent: version.UserAgent(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout > 0 {
		if hc, ok := o.doer.(*http.Client); ok {
			withTimeout := *hc
			withTimeout.Timeout = o.timeout
			o.doer = &withTimeout
		} else {
			log.Warn("timeout not applied to custom doer", slog.Duration("timeout", o.timeout))
		}
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: NewTransport(creds, o.userAgent, o.doer, log),
		now:       o.now,
		log:       log,
	}
}

// CurrentUser returns the authenticated user.
// GET /v2/users/me
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	resp, err := c.transport.Do(ctx, http.MethodGet, c.endpoint("/v2/users/me", nil), nil)
	if err != nil {
		return domain.User{}, err
	}
	return decode[domain.User](resp, "user")
}

// ActiveProjects returns the projects user is assigned to, across all pages.
// GET /v2/users/{id}/project_assignments?page={n}
func (c *Client) ActiveProjects(ctx context.Context, user domain.User) ([]domain.Project, error) {
	path := fmt.Sprintf("/v2/users/%d/project_assignments", user.ID)
	assignments, err := Flatten[domain.ProjectAssignment](ctx, func(ctx context.Context, n int) (domain.Page[domain.ProjectAssignment], error) {
		return fetchPage[domain.ProjectAssignment](ctx, c, path, url.Values{"page": {strconv.Itoa(n)}}, "project_assignments")
	})
	if err != nil {
		return nil, err
	}
	projects := make([]domain.Project, 0, len(assignments))
	for _, a := range assignments {
		projects = append(projects, a.Project)
	}
	c.log.Debug("fetched active projects", slog.Uint64("user_id", user.ID), slog.Int("count", len(projects)))
	return projects, nil
}

// ProjectPages returns every page of active projects as the server sent them.
// GET /v2/projects?is_active=true&page={n}
func (c *Client) ProjectPages(ctx context.Context) ([]domain.Page[domain.Project], error) {
	return Pages[domain.Project](ctx, func(ctx context.Context, n int) (domain.Page[domain.Project], error) {
		q := url.Values{"is_active": {"true"}, "page": {strconv.Itoa(n)}}
		return fetchPage[domain.Project](ctx, c, "/v2/projects", q, "projects")
	})
}

// TimeEntriesToday returns user's entries for the current local date. Only
// the first page is read; entries beyond per_page are dropped.
// GET /v2/time_entries?user_id={id}&from={date}&to={date}
func (c *Client) TimeEntriesToday(ctx context.Context, user domain.User) ([]domain.TimeEntry, error) {
	today := c.today()
	q := url.Values{
		"user_id": {strconv.FormatUint(user.ID, 10)},
		"from":    {today},
		"to":      {today},
	}
	page, err := fetchPage[domain.TimeEntry](ctx, c, "/v2/time_entries", q, "time_entries")
	if err != nil {
		return nil, err
	}
	c.warnTruncated("time_entries", page.Pagination)
	if page.Items == nil {
		return []domain.TimeEntry{}, nil
	}
	return page.Items, nil
}

// ProjectTaskAssignments returns the active task assignments of project.
// Like TimeEntriesToday it reads a single page.
// GET /v2/projects/{id}/task_assignments?is_active=true
func (c *Client) ProjectTaskAssignments(ctx context.Context, project domain.Project) ([]domain.TaskAssignment, error) {
	path := fmt.Sprintf("/v2/projects/%d/task_assignments", project.ID)
	page, err := fetchPage[domain.TaskAssignment](ctx, c, path, url.Values{"is_active": {"true"}}, "task_assignments")
	if err != nil {
		return nil, err
	}
	c.warnTruncated("task_assignments", page.Pagination)
	if page.Items == nil {
		return []domain.TaskAssignment{}, nil
	}
	return page.Items, nil
}

// StartTimer creates a time entry for today. Empty notes and non-positive
// hours are left out of the request; without hours Harvest starts a running timer.
// POST /v2/time_entries
func (c *Client) StartTimer(ctx context.Context, project domain.Project, task domain.Task, notes string, hours float64) (domain.TimeEntry, error) {
	timer := domain.Timer{
		ProjectID: project.ID,
		TaskID:    task.ID,
		SpentDate: c.today(),
	}
	if notes != "" {
		timer.Notes = &notes
	}
	if hours > 0 {
		timer.Hours = &hours
	}
	resp, err := c.transport.Do(ctx, http.MethodPost, c.endpoint("/v2/time_entries", nil), timer)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return decode[domain.TimeEntry](resp, "time entry")
}

// RestartTimer resumes a stopped entry. The service decides whether the
// transition is legal.
// PATCH /v2/time_entries/{id}/restart
func (c *Client) RestartTimer(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	return c.patchEntry(ctx, entry, "restart")
}

// StopTimer stops a running entry.
// PATCH /v2/time_entries/{id}/stop
func (c *Client) StopTimer(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	return c.patchEntry(ctx, entry, "stop")
}

func (c *Client) patchEntry(ctx context.Context, entry domain.TimeEntry, action string) (domain.TimeEntry, error) {
	path := fmt.Sprintf("/v2/time_entries/%d/%s", entry.ID, action)
	resp, err := c.transport.Do(ctx, http.MethodPatch, c.endpoint(path, nil), nil)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return decode[domain.TimeEntry](resp, "time entry")
}

func (c *Client) endpoint(path string, q url.Values) string {
	if len(q) == 0 {
		return c.baseURL + path
	}
	return c.baseURL + path + "?" + q.Encode()
}

func (c *Client) today() string {
	return c.now().Format(domain.DateLayout)
}

func (c *Client) warnTruncated(resource string, p domain.Pagination) {
	if p.TotalPages > 1 {
		c.log.Warn("only the first page was read",
			slog.String("resource", resource),
			slog.Int("total_pages", p.TotalPages),
			slog.Int("total_entries", p.TotalEntries),
		)
	}
}

func fetchPage[T any](ctx context.Context, c *Client, path string, q url.Values, key string) (domain.Page[T], error) {
	resp, err := c.transport.Do(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return domain.Page[T]{}, err
	}
	page, err := domain.DecodePage[T](key, resp.Body)
	return page, withRejection(err, resp)
}

func decode[T domain.Validator](resp *Response, resource string) (T, error) {
	v, err := domain.Decode[T](resource, resp.Body)
	return v, withRejection(err, resp)
}

// withRejection attaches the HTTP status to a decode failure on a non-2xx
// response. A non-2xx body that decodes cleanly is accepted as-is.
func withRejection(err error, resp *Response) error {
	if err == nil || resp.OK() {
		return err
	}
	var de *domain.DecodeError
	if errors.As(err, &de) {
		de.Rejection = &RemoteRejection{Status: resp.Status, Body: string(resp.Body)}
	}
	return err
}
