// Package apiclient is the thin HTTP client the CLI commands use to talk
// to a running tally server.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tallyhq/tally/internal/server"
	"github.com/tallyhq/tally/pkg/datekey"
	"github.com/tallyhq/tally/pkg/habit"
	"github.com/tallyhq/tally/pkg/versioninfo"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    http.DefaultClient,
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	var response server.HabitListResponse
	if err := c.get(ctx, "/habits", &response); err != nil {
		return nil, err
	}
	return response.Habits, nil
}

func (c *Client) ListDueHabits(ctx context.Context, day datekey.DateKey) ([]habit.Habit, error) {
	path := "/habits/due"
	if !day.IsZero() {
		path += "?date=" + day.String()
	}
	var response server.DueListResponse
	if err := c.get(ctx, path, &response); err != nil {
		return nil, err
	}
	return response.Habits, nil
}

func (c *Client) GetHabitSummary(ctx context.Context, id string) (*server.HabitSummary, error) {
	var response server.HabitSummaryResponse
	if err := c.get(ctx, "/habits/"+id+"/summary", &response); err != nil {
		return nil, err
	}
	return &response.Summary, nil
}

func (c *Client) GetVersion(ctx context.Context) (*versioninfo.VersionInfo, error) {
	var out versioninfo.VersionInfo
	if err := c.get(ctx, "/version", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
