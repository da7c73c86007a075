package gateway

import (
	"context"
	"fmt"

	"github.com/airwuu/appstore/internal/models"
)

// Moderation reads for the admin dashboard. Plain reads, no mutation; the
// same render-empty policy as every other list read applies.

// ReportedUsers lists users with at least one report filed against their
// content.
func (c *Client) ReportedUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.getList(ctx, "/admin/reported_users", &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// ReportedApps lists apps with at least one report filed against them.
func (c *Client) ReportedApps(ctx context.Context) ([]models.App, error) {
	var apps []models.App
	if err := c.getList(ctx, "/admin/reported_apps", &apps); err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.App{}
	}
	return apps, nil
}

// UserReports fetches the report detail for one user's flagged content.
func (c *Client) UserReports(ctx context.Context, userID int64) ([]models.Report, error) {
	var reports []models.Report
	path := fmt.Sprintf("/admin/users/%d/reports", userID)
	if err := c.getList(ctx, path, &reports); err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}

// AppReports fetches the report detail for one app.
func (c *Client) AppReports(ctx context.Context, appID int64) ([]models.Report, error) {
	var reports []models.Report
	path := fmt.Sprintf("/admin/apps/%d/reports", appID)
	if err := c.getList(ctx, path, &reports); err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}
