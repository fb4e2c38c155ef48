package vercel

import (
	"context"
	"net/http"
)

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type currentUserResponse struct {
	User User `json:"user"`
}

// CurrentUser returns the principal the configured token authenticates
// as. Used as a pre-flight health check before bulk operations.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out currentUserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/v2/user", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}
