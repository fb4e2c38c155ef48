package railway

import "context"

type Account struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

const meQuery = `
query me {
  me {
    email
    name
  }
}`

// Me returns the account the configured token authenticates as. Used by
// pre-flight connectivity checks.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var out struct {
		Me Account `json:"me"`
	}
	if err := c.doQuery(ctx, "me", meQuery, nil, &out); err != nil {
		return nil, err
	}
	return &out.Me, nil
}
