package wda

import (
	"context"
	"net/http"
)

// AcceptAlert accepts the presented alert. Fails with KindNoSuchElement
// when no alert is on screen.
func (c *Client) AcceptAlert(ctx context.Context, sessionID string) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/alert/accept"), nil)
	return err
}

// DismissAlert dismisses the presented alert.
func (c *Client) DismissAlert(ctx context.Context, sessionID string) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/alert/dismiss"), nil)
	return err
}

// AlertText returns the text of the presented alert.
func (c *Client) AlertText(ctx context.Context, sessionID string) (string, error) {
	raw, err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/alert/text"), nil)
	if err != nil {
		return "", err
	}
	var text string
	if err := valueOf(raw, &text); err != nil {
		return "", err
	}
	return text, nil
}
