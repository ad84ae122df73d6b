// Package requestctx carries per-request client details from the HTTP layer
// into services without coupling them to fiber.
package requestctx

import "context"

// Client identifies the caller of the current request.
type Client struct {
	RequestID string
	IP        string
	UserAgent string
}

type clientKey struct{}

func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFrom returns the zero Client when none was attached.
func ClientFrom(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey{}).(Client)
	return c
}
