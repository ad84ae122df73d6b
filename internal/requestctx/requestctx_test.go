package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientRoundTrip(t *testing.T) {
	assert.Equal(t, Client{}, ClientFrom(context.Background()))

	ctx := WithClient(context.Background(), Client{RequestID: "r1", IP: "10.0.0.1", UserAgent: "curl"})
	assert.Equal(t, "10.0.0.1", ClientFrom(ctx).IP)
	assert.Equal(t, "r1", ClientFrom(ctx).RequestID)
}
