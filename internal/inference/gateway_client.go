package inference

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"chat-backend/pkg/api"
)

// GatewayClient is the client-side Backend for the gateway model. It invokes
// the function endpoint on the chat server, which in turn talks to the
// upstream. The endpoint answers 200 even for backend exhaustion, so only
// transport-level problems surface as errors here.
type GatewayClient struct {
	client *resty.Client
}

func NewGatewayClient(baseURL, token string) *GatewayClient {
	return &GatewayClient{
		client: resty.New().SetBaseURL(baseURL).SetAuthToken(token),
	}
}

func (c *GatewayClient) Reply(ctx context.Context, req Request) (Response, error) {
	var result api.InvokeGatewayResponse

	res, err := c.client.R().
		SetContext(ctx).
		SetBody(api.InvokeGatewayRequest{Message: req.Text, ChatID: req.ChatID}).
		SetResult(&result).
		Post("/functions/aanum")
	if err != nil {
		return Response{}, fmt.Errorf("gateway invocation failed: %w", err)
	}
	if res.IsError() {
		return Response{}, fmt.Errorf("gateway function returned status %d", res.StatusCode())
	}

	return Response{Text: result.Response, Err: result.Error}, nil
}
