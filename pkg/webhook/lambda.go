package webhook

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// HandleAPIGateway adapts Handle to API Gateway proxy events
func (s *Server) HandleAPIGateway(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			s.logger.Info().Err(err).Msg("Invalid base64 body")
			return toAPIGateway(errorResponse(http.StatusBadRequest, "invalid request body")), nil
		}
		body = decoded
	}

	resp := s.Handle(ctx, Request{
		Method:  request.HTTPMethod,
		Path:    request.Path,
		Headers: request.Headers,
		Body:    body,
	})
	return toAPIGateway(resp), nil
}

func toAPIGateway(resp Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}
