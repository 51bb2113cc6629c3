package stepfunctions

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/savaki/ga-webhook/pkg/models"
)

// execution names allow at most 80 characters from [A-Za-z0-9-_]
const maxExecutionNameLength = 80

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// StartExecutionAPI is the subset of the Step Functions client used here
type StartExecutionAPI interface {
	StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error)
}

// Client runs named remote methods as Step Functions executions
type Client struct {
	client          StartExecutionAPI
	stateMachineArn string
}

// NewClient creates a new Step Functions client
func NewClient(cfg aws.Config, stateMachineArn string) *Client {
	return NewClientWithAPI(sfn.NewFromConfig(cfg), stateMachineArn)
}

// NewClientWithAPI creates a client around an existing Step Functions API
func NewClientWithAPI(api StartExecutionAPI, stateMachineArn string) *Client {
	return &Client{
		client:          api,
		stateMachineArn: stateMachineArn,
	}
}

// Call starts the method state machine with method and its single argument.
// It returns the execution ARN without waiting for the execution to finish.
func (c *Client) Call(ctx context.Context, method, arg string) (string, error) {
	invocation := models.NewMethodInvocation(method, arg)

	inputJSON, err := json.Marshal(invocation)
	if err != nil {
		return "", fmt.Errorf("marshal input: %w", err)
	}

	result, err := c.client.StartExecution(ctx, &sfn.StartExecutionInput{
		StateMachineArn: aws.String(c.stateMachineArn),
		Input:           aws.String(string(inputJSON)),
		Name:            aws.String(executionName(method, invocation.RequestID)),
	})
	if err != nil {
		return "", fmt.Errorf("start execution: %w", err)
	}

	return aws.ToString(result.ExecutionArn), nil
}

// executionName builds "<method>-<requestID>" using only allowed characters
func executionName(method, requestID string) string {
	prefix := invalidNameChars.ReplaceAllString(method, "-")
	if prefix == "" {
		prefix = "method"
	}
	if limit := maxExecutionNameLength - len(requestID) - 1; len(prefix) > limit {
		prefix = prefix[:limit]
	}
	return prefix + "-" + requestID
}
