package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/gasnet/calculator/internal/codec"
	"github.com/gasnet/calculator/internal/evaluator"
	"github.com/gasnet/calculator/internal/handler" // registers report formats
	"github.com/gasnet/calculator/internal/profile"
	"github.com/gasnet/calculator/internal/registry"
	"github.com/gasnet/calculator/internal/report"
	"github.com/gasnet/calculator/internal/result"
)

// LambdaEvent is the invocation payload (e.g. from API Gateway).
type LambdaEvent struct {
	Body          string                 `json:"body"` // network JSON (raw or base64 if isBase64)
	IsBase64      bool                   `json:"isBase64,omitempty"`
	Format        string                 `json:"format,omitempty"` // json (default), yaml or hcl
	Client        *profile.ClientProfile `json:"client,omitempty"`
	Reports       []string               `json:"reports,omitempty"`
	VelocityBasis string                 `json:"velocityBasis,omitempty"`
}

// LambdaResponse is returned to the client (API Gateway).
type LambdaResponse struct {
	StatusCode int                `json:"statusCode"`
	Success    bool               `json:"success"`
	Evaluation *result.Evaluation `json:"evaluation,omitempty"`
	Errors     []result.Error     `json:"errors,omitempty"`
	Warnings   []result.Warning   `json:"warnings,omitempty"`
	Files      map[string]string  `json:"files,omitempty"` // filename -> content (base64)
}

// APIGatewayResponse is the shape expected by API Gateway proxy integration (body = JSON string).
type APIGatewayResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

func handle(ctx context.Context, event LambdaEvent) (APIGatewayResponse, error) {
	out := LambdaResponse{StatusCode: 200}

	body := event.Body
	if event.IsBase64 {
		dec, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return wrap(fail(400, "invalid_input", "invalid base64 body: "+err.Error())), nil
		}
		body = string(dec)
	}

	imp, err := codec.ForFormat(event.Format)
	if err != nil {
		return wrap(fail(400, "invalid_input", err.Error())), nil
	}
	n, err := imp.Parse(strings.NewReader(body))
	if err != nil {
		return wrap(fail(400, "invalid_network", "invalid network: "+err.Error())), nil
	}
	if event.Client != nil {
		if err := event.Client.Validate(); err != nil {
			return wrap(fail(400, "invalid_client", err.Error())), nil
		}
	}

	res, err := evaluator.New(evaluator.DefaultOptions()).Run(n)
	if err != nil {
		return wrap(fail(500, "evaluation_error", err.Error())), nil
	}
	out.Success = res.Success
	out.Evaluation = res.Evaluation
	out.Errors = res.Errors
	out.Warnings = res.Warnings
	if !res.Success {
		out.StatusCode = 422
		return wrap(out), nil
	}

	if len(event.Reports) > 0 {
		basis, err := report.ParseBasis(event.VelocityBasis)
		if err != nil {
			return wrap(fail(400, "invalid_input", err.Error())), nil
		}
		opts := report.DefaultOptions()
		opts.Basis = basis
		doc, err := report.Build(opts, n.Metadata, n.Segments, event.Client, res.Evaluation)
		if err != nil {
			return wrap(fail(422, "report_error", err.Error())), nil
		}
		files, errs := handler.Render(registry.Default, doc, event.Reports)
		out.Errors = append(out.Errors, errs...)
		out.Files = make(map[string]string)
		for name, content := range files.Build() {
			out.Files[name] = base64.StdEncoding.EncodeToString(content)
		}
	}
	return wrap(out), nil
}

func fail(status int, typ, msg string) LambdaResponse {
	return LambdaResponse{
		StatusCode: status,
		Success:    false,
		Errors:     []result.Error{{Type: typ, Severity: "error", Message: msg}},
	}
}

func wrap(out LambdaResponse) APIGatewayResponse {
	bodyBytes, _ := json.Marshal(out)
	return APIGatewayResponse{
		StatusCode: out.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(bodyBytes),
	}
}

func main() {
	lambda.Start(handle)
}
