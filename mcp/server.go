// Package mcp exposes the tools of archcheck through a Model Context Protocol
// server.
package mcp

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/imagespy/archcheck/calc"
	"github.com/imagespy/archcheck/checker"
	"github.com/imagespy/archcheck/version"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	serverKeepAlive = 30 * time.Second
)

// ImageChecker checks the architectures of an image.
type ImageChecker interface {
	Check(ctx context.Context, image string) checker.Result
}

// Config contains the configuration of the MCP server.
type Config struct {
	Name    string
	Version string
	Checker ImageChecker
}

// DefaultConfig returns the configuration used by the mcp command.
func DefaultConfig(c ImageChecker) Config {
	return Config{
		Name:    "demoserver",
		Version: version.Version,
		Checker: c,
	}
}

// AddInput are the arguments of the add tool.
type AddInput struct {
	A int `json:"a" jsonschema:"first number"`
	B int `json:"b" jsonschema:"second number"`
}

// CheckImageInput are the arguments of the check_image tool.
type CheckImageInput struct {
	Image string `json:"image" jsonschema:"Docker image name (format: name:tag)"`
}

// AddOutput is the structured result of the add tool.
type AddOutput struct {
	Result int `json:"result" jsonschema:"sum of a and b"`
}

type tools struct {
	checker ImageChecker
}

func (t *tools) add(_ context.Context, _ *mcpsdk.CallToolRequest, in AddInput) (*mcpsdk.CallToolResult, AddOutput, error) {
	sum := calc.Add(in.A, in.B)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: strconv.Itoa(sum)},
		},
	}, AddOutput{Result: sum}, nil
}

func (t *tools) checkImage(ctx context.Context, _ *mcpsdk.CallToolRequest, in CheckImageInput) (*mcpsdk.CallToolResult, checker.Result, error) {
	log.Debugf("checking image %s", in.Image)
	r := t.checker.Check(ctx, in.Image)
	b, err := json.Marshal(r)
	if err != nil {
		return nil, checker.Result{}, errors.Wrap(err, "encoding result")
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(b)},
		},
	}, r, nil
}

// NewServer creates an MCP server with the add and check_image tools.
func NewServer(cfg Config) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &mcpsdk.ServerOptions{
		Instructions: "Checks whether Docker Hub images provide the amd64 and arm64 architectures.",
		KeepAlive:    serverKeepAlive,
	})

	t := &tools{checker: cfg.Checker}
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "add",
		Description: "Add two numbers",
	}, t.add)
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "check_image",
		Description: "Check Docker image architectures",
	}, t.checkImage)

	return server
}

// Run serves the tools over stdio until the client disconnects or ctx is
// cancelled.
func Run(ctx context.Context, cfg Config) error {
	err := NewServer(cfg).Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return errors.Wrap(err, "running MCP server")
	}

	return nil
}
