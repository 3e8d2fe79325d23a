// Package tools defines the tool contract exposed to LLM agents.
package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"

	"github.com/effective-security/dinefind/pkg/llmutils"
)

// ErrFailedUnmarshalInput is returned when a tool cannot parse its input;
// the agent should check the schema and retry.
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

// McpServerRegistrator registers tool handlers on an MCP server.
type McpServerRegistrator interface {
	RegisterTool(name string, description string, handler any) error
}

// ITool is a tool for the LLM agent to interact with the restaurant catalog
// and booking engines.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	Description() string
	// Parameters returns the parameters definition of the tool input.
	Parameters() any

	// Call executes the tool with the given input and returns the result.
	// If the tool fails to parse the input, it returns ErrFailedUnmarshalInput.
	Call(context.Context, string) (string, error)
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// IMCPTool extends ITool with registration on an MCP server.
type IMCPTool interface {
	ITool
	RegisterMCP(registrator McpServerRegistrator) error
}

type MCPTool[I any] interface {
	IMCPTool
	RunMCP(context.Context, *I) (*mcp.ToolResponse, error)
}

type toolDescription struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools"`
}

// GetDescriptions renders the name and description of every tool as a JSON
// block for inclusion in an agent prompt.
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}
