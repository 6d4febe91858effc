package main

import (
	"github.com/urfave/cli/v2"

	"github.com/panbanda/benford/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the Benford
analysis as a tool LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "benford": {
        "command": "benford",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_benford   Leading-digit distribution of per-file code metrics

Available prompts:
  - benford-review    Review the distributions and explain the outliers`,
		Action: func(c *cli.Context) error {
			return mcpserver.NewServer(version).Run(c.Context)
		},
	}
}
