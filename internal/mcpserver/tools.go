package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/morozRed/actionref/internal/index"
	"github.com/morozRed/actionref/internal/nav"
)

// IndexSource exposes the currently published index.
type IndexSource interface {
	Current() *index.Index
}

// UsagesResponse is the JSON payload of action_creator_usages.
type UsagesResponse struct {
	Name       string         `json:"name"`
	ActionType string         `json:"action_type"`
	Definition index.Location `json:"definition"`
	Usages     []nav.Link     `json:"usages"`
	Markdown   string         `json:"markdown"`
}

// ListResponse is the JSON payload of list_action_creators.
type ListResponse struct {
	Total    int              `json:"total"`
	Creators []nav.ListRecord `json:"creators"`
}

// AddUsagesTool registers the action_creator_usages tool.
func AddUsagesTool(s *server.MCPServer, source IndexSource, linker nav.Linker) {
	tool := mcp.NewTool(
		"action_creator_usages",
		mcp.WithDescription("List where the action type of a Redux action creator is consumed (reducers, sagas, middleware). The first occurrence in each file, usually the import, is not reported."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Action creator function name, e.g. 'fetchUser'")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createUsagesHandler(source, linker))
}

// AddListTool registers the list_action_creators tool.
func AddListTool(s *server.MCPServer, source IndexSource) {
	tool := mcp.NewTool(
		"list_action_creators",
		mcp.WithDescription("List every indexed action creator with its action type and usage count."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createListHandler(source))
}

func createUsagesHandler(source IndexSource, linker nav.Linker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		name, ok := argsMap["name"].(string)
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return mcp.NewToolResultError("name parameter is required"), nil
		}

		idx := source.Current()
		entry, found := idx.Lookup(name)
		if !found {
			text := fmt.Sprintf("no usages found for %q", name)
			if suggestions := nav.Suggest(idx.Names(), name, 5); len(suggestions) > 0 {
				text += fmt.Sprintf(" (did you mean: %s)", strings.Join(suggestions, ", "))
			}
			return mcp.NewToolResultText(text), nil
		}

		response := UsagesResponse{
			Name:       entry.Name,
			ActionType: entry.ActionType,
			Definition: entry.Definition,
			Usages:     nav.Links(entry, linker),
			Markdown:   nav.RenderMarkdown(entry, linker),
		}
		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

func createListHandler(source IndexSource) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records := nav.ListRecords(source.Current())
		jsonData, err := json.Marshal(ListResponse{Total: len(records), Creators: records})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
