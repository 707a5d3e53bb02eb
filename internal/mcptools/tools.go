package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/blackwood-mystery/internal/config"
	"github.com/robalobadob/blackwood-mystery/internal/game"
	"github.com/robalobadob/blackwood-mystery/internal/world"
)

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}

// ValidateResult is the output of the validate tool.
type ValidateResult struct {
	Owner string `json:"owner" jsonschema:"contact identifying the server owner"`
}

// GoInput represents the input of the go tool.
type GoInput struct {
	Direction string `json:"direction" jsonschema:"direction to move: north, south, east or west"`
}

// ExamineInput represents the input of the examine tool.
type ExamineInput struct {
	Target string `json:"target" jsonschema:"'room' to look around, or the name of an item in the current room"`
}

// CollectInput represents the input of the collect tool.
type CollectInput struct {
	Clue string `json:"clue" jsonschema:"the clue to pick up, e.g. letter"`
}

// InterrogateInput represents the input of the interrogate tool.
type InterrogateInput struct {
	Suspect string `json:"suspect" jsonschema:"suspect to question: Lady Victoria or Mr. Giles"`
}

// AccuseInput represents the input of the accuse tool.
type AccuseInput struct {
	Killer string `json:"killer" jsonschema:"who committed the murder"`
	Weapon string `json:"weapon" jsonschema:"the murder weapon"`
	Motive string `json:"motive" jsonschema:"why they did it"`
}

// ValidateTool defines the MCP tool schema for owner validation.
func ValidateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "validate",
		Description: "Returns the contact of the server owner so a client can verify the server.",
	}
}

// StartGameTool defines the MCP tool schema for starting a case.
func StartGameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "start_game",
		Description: "Starts a new mystery and describes the crime scene.",
	}
}

// GoTool defines the MCP tool schema for movement.
func GoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "go",
		Description: "Moves the detective to an adjacent room.",
	}
}

// ExamineTool defines the MCP tool schema for examining.
func ExamineTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "examine",
		Description: "Examines the current room or an item in it for clues.",
	}
}

// CollectTool defines the MCP tool schema for collecting evidence.
func CollectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "collect",
		Description: "Collects a clue found in the current room.",
	}
}

// InterrogateTool defines the MCP tool schema for questioning suspects.
func InterrogateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "interrogate",
		Description: "Questions a suspect present in the current room.",
	}
}

// AccuseTool defines the MCP tool schema for the final accusation.
func AccuseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "accuse",
		Description: "Makes the final accusation and closes the case, right or wrong.",
	}
}

// ValidateHandler reports the configured owner contact.
func ValidateHandler(cfg config.Config) mcp.ToolHandlerFor[EmptyInput, ValidateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, ValidateResult, error) {
		owner, ok := cfg.OwnerReply()
		if !ok {
			log.Warn().Msg("OWNER_CONTACT is not configured")
		}
		return textResult(owner), ValidateResult{Owner: owner}, nil
	}
}

// StartGameHandler resets the session.
func StartGameHandler(s *game.Session) mcp.ToolHandlerFor[EmptyInput, game.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, game.Result, error) {
		return turn(s.Start())
	}
}

// GoHandler moves the detective. Directions outside the compass are tool errors.
func GoHandler(s *game.Session) mcp.ToolHandlerFor[GoInput, game.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoInput) (*mcp.CallToolResult, game.Result, error) {
		dir, err := world.ParseDirection(input.Direction)
		if err != nil {
			return nil, game.Result{}, fmt.Errorf("%w %q: use north, south, east or west", err, input.Direction)
		}
		return turn(s.Move(dir))
	}
}

// ExamineHandler examines the room or an item.
func ExamineHandler(s *game.Session) mcp.ToolHandlerFor[ExamineInput, game.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ExamineInput) (*mcp.CallToolResult, game.Result, error) {
		return turn(s.Examine(input.Target))
	}
}

// CollectHandler collects a clue.
func CollectHandler(s *game.Session) mcp.ToolHandlerFor[CollectInput, game.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CollectInput) (*mcp.CallToolResult, game.Result, error) {
		return turn(s.Collect(input.Clue))
	}
}

// InterrogateHandler questions a suspect. Unknown names are tool errors.
func InterrogateHandler(s *game.Session) mcp.ToolHandlerFor[InterrogateInput, game.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InterrogateInput) (*mcp.CallToolResult, game.Result, error) {
		sus, err := world.ParseSuspect(input.Suspect)
		if err != nil {
			return nil, game.Result{}, fmt.Errorf("%w %q: use Lady Victoria or Mr. Giles", err, input.Suspect)
		}
		return turn(s.Interrogate(sus))
	}
}

// AccuseHandler makes the final accusation.
func AccuseHandler(s *game.Session) mcp.ToolHandlerFor[AccuseInput, game.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AccuseInput) (*mcp.CallToolResult, game.Result, error) {
		return turn(s.Accuse(input.Killer, input.Weapon, input.Motive))
	}
}

// turn returns res both as narration text and as structured output.
func turn(res game.Result) (*mcp.CallToolResult, game.Result, error) {
	log.Debug().Str("kind", string(res.Kind)).Str("location", res.CurrentLocation).Msg("mcp game action")
	return textResult(res.Message), res, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}
