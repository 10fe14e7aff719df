package cli

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/roostlabs/roost/docs"
	"github.com/roostlabs/roost/internal/ui"
)

// docsTopics is the registry of Markdown pages bundled into the binary,
// in display order. IDs double as command arguments.
var docsTopics = []docsTopic{
	{ID: "quickstart", Title: "Getting Started", Path: "topics/quickstart.md"},
	{ID: "format", Title: "The Spawn File Format", Path: "topics/format.md"},
	{ID: "commands", Title: "Command Reference", Path: "topics/commands.md"},
	{ID: "workspaces", Title: "Workspaces", Path: "topics/workspaces.md"},
}

type docsTopic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Browse long-form documentation",
	Long: `Browse long-form documentation bundled into the roost binary.

Without arguments, lists the available topics. With a topic, renders
it for the terminal; piped output gets the raw Markdown. For
command-level usage, use 'roost help <command>'.

Examples:
  roost docs
  roost docs quickstart
  roost docs format | less`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return outputDocsTopicList()
		}

		topic, ok := findDocsTopic(args[0])
		if !ok {
			ids := make([]string, 0, len(docsTopics))
			for _, t := range docsTopics {
				ids = append(ids, t.ID)
			}
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("unknown docs topic: %s", args[0]),
				fmt.Sprintf("Run 'roost docs' to list topics (available: %s)", strings.Join(ids, ", ")))
		}

		return outputDocsTopicContent(topic)
	},
}

func findDocsTopic(input string) (docsTopic, bool) {
	needle := strings.ToLower(strings.TrimSpace(input))
	for _, t := range docsTopics {
		if t.ID == needle {
			return t, true
		}
	}
	return docsTopic{}, false
}

func outputDocsTopicList() error {
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"topics":       docsTopics,
			"command_docs": "roost help <command>",
		}, &Meta{Count: len(docsTopics)})
		return nil
	}

	fmt.Println("Documentation topics:")
	for _, t := range docsTopics {
		fmt.Printf("  %-28s %s\n", fmt.Sprintf("roost docs %s", t.ID), t.Title)
	}
	fmt.Println()
	fmt.Println(ui.Hint("Command docs: roost help <command>"))
	return nil
}

func outputDocsTopicContent(topic docsTopic) error {
	content, err := fs.ReadFile(builtindocs.FS, topic.Path)
	if err != nil {
		return handleError(ErrFileReadError, err, "Rebuild roost so bundled docs are available")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"topic":   topic.ID,
			"title":   topic.Title,
			"content": string(content),
		}, nil)
		return nil
	}

	rendered := string(content)
	display := ui.NewDisplayContext()
	if display.IsTTY {
		if out, renderErr := ui.RenderMarkdown(string(content), display.DocWidth()); renderErr == nil {
			rendered = out
		}
	}

	fmt.Print(rendered)
	if !strings.HasSuffix(rendered, "\n") {
		fmt.Println()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
