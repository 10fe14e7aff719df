package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/config"
	"github.com/roostlabs/roost/internal/ui"
)

const gitignoreTemplate = `# Roost (auto-generated)
# Spawn catalogs are the source of truth; everything under .roost/ is derived.

# Index database and backups (rebuilt with 'roost reindex')
.roost/
`

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Initialize a new workspace",
	Long: `Sets up a workspace directory for roost.

Creates roost.yaml with default settings, the .roost/ directory that holds
the index and catalog backups, and a .gitignore entry for .roost/. Existing
files are kept, so running init on a live workspace is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		for _, dir := range []string{path, filepath.Join(path, ".roost")} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return handleError(ErrFileWriteError, fmt.Errorf("create %s: %w", dir, err), "")
			}
		}

		gitignoreStatus, err := ensureGitignore(path)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		createdConfig, err := config.CreateDefaultWorkspaceConfig(path)
		if err != nil {
			return handleError(ErrFileWriteError, fmt.Errorf("create roost.yaml: %w", err), "")
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{
				"path":           path,
				"config_created": createdConfig,
				"gitignore":      gitignoreStatus,
			}, nil)
			return nil
		}

		fmt.Printf("Initializing workspace at: %s\n", ui.FilePath(path))
		if createdConfig {
			fmt.Println(ui.Check("Created roost.yaml (workspace configuration)"))
		} else {
			fmt.Println(ui.Bullet("roost.yaml already exists (kept)"))
		}
		fmt.Println(ui.Check("Ensured .roost/ directory exists"))
		switch gitignoreStatus {
		case "created":
			fmt.Println(ui.Check("Created .gitignore"))
		case "updated":
			fmt.Println(ui.Check("Updated .gitignore (added .roost/ entry)"))
		default:
			fmt.Println(ui.Bullet(".gitignore already covers .roost/"))
		}

		if createdConfig {
			fmt.Println("\nWorkspace ready. Start adding spawn files.")
		} else {
			fmt.Println("\nExisting workspace detected. Configuration preserved.")
		}
		return nil
	},
}

// ensureGitignore makes sure the workspace .gitignore covers .roost/ and
// reports whether the file was created, updated, or already covered it.
func ensureGitignore(workspacePath string) (string, error) {
	gitignorePath := filepath.Join(workspacePath, ".gitignore")

	existing, err := os.ReadFile(gitignorePath)
	if os.IsNotExist(err) {
		if err := os.WriteFile(gitignorePath, []byte(gitignoreTemplate), 0644); err != nil {
			return "", fmt.Errorf("write .gitignore: %w", err)
		}
		return "created", nil
	}
	if err != nil {
		return "", fmt.Errorf("read .gitignore: %w", err)
	}
	if strings.Contains(string(existing), ".roost/") {
		return "unchanged", nil
	}

	content := strings.TrimRight(string(existing), "\n") + "\n\n# Roost\n.roost/\n"
	if err := os.WriteFile(gitignorePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write .gitignore: %w", err)
	}
	return "updated", nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
