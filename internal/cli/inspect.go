package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/objectgrid/pkg/layout"
)

// inspectCommand creates the inspect command for reading layout files.
func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Summarize a layout file",
		Long: `Summarize a layout file written by 'layout'.

Prints the config the layout was computed with, its grid size and bounds,
and a table of placements. With --interactive, browse the placements and
view each item's full pose.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}
			if interactive {
				_, err := tea.NewProgram(newPlacementModel(l), tea.WithContext(cmd.Context())).Run()
				return err
			}
			printSummary(l)
			fmt.Println()
			fmt.Println(placementTable(l, 0, len(l.Placements), -1))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse placements interactively")
	return cmd
}
