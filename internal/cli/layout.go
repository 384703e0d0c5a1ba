package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/objectgrid/pkg/errors"
	"github.com/matzehuels/objectgrid/pkg/pipeline"
	"github.com/matzehuels/objectgrid/pkg/scene"
)

// layoutFlags holds the layout command's flags. Only flags the user set
// become overrides; the rest defer to the scene file and the settings.
type layoutFlags struct {
	output  string
	noCache bool
	refresh bool

	surface        string
	sort           string
	orient         string
	arrange        string
	rows           int
	cellWidth      float64
	cellHeight     float64
	radius         float64
	ignoreInactive bool

	seed   uint64
	passes int
}

// layoutCommand creates the layout command for arranging scene files.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [scene.toml|scene.json]",
		Short: "Arrange the items of a scene and write their placements",
		Long: `Arrange the items of a scene and write their placements.

The layout command reads a TOML or JSON scene, sorts and filters its items,
places them on a grid and projects the grid onto the chosen surface. Scatter
layouts are then packed to reduce overlap. The result is written to
<scene>.layout.json unless --output says otherwise; use "-o -" for stdout.

Settings come from the config file, then the scene's [collection] table,
then flags. Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), cmd, args[0], f)
		},
	}

	d := DefaultSettings().Collection
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <scene>.layout.json)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if a cached layout exists")

	cmd.Flags().StringVarP(&f.surface, "surface", "s", d.Surface, "surface: plane, cylinder, sphere, scatter")
	cmd.Flags().StringVar(&f.sort, "sort", d.Sort, "sort: none, transform, transform-reversed, alphabetical, alphabetical-reversed")
	cmd.Flags().StringVar(&f.orient, "orient", d.Orient, "orientation: face-origin, face-origin-reversed, face-forward, face-forward-reversed, none")
	cmd.Flags().StringVar(&f.arrange, "layout", d.Layout, "fill order: column-then-row, row-then-column")
	cmd.Flags().IntVar(&f.rows, "rows", d.Rows, "rows per column")
	cmd.Flags().Float64Var(&f.cellWidth, "cell-width", d.CellWidth, "grid cell width")
	cmd.Flags().Float64Var(&f.cellHeight, "cell-height", d.CellHeight, "grid cell height")
	cmd.Flags().Float64VarP(&f.radius, "radius", "r", d.Radius, "surface radius, scatter spread and packing padding")
	cmd.Flags().BoolVar(&f.ignoreInactive, "ignore-inactive", d.IgnoreInactive, "leave inactive items out")

	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "scatter random seed")
	cmd.Flags().IntVar(&f.passes, "passes", 0, "scatter packing passes (default from settings)")

	return cmd
}

// overrides collects the collection flags the user set explicitly.
func (f layoutFlags) overrides(cmd *cobra.Command) scene.Overrides {
	var o scene.Overrides
	changed := cmd.Flags().Changed
	if changed("surface") {
		o.Surface = f.surface
	}
	if changed("sort") {
		o.Sort = f.sort
	}
	if changed("orient") {
		o.Orient = f.orient
	}
	if changed("layout") {
		o.Layout = f.arrange
	}
	if changed("rows") {
		o.Rows = &f.rows
	}
	if changed("cell-width") {
		o.CellWidth = &f.cellWidth
	}
	if changed("cell-height") {
		o.CellHeight = &f.cellHeight
	}
	if changed("radius") {
		o.Radius = &f.radius
	}
	if changed("ignore-inactive") {
		o.IgnoreInactive = &f.ignoreInactive
	}
	return o
}

// runLayout reads the scene, runs the pipeline and writes the layout.
func (c *CLI) runLayout(ctx context.Context, cmd *cobra.Command, input string, f layoutFlags) error {
	format, err := scene.FormatFromPath(input)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s not found", input)
		}
		return fmt.Errorf("read %s: %w", input, err)
	}
	base, err := c.Settings.Collection.Config()
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	runner, err := c.newRunner(ctx, f.noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Scene:     data,
		Format:    format,
		Name:      sceneStem(input),
		Base:      base,
		Overrides: f.overrides(cmd),
		Seed:      c.Settings.Seed,
		Passes:    c.Settings.Passes,
		Refresh:   f.refresh,
		Logger:    c.Logger,
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = f.seed
	}
	if cmd.Flags().Changed("passes") {
		opts.Passes = f.passes
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Arranging "+filepath.Base(input)+"...")
	spinner.Start()
	res, err := runner.Layout(ctx, opts)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("layout %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Arranged %d items", res.Stats.Items))

	out := f.output
	if out == "-" {
		_, err := os.Stdout.Write(append(res.Data, '\n'))
		return err
	}
	if out == "" {
		out = defaultOutput(input)
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Laid out %s on a %s", res.Layout.Scene, res.Layout.Config.Surface)
	fmt.Println(statsLine(res.Stats, res.CacheHit))
	printFile(out)
	if res.Stats.Overlapping > 0 {
		printWarning("%d items still overlap after packing; try more --passes or a larger --radius", res.Stats.Overlapping)
	}
	printNextStep("Inspect", appName+" inspect "+out)
	return nil
}

// sceneStem is the file name without directory or extension.
func sceneStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// defaultOutput maps shelf.toml to shelf.layout.json next to the input.
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}
