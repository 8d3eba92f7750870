// Command armygrid splits unit totals and lays out spawn grids from the
// terminal, printing JSON or a rendered preview.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/eugenenazirov/army-grid/internal/config"
	"github.com/eugenenazirov/army-grid/internal/layout"
	"github.com/eugenenazirov/army-grid/internal/partition"
	"github.com/eugenenazirov/army-grid/internal/preview"
	"github.com/eugenenazirov/army-grid/internal/roster"
	"github.com/eugenenazirov/army-grid/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		kingpin.Fatalf("%v", err)
	}
}

// profileFlags override the configured default profile. Negative numbers and
// empty strings leave the configured value untouched.
type profileFlags struct {
	areaWidth, areaHeight *float64
	itemWidth, itemHeight *float64
	marginX, marginY      *float64
	minRows, minColumns   *int
	maxRows, maxColumns   *int
	directionX            *string
	directionY            *string
}

func addProfileFlags(cmd *kingpin.CmdClause) *profileFlags {
	return &profileFlags{
		areaWidth:  cmd.Flag("area-width", "Spawn area width").Default("-1").Float64(),
		areaHeight: cmd.Flag("area-height", "Spawn area height").Default("-1").Float64(),
		itemWidth:  cmd.Flag("item-width", "Item width").Default("-1").Float64(),
		itemHeight: cmd.Flag("item-height", "Item height").Default("-1").Float64(),
		marginX:    cmd.Flag("margin-x", "Horizontal gap between items").Default("-1").Float64(),
		marginY:    cmd.Flag("margin-y", "Vertical gap between items").Default("-1").Float64(),
		minRows:    cmd.Flag("min-rows", "Minimum rows (0 = unconstrained)").Default("-1").Int(),
		minColumns: cmd.Flag("min-columns", "Minimum columns (0 = unconstrained)").Default("-1").Int(),
		maxRows:    cmd.Flag("max-rows", "Maximum rows (0 = unbounded)").Default("-1").Int(),
		maxColumns: cmd.Flag("max-columns", "Maximum columns (0 = unbounded)").Default("-1").Int(),
		directionX: cmd.Flag("direction-x", "left-to-right or right-to-left").String(),
		directionY: cmd.Flag("direction-y", "top-to-bottom or bottom-to-top").String(),
	}
}

func (f *profileFlags) apply(p storage.Profile) (storage.Profile, error) {
	for _, o := range []struct {
		flag *float64
		dst  *float64
	}{
		{f.areaWidth, &p.Area.Width},
		{f.areaHeight, &p.Area.Height},
		{f.itemWidth, &p.Item.Width},
		{f.itemHeight, &p.Item.Height},
		{f.marginX, &p.MarginX},
		{f.marginY, &p.MarginY},
	} {
		if *o.flag >= 0 {
			*o.dst = *o.flag
		}
	}
	for _, o := range []struct {
		flag *int
		dst  *int
	}{
		{f.minRows, &p.MinRows},
		{f.minColumns, &p.MinColumns},
		{f.maxRows, &p.MaxRows},
		{f.maxColumns, &p.MaxColumns},
	} {
		if *o.flag >= 0 {
			*o.dst = *o.flag
		}
	}

	var err error
	if *f.directionX != "" {
		if p.DirectionX, err = layout.ParseDirectionX(*f.directionX); err != nil {
			return p, err
		}
	}
	if *f.directionY != "" {
		if p.DirectionY, err = layout.ParseDirectionY(*f.directionY); err != nil {
			return p, err
		}
	}
	return p, p.Validate()
}

type slotOutput struct {
	Item   int     `json:"item"`
	Row    int     `json:"row"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type layoutOutput struct {
	Rows        int          `json:"rows"`
	Columns     int          `json:"columns"`
	AspectRatio float64      `json:"aspectRatio"`
	Slots       []slotOutput `json:"slots"`
}

type placementOutput struct {
	Unit   roster.UnitType `json:"unit"`
	Row    int             `json:"row"`
	Column int             `json:"column"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
}

type countOutput struct {
	Type  roster.UnitType `json:"type"`
	Count int             `json:"count"`
}

type rosterOutput struct {
	Total      int               `json:"total"`
	Counts     []countOutput     `json:"counts"`
	Rows       int               `json:"rows"`
	Columns    int               `json:"columns"`
	Placements []placementOutput `json:"placements"`
}

func run(args []string, out io.Writer) error {
	app := kingpin.New("armygrid", "Split unit totals by type and lay them out on a spawn grid.")
	configFile := app.Flag("config", "Path to a YAML or TOML configuration file").String()
	showPreview := app.Flag("preview", "Render a terminal preview instead of JSON").Bool()
	var seedSet bool
	seed := app.Flag("seed", "Seed for reproducible partitions").IsSetByUser(&seedSet).Uint64()

	split := app.Command("split", "Split a sum into bounded random parts.")
	splitSum := split.Arg("sum", "Total to split").Required().Int()
	splitCount := split.Arg("count", "Number of parts").Required().Int()
	splitLower := split.Flag("lower", "Smallest allowed part").Default("1").Int()
	splitUpper := split.Flag("upper", "Largest allowed part (defaults to the sum)").Default("-1").Int()

	layoutCmd := app.Command("layout", "Solve the grid for a number of items.")
	layoutItems := layoutCmd.Arg("items", "Number of items").Required().Int()
	layoutProfile := addProfileFlags(layoutCmd)

	rosterCmd := app.Command("roster", "Split a unit total by type and lay the units out.")
	rosterTotal := rosterCmd.Arg("total", "Number of units").Required().Int()
	rosterProfile := addProfileFlags(rosterCmd)

	command, err := app.Parse(args)
	if err != nil {
		return err
	}

	p := partition.New(nil)
	if seedSet {
		p = partition.New(partition.NewSource(*seed))
	}

	switch command {
	case split.FullCommand():
		upper := *splitUpper
		if upper < 0 {
			upper = *splitSum
		}
		values, err := p.Generate(*splitSum, *splitCount, *splitLower, upper)
		if err != nil {
			return err
		}
		if *showPreview {
			_, err = io.WriteString(out, preview.Partition(values))
			return err
		}
		return writeJSON(out, map[string][]int{"values": values})

	case layoutCmd.FullCommand():
		cfg, err := config.Load(&config.CLIOverrides{ConfigFile: *configFile})
		if err != nil {
			return err
		}
		profile, err := layoutProfile.apply(cfg.DefaultProfile)
		if err != nil {
			return err
		}
		if *layoutItems < 0 || *layoutItems > cfg.MaxRosterUnits {
			return fmt.Errorf("items must be between 0 and %d", cfg.MaxRosterUnits)
		}
		result := layout.Solve(profile.Request(*layoutItems))
		if *showPreview {
			_, err = io.WriteString(out, preview.Layout(result))
			return err
		}
		return writeJSON(out, newLayoutOutput(result))

	case rosterCmd.FullCommand():
		cfg, err := config.Load(&config.CLIOverrides{ConfigFile: *configFile})
		if err != nil {
			return err
		}
		profile, err := rosterProfile.apply(cfg.DefaultProfile)
		if err != nil {
			return err
		}
		built, err := roster.NewBuilder(p, cfg.MaxRosterUnits).Build(*rosterTotal)
		if err != nil {
			return err
		}
		army := roster.NewSpawner().Spawn(built, profile.Request(0))
		if *showPreview {
			_, err = io.WriteString(out, preview.Army(army))
			return err
		}
		return writeJSON(out, newRosterOutput(army))
	}

	return fmt.Errorf("unknown command %q", command)
}

func newLayoutOutput(result layout.Result) layoutOutput {
	filled := result.Filled()
	slots := make([]slotOutput, len(filled))
	for i, s := range filled {
		slots[i] = slotOutput{Item: s.Item, Row: s.Row, Column: s.Column, X: s.Position.X, Y: s.Position.Y}
	}
	return layoutOutput{
		Rows:        result.Rows,
		Columns:     result.Columns,
		AspectRatio: result.AspectRatio,
		Slots:       slots,
	}
}

func newRosterOutput(army roster.Army) rosterOutput {
	counts := make([]countOutput, len(army.Counts))
	for i, c := range army.Counts {
		counts[i] = countOutput{Type: c.Type, Count: c.Count}
	}
	placements := make([]placementOutput, len(army.Placements))
	for i, pl := range army.Placements {
		placements[i] = placementOutput{
			Unit:   pl.Unit.Type,
			Row:    pl.Slot.Row,
			Column: pl.Slot.Column,
			X:      pl.Slot.Position.X,
			Y:      pl.Slot.Position.Y,
		}
	}
	return rosterOutput{
		Total:      army.Total,
		Counts:     counts,
		Rows:       army.Layout.Rows,
		Columns:    army.Layout.Columns,
		Placements: placements,
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
