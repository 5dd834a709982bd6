package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/alloc"
	"github.com/joshuapare/slotkit/layout"
	"github.com/joshuapare/slotkit/storage"
)

var (
	probeSize  int
	probeAlign int
	probeSpan  int
)

func init() {
	rootCmd.AddCommand(newProbeCmd())
}

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Show where the small backend places slots around a size",
		Long: `The probe command creates one slot per size in [size-span, size+span] in a
small storage and reports whether it was kept inline or sent to the allocator.
The default size is the inline capacity, so the output shows the threshold.

Example:
  slotctl probe
  slotctl probe --size 100 --align 16 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(probeSize, probeAlign, probeSpan)
		},
	}
	cmd.Flags().IntVar(&probeSize, "size", -1, "Centre size in bytes (default: inline capacity)")
	cmd.Flags().IntVar(&probeAlign, "align", 1, "Slot alignment")
	cmd.Flags().IntVar(&probeSpan, "span", 2, "Sizes to probe on each side of --size")
	return cmd
}

type probeRow struct {
	Size        int    `json:"size"`
	Align       int    `json:"align"`
	Placement   string `json:"placement"`
	Allocations int64  `json:"allocations"`
}

type probeReport struct {
	Capacity layout.Layout `json:"capacity"`
	Rows     []probeRow    `json:"rows"`
}

func runProbe(size, alignment, span int) error {
	capacity := layout.Of[smallBuffer]()
	if size < 0 {
		size = capacity.Size
	}
	if span < 0 {
		return fmt.Errorf("span must not be negative, got %d", span)
	}

	report := probeReport{Capacity: capacity}
	for n := max(0, size-span); n <= size+span; n++ {
		l, err := layout.New(n, alignment)
		if err != nil {
			return err
		}
		row, err := probeOne(l)
		if err != nil {
			return err
		}
		report.Rows = append(report.Rows, row)
	}

	if jsonOut {
		return printJSON(report)
	}
	printInfo("Inline capacity: %s\n", capacity)
	for _, row := range report.Rows {
		printInfo("  size=%-6d align=%-4d -> %s\n", row.Size, row.Align, row.Placement)
		printVerbose("    allocations: %d\n", row.Allocations)
	}
	return nil
}

func probeOne(l layout.Layout) (probeRow, error) {
	counting := alloc.NewCounting(alloc.Heap{})
	s := storage.NewSmall[smallBuffer](counting)
	defer s.Close()

	h, err := s.Create(l)
	if err != nil {
		return probeRow{}, err
	}
	row := probeRow{
		Size:        l.Size,
		Align:       l.Align,
		Placement:   h.Placement().String(),
		Allocations: counting.Stats().Allocations,
	}
	return row, s.Destroy(h)
}
