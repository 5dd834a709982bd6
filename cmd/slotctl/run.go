package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/alloc"
	"github.com/joshuapare/slotkit/cmd/slotctl/logger"
	"github.com/joshuapare/slotkit/layout"
	"github.com/joshuapare/slotkit/raw"
	"github.com/joshuapare/slotkit/storage"
)

var (
	runBackend   string
	runAllocator string
	runCount     int
	runElem      int
	runCapacity  int
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [workload.yaml]",
		Short: "Push elements through a vector on the chosen storage and check for leaks",
		Long: `The run command builds the configured storage backend over the configured
allocator, appends count elements of elem bytes to a vector with amortised
growth, verifies every element, closes the vector and reports the allocator
accounting. It fails if any allocation is still outstanding.

Settings come from defaults, then the optional YAML file, then SLOTCTL_*
environment variables (SLOTCTL_BACKEND, SLOTCTL_COUNT, ...), then flags.

Example:
  slotctl run --backend small --count 100
  slotctl run workload.yaml --json
  SLOTCTL_ALLOCATOR=mmap slotctl run --metrics`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			w, err := loadWorkload(path)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, &w)
			return runWorkload(w)
		},
	}

	cmd.Flags().StringVar(&runBackend, "backend", "", "Storage backend: inline, alloc, small, borrowed, arena")
	cmd.Flags().StringVar(&runAllocator, "allocator", "", "Allocator: heap, mmap")
	cmd.Flags().IntVar(&runCount, "count", 0, "Number of elements to push")
	cmd.Flags().IntVar(&runElem, "elem", 0, "Element size in bytes: 1, 2, 4, 8")
	cmd.Flags().IntVar(&runCapacity, "capacity", 0, "Buffer size in bytes for borrowed and arena")
	return cmd
}

func applyRunFlags(cmd *cobra.Command, w *Workload) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		w.Backend = runBackend
	}
	if flags.Changed("allocator") {
		w.Allocator = runAllocator
	}
	if flags.Changed("count") {
		w.Count = runCount
	}
	if flags.Changed("elem") {
		w.Elem = runElem
	}
	if flags.Changed("capacity") {
		w.Capacity = runCapacity
	}
}

type runReport struct {
	Backend       string `json:"backend"`
	Allocator     string `json:"allocator"`
	Count         int    `json:"count"`
	Elem          int    `json:"elem"`
	Capacity      int    `json:"capacity"`
	Placement     string `json:"placement,omitempty"`
	Allocations   int64  `json:"allocations"`
	Deallocations int64  `json:"deallocations"`
	Resizes       int64  `json:"resizes"`
	Failures      int64  `json:"failures"`
	PeakBytes     int64  `json:"peak_bytes"`
	LiveBytes     int64  `json:"live_bytes"`
	Leaked        bool   `json:"leaked"`
}

// vecResult is what a push loop observed before closing the vector.
type vecResult struct {
	capacity  int
	placement string
}

func runWorkload(w Workload) error {
	if err := w.validate(); err != nil {
		return err
	}

	stack, err := newAllocStack(w.Allocator, metrics)
	if err != nil {
		return fmt.Errorf("failed to set up allocator: %w", err)
	}

	printVerbose("Pushing %d x %d-byte elements into %s storage over %s\n",
		w.Count, w.Elem, w.Backend, w.Allocator)
	logger.L.Info("run starting", "backend", w.Backend, "allocator", w.Allocator, "count", w.Count, "elem", w.Elem)

	res, err := pushBackend(w, stack.top)
	if err != nil {
		return fmt.Errorf("%s workload failed: %w", w.Backend, err)
	}

	st := stack.counting.Stats()
	report := runReport{
		Backend:       w.Backend,
		Allocator:     w.Allocator,
		Count:         w.Count,
		Elem:          w.Elem,
		Capacity:      res.capacity,
		Placement:     res.placement,
		Allocations:   st.Allocations,
		Deallocations: st.Deallocations,
		Resizes:       st.Resizes,
		Failures:      st.Failures,
		PeakBytes:     st.PeakBytes,
		LiveBytes:     st.LiveBytes,
		Leaked:        st.Leaked(),
	}
	logger.L.Info("run finished", "capacity", report.Capacity, "peak_bytes", report.PeakBytes, "leaked", report.Leaked)

	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printReport(report)
	}

	if metrics {
		out := io.Writer(os.Stdout)
		if jsonOut {
			out = os.Stderr
		}
		if err := writeMetrics(out, stack.registry); err != nil {
			return err
		}
	}

	if report.Leaked {
		return fmt.Errorf("leak detected: %d regions, %d bytes outstanding", st.Outstanding(), st.LiveBytes)
	}
	return nil
}

func printReport(r runReport) {
	printInfo("\nWorkload:\n")
	printInfo("  Backend:   %s\n", r.Backend)
	printInfo("  Allocator: %s\n", r.Allocator)
	printInfo("  Elements:  %d x %d bytes\n", r.Count, r.Elem)
	printInfo("  Capacity:  %d\n", r.Capacity)
	if r.Placement != "" {
		printInfo("  Placement: %s\n", r.Placement)
	}
	printInfo("\nAllocator:\n")
	printInfo("  Allocations:   %d\n", r.Allocations)
	printInfo("  Deallocations: %d\n", r.Deallocations)
	printInfo("  Resizes:       %d\n", r.Resizes)
	printInfo("  Failures:      %d\n", r.Failures)
	printInfo("  Peak bytes:    %d\n", r.PeakBytes)
	printInfo("  Leaked:        %t\n", r.Leaked)
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// pushBackend builds the storage named by w.Backend over a and runs the push
// loop on it. The storage is closed by the vector.
func pushBackend(w Workload, a alloc.Allocator) (vecResult, error) {
	switch w.Backend {
	case "inline":
		return pushElems[storage.InlineHandle](storage.NewInline[inlineBuffer](), w, nil)
	case "alloc":
		return pushElems[storage.AllocHandle](storage.NewAlloc(a), w, nil)
	case "small":
		return pushElems[storage.SmallHandle](storage.NewSmall[smallBuffer](a), w,
			func(h storage.SmallHandle) string { return h.Placement().String() })
	case "borrowed":
		l := layout.Layout{Size: w.Capacity, Align: storage.ArenaAlign}
		buf, err := a.Allocate(l)
		if err != nil {
			return vecResult{}, err
		}
		defer a.Deallocate(buf, l)
		return pushElems[storage.BorrowedHandle](storage.NewBorrowed(buf), w, nil)
	case "arena":
		ar, err := storage.NewArena(a, w.Capacity)
		if err != nil {
			return vecResult{}, err
		}
		return pushElems[storage.ArenaHandle](ar, w, nil)
	default:
		return vecResult{}, fmt.Errorf("unknown backend %q", w.Backend)
	}
}

type element interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func pushElems[H storage.Handle](s storage.SliceStorage[H], w Workload, placement func(H) string) (vecResult, error) {
	switch w.Elem {
	case 1:
		return push[uint8, H](s, w.Count, placement)
	case 2:
		return push[uint16, H](s, w.Count, placement)
	case 4:
		return push[uint32, H](s, w.Count, placement)
	case 8:
		return push[uint64, H](s, w.Count, placement)
	default:
		return vecResult{}, fmt.Errorf("unsupported element size %d", w.Elem)
	}
}

// push appends count values one at a time, then checks them all.
func push[T element, H storage.Handle](s storage.SliceStorage[H], count int, placement func(H) string) (res vecResult, err error) {
	v, err := raw.NewVec[T, H](s)
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := v.Close(); err == nil {
			err = cerr
		}
	}()

	for i := range count {
		if err := v.Reserve(i, 1); err != nil {
			return res, fmt.Errorf("reserve at element %d: %w", i, err)
		}
		vals, err := v.Slice()
		if err != nil {
			return res, err
		}
		vals[i] = T(i)
	}

	vals, err := v.Slice()
	if err != nil {
		return res, err
	}
	for i := range count {
		if vals[i] != T(i) {
			return res, fmt.Errorf("element %d: got %d, want %d", i, vals[i], T(i))
		}
	}

	res.capacity = v.Cap()
	if placement != nil {
		res.placement = placement(v.Handle())
	}
	logger.L.Debug("vector verified", "capacity", res.capacity, "layout", v.Layout().String())
	return res, nil
}
