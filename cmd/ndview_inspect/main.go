// ndview_inspect renders the stacked subarrays of a generated N-dimensional
// array, to eyeball how stack axes split an array into views, or to benchmark
// the iteration itself.
//
// Examples:
//
//	ndview_inspect -dims=2,2,2 -stack=1,2
//	ndview_inspect -dims=1000,64,64 -stack=1,2 -bench
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/gomlx/ndview/ndarray"
	"github.com/gomlx/ndview/ndarray/stacks"
	"github.com/gomlx/ndview/xslices"
)

var (
	flagDims = flag.String("dims", "2,2,2", "Comma-separated dimensions of the generated array. "+
		"It is filled with 0, 1, 2, ... in row-major order.")
	flagStack = flag.String("stack", "", "Comma-separated stack axes: the axes held at full range "+
		"in every subarray. Negative values count from the last axis.")
	flagDType = flag.String("dtype", "float32", "DType of the generated array: float32, float64, int32 or int64.")
	flagMax   = flag.Int("max", 8, "Maximum number of subarrays to render.")
	flagBench = flag.Bool("bench", false, "Only sweep through all the subarrays, with a progress bar, "+
		"and report the iteration speed. Nothing is rendered.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if flag.NArg() > 0 {
		klog.Errorf("Unexpected arguments %q. See 'ndview_inspect -help'.", flag.Args())
		os.Exit(1)
	}

	dims := parseInts(*flagDims)
	stackAxes := parseInts(*flagStack)
	a := makeArray(*flagDType, dims)
	it := must.M1(stacks.New(a, stackAxes))

	fmt.Printf("%s array, %s elements (%s)\n", a.Shape(),
		humanize.Comma(int64(a.Size())), humanize.IBytes(uint64(a.Shape().Memory())))
	fmt.Printf("stack axes %v, free axes %v: %s subarrays of shape %s\n",
		it.StackAxes(), it.FreeAxes(), humanize.Comma(int64(it.Len())), it.Shape())

	if *flagBench {
		bench(it)
		return
	}

	count := 0
	for view := range it.All() {
		if count >= *flagMax {
			fmt.Printf("... %s more subarrays omitted, use -max to see them.\n",
				humanize.Comma(int64(it.Len()-count)))
			break
		}
		fmt.Printf("\n#%d of %d:\n%s\n", count, it.Len(), renderView(view))
		count++
	}
}

// bench sweeps through every subarray, touching one element per view, and
// reports the speed.
func bench(it *stacks.Iterator) {
	bar := progressbar.NewOptions(it.Len(),
		progressbar.OptionSetDescription("Sweeping: "),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("views"),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode))
	start := time.Now()
	count := 0
	zeros := make([]int, it.Shape().Rank())
	for view := range it.All() {
		_ = view.Value(zeros...)
		count++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	elapsed := time.Since(start)
	fmt.Printf("\n%s views in %s (%s views/s)\n", humanize.Comma(int64(count)), elapsed,
		humanize.CommafWithDigits(float64(count)/elapsed.Seconds(), 1))
}

// makeArray generates a writable array of the given dtype and dimensions,
// filled with 0, 1, 2, ... in row-major order.
func makeArray(dtype string, dims []int) *ndarray.Array {
	size := xslices.Prod(dims)
	switch strings.ToLower(dtype) {
	case "float32":
		return ndarray.FromFlat(xslices.Iota(float32(0), size), dims...)
	case "float64":
		return ndarray.FromFlat(xslices.Iota(float64(0), size), dims...)
	case "int32":
		return ndarray.FromFlat(xslices.Iota(int32(0), size), dims...)
	case "int64", "int":
		return ndarray.FromFlat(xslices.Iota(0, size), dims...)
	}
	klog.Errorf("Unsupported -dtype=%q. See 'ndview_inspect -help'.", dtype)
	os.Exit(1)
	return nil
}

// parseInts parses a comma-separated list of ints. An empty string is an
// empty (non-nil) list.
func parseInts(list string) []int {
	parts := strings.Split(strings.TrimSpace(list), ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		values = append(values, must.M1(strconv.Atoi(part)))
	}
	return values
}
