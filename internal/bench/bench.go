// Package bench measures how fast a ring is built and how fast, and how
// evenly, it spreads a list of words over its nodes.
package bench

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	hashring "github.com/odvarkadaniel/static-hashring"
)

type Options struct {
	Config hashring.Config
	Nodes  []hashring.Node[string, string]

	// VnodeCount is the default quantity the nodes were given. It is only
	// reported.
	VnodeCount int
}

type Result struct {
	Words        int
	RealNodes    int
	VirtualNodes int
	VnodeCount   int

	// Selected maps every node key to the number of words it is the
	// primary candidate for.
	Selected map[string]int

	Build  time.Duration
	Select time.Duration
}

// ReadWords returns the lines of r.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading words: %w", err)
	}

	return words, nil
}

// LoadWords reads the newline-delimited word file at path.
func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word file: %w", err)
	}
	defer f.Close()

	return ReadWords(f)
}

// Run builds a ring from opts and selects the primary node of every word.
func Run(opts Options, words []string) Result {
	start := time.Now()
	ring := hashring.New(opts.Config, opts.Nodes)
	build := time.Since(start)

	start = time.Now()
	for _, w := range words {
		ring.Get(w)
	}
	sel := time.Since(start)

	selected := make(map[string]int, ring.RealNodeCount())
	for _, n := range ring.Nodes() {
		selected[n.Key] = 0
	}
	for _, w := range words {
		if n, ok := ring.Get(w); ok {
			selected[n.Key]++
		}
	}

	return Result{
		Words:        len(words),
		RealNodes:    ring.RealNodeCount(),
		VirtualNodes: ring.VirtualNodeCount(),
		VnodeCount:   opts.VnodeCount,
		Selected:     selected,
		Build:        build,
		Select:       sel,
	}
}

// WordsPerSecond returns the selection throughput.
func (r Result) WordsPerSecond() int64 {
	if r.Select <= 0 {
		return 0
	}
	return int64(float64(r.Words) / r.Select.Seconds())
}

// Print writes the report in the format of the bench command.
func (r Result) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "WORD COUNT: %d\n", r.Words)
	fmt.Fprintf(bw, "REAL NODE COUNT: %d\n", r.RealNodes)
	fmt.Fprintf(bw, "VIRTUAL NODE COUNT: %d (%d per node)\n", r.VirtualNodes, r.VnodeCount)

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "SELECTED COUNT PER NODE:")
	keys := make([]string, 0, len(r.Selected))
	for k := range r.Selected {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(bw, "- %s: \t%d\n", k, r.Selected[k])
	}
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "ELAPSED: %d ms (for building ring), %d ms (for selecting nodes)\n",
		r.Build.Milliseconds(), r.Select.Milliseconds())
	fmt.Fprintf(bw, "WORDS PER SECOND: %d\n", r.WordsPerSecond())

	return bw.Flush()
}
