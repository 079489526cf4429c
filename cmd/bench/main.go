package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	hashring "github.com/odvarkadaniel/static-hashring"
	"github.com/odvarkadaniel/static-hashring/internal/bench"
	"github.com/odvarkadaniel/static-hashring/internal/config"
)

// nodesFlag collects every --nodes occurrence.
type nodesFlag []config.NodeSpec

func (f *nodesFlag) String() string {
	keys := make([]string, 0, len(*f))
	for _, s := range *f {
		keys = append(keys, s.Key)
	}
	return strings.Join(keys, ",")
}

func (f *nodesFlag) Set(value string) error {
	specs, err := config.ParseNodes(value)
	if err != nil {
		return err
	}
	*f = append(*f, specs...)
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("bench: ")

	var (
		nodes       nodesFlag
		nodesFile   string
		vnodeCount  int
		hashName    string
		randomSeed  bool
		interpolate bool
	)
	flag.Var(&nodes, "nodes", "comma-separated nodes, optionally name=quantity (repeatable)")
	flag.StringVar(&nodesFile, "nodes-file", "", "YAML file listing nodes")
	flag.IntVar(&vnodeCount, "vnode-count", config.DefaultVnodeCount, "virtual nodes per node")
	flag.StringVar(&hashName, "hash", "sip13", "hash function: sip13 or xxhash")
	flag.BoolVar(&randomSeed, "random-seed", false, "seed the hash function randomly")
	flag.BoolVar(&interpolate, "interpolate", false, "use interpolation search to locate items")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: bench [flags] WORD_FILE\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if vnodeCount < 0 {
		log.Fatalf("invalid --vnode-count %d", vnodeCount)
	}

	specs := []config.NodeSpec(nodes)
	if nodesFile != "" {
		file, err := config.LoadNodesFile(nodesFile)
		if err != nil {
			log.Fatal(err)
		}
		for _, s := range file.Nodes {
			if s.Quantity == nil {
				q := file.VnodeCount
				s.Quantity = &q
			}
			specs = append(specs, s)
		}
	}

	ringNodes, err := config.Nodes(specs, vnodeCount)
	if err != nil {
		log.Fatalf("%v: use --nodes or --nodes-file", err)
	}

	hasher, err := config.NewHasher(hashName, randomSeed)
	if err != nil {
		log.Fatal(err)
	}

	words, err := bench.LoadWords(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	result := bench.Run(bench.Options{
		Config: hashring.Config{
			Hasher:      hasher,
			Interpolate: interpolate,
		},
		Nodes:      ringNodes,
		VnodeCount: vnodeCount,
	}, words)

	if err := result.Print(os.Stdout); err != nil {
		log.Fatal(err)
	}
}
