package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	hashring "github.com/odvarkadaniel/static-hashring"
	"github.com/odvarkadaniel/static-hashring/internal/config"
	"github.com/odvarkadaniel/static-hashring/internal/inspect"
)

func main() {
	var (
		nodesFile   string
		addr        string
		hashName    string
		randomSeed  bool
		interpolate bool
	)
	flag.StringVar(&nodesFile, "nodes-file", "", "YAML file listing nodes (required)")
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&hashName, "hash", "sip13", "hash function: sip13 or xxhash")
	flag.BoolVar(&randomSeed, "random-seed", false, "seed the hash function randomly")
	flag.BoolVar(&interpolate, "interpolate", false, "use interpolation search to locate items")
	flag.Parse()

	if nodesFile == "" {
		fmt.Fprintln(os.Stderr, "usage: ringinspect --nodes-file=nodes.yaml [--addr=:8080]")
		os.Exit(2)
	}

	file, err := config.LoadNodesFile(nodesFile)
	if err != nil {
		log.Fatalf("loading nodes: %v", err)
	}

	nodes, err := config.Nodes(file.Nodes, file.VnodeCount)
	if err != nil {
		log.Fatalf("loading nodes: %v", err)
	}

	hasher, err := config.NewHasher(hashName, randomSeed)
	if err != nil {
		log.Fatal(err)
	}

	ring := hashring.NewSync(hashring.Config{
		Hasher:      hasher,
		Interpolate: interpolate,
	}, nodes)

	stats := ring.Stats()
	log.Printf("ring built: %d real nodes, %d virtual nodes", stats.RealNodes, stats.VirtualNodes)

	gin.SetMode(gin.ReleaseMode)
	router := inspect.NewAPI(ring).Router()

	log.Printf("listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal(err)
	}
}
