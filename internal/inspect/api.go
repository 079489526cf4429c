// Package inspect serves a hash ring over HTTP so that operators can see
// which nodes own a key and drain virtual nodes one at a time.
package inspect

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	hashring "github.com/odvarkadaniel/static-hashring"
)

// API exposes a ring. All handlers go through the ring lock, so lookups
// never observe a half-done Take.
type API struct {
	ring *hashring.SyncRing[string, string]
}

func NewAPI(ring *hashring.SyncRing[string, string]) *API {
	return &API{ring: ring}
}

type nodeResponse struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Quantity int    `json:"quantity"`
	Live     int    `json:"live"`
}

// Router returns an engine with the API routes registered.
func (api *API) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	api.RegisterRoutes(router)
	return router
}

// RegisterRoutes registers the API routes on router.
func (api *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/ring", api.GetRing)
	router.GET("/nodes", api.GetNodes)
	router.GET("/candidates/:item", api.GetCandidates)
	router.POST("/take/:item", api.Take)
}

// GetRing returns the ring counters.
func (api *API) GetRing(c *gin.Context) {
	stats := api.ring.Stats()

	c.JSON(http.StatusOK, gin.H{
		"virtual_nodes": stats.VirtualNodes,
		"real_nodes":    stats.RealNodes,
		"live_nodes":    stats.LiveNodes,
	})
}

// GetNodes lists every real node with its remaining virtual nodes.
func (api *API) GetNodes(c *gin.Context) {
	states := api.ring.Nodes()

	nodes := make([]nodeResponse, 0, len(states))
	for _, s := range states {
		nodes = append(nodes, nodeResponse{
			Key:      s.Key,
			Value:    s.Value,
			Quantity: s.Quantity,
			Live:     s.Live,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"nodes": nodes,
		"count": len(nodes),
	})
}

// GetCandidates returns the candidate nodes of an item, highest priority
// first. The optional n query parameter limits the list.
func (api *API) GetCandidates(c *gin.Context) {
	item := c.Param("item")

	n := -1
	if s := c.Query("n"); s != "" {
		var err error
		n, err = strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_n",
				"message": "n must be a non-negative integer",
			})
			return
		}
	}

	candidates := []nodeResponse{}
	if n != 0 {
		for node := range api.ring.Candidates(item) {
			candidates = append(candidates, nodeResponse{
				Key:      node.Key,
				Value:    node.Value,
				Quantity: node.Quantity,
			})
			if len(candidates) == n {
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"item":       item,
		"candidates": candidates,
	})
}

// Take removes the highest priority virtual node of an item. Nodes listed
// in the comma-separated exclude query parameter are skipped.
func (api *API) Take(c *gin.Context) {
	item := c.Param("item")

	exclude := map[string]bool{}
	for _, k := range strings.Split(c.Query("exclude"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			exclude[k] = true
		}
	}

	node, ok := api.ring.TakeIf(item, func(n hashring.Node[string, string]) bool {
		return !exclude[n.Key]
	})
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "nothing_to_take",
			"message": "no virtual node left for this item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":  item,
		"taken": node.Key,
	})
}
