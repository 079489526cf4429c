package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hashring "github.com/odvarkadaniel/static-hashring"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	ring := hashring.NewSync(hashring.Config{}, []hashring.Node[string, string]{
		hashring.NewNode[string]("foo").WithValue("10.0.0.1:11211").WithQuantity(5),
		hashring.NewNode[string]("bar").WithValue("10.0.0.2:11211").WithQuantity(5),
		hashring.NewNode[string]("baz").WithValue("10.0.0.3:11211").WithQuantity(1),
	})

	router := gin.New()
	NewAPI(ring).RegisterRoutes(router)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func candidateKeys(t *testing.T, body map[string]any) []string {
	t.Helper()

	list, ok := body["candidates"].([]any)
	require.True(t, ok, "candidates missing: %v", body)

	keys := make([]string, 0, len(list))
	for _, c := range list {
		keys = append(keys, c.(map[string]any)["key"].(string))
	}
	return keys
}

func TestGetRing(t *testing.T) {
	router := newTestRouter()

	code, body := do(t, router, http.MethodGet, "/ring")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(11), body["virtual_nodes"])
	assert.Equal(t, float64(3), body["real_nodes"])
	assert.Equal(t, float64(3), body["live_nodes"])
}

func TestGetNodes(t *testing.T) {
	router := newTestRouter()

	code, body := do(t, router, http.MethodGet, "/nodes")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["count"])

	nodes := body["nodes"].([]any)
	values := map[string]string{}
	for _, n := range nodes {
		m := n.(map[string]any)
		values[m["key"].(string)] = m["value"].(string)
		assert.Equal(t, m["quantity"], m["live"])
	}
	assert.Equal(t, map[string]string{
		"foo": "10.0.0.1:11211",
		"bar": "10.0.0.2:11211",
		"baz": "10.0.0.3:11211",
	}, values)
}

func TestGetCandidates(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		path string
		want []string
	}{
		{path: "/candidates/aa", want: []string{"bar", "foo", "baz"}},
		{path: "/candidates/bb", want: []string{"foo", "bar", "baz"}},
		{path: "/candidates/aa?n=2", want: []string{"bar", "foo"}},
		{path: "/candidates/aa?n=0", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := do(t, router, http.MethodGet, tt.path)

			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.want, candidateKeys(t, body))
		})
	}

	code, body := do(t, router, http.MethodGet, "/candidates/aa?n=-1")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_n", body["error"])
}

func TestTake(t *testing.T) {
	router := newTestRouter()

	code, body := do(t, router, http.MethodPost, "/take/aa")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "bar", body["taken"])

	code, body = do(t, router, http.MethodPost, "/take/aa?exclude=bar,foo")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "baz", body["taken"])

	_, body = do(t, router, http.MethodGet, "/candidates/aa")
	assert.Equal(t, []string{"foo", "bar"}, candidateKeys(t, body))

	_, body = do(t, router, http.MethodGet, "/ring")
	assert.Equal(t, float64(9), body["virtual_nodes"])
	assert.Equal(t, float64(2), body["live_nodes"])

	code, body = do(t, router, http.MethodPost, "/take/aa?exclude=bar,foo")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "nothing_to_take", body["error"])
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ring := hashring.NewSync(hashring.Config{}, []hashring.Node[string, string]{
		hashring.NewNode[string]("foo"),
	})
	router := NewAPI(ring).Router()

	code, body := do(t, router, http.MethodGet, "/candidates/anything")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"foo"}, candidateKeys(t, body))
}
