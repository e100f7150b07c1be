package devicedb

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/larsks/lutronctl/internal/devicetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func areaNames(tree *devicetree.Tree) []string {
	var names []string
	for _, a := range tree.Areas() {
		names = append(names, a.Name())
	}
	return names
}

func TestParseXML(t *testing.T) {
	tree, err := ParseXML(bytes.NewReader(readTestdata(t, "DbXmlInfo.xml")))
	require.NoError(t, err)

	assert.Equal(t, []string{"Kitchen", "LivingRoom"}, areaNames(tree))

	kitchen := tree.Areas()[0]
	require.Len(t, kitchen.Outputs(), 2)
	assert.Equal(t, "Kitchen Lights", kitchen.Outputs()[0].Name())
	assert.Equal(t, "DIMMER", kitchen.Outputs()[0].Type())
	assert.Equal(t, 10, kitchen.Outputs()[0].ID())
	assert.Equal(t, "FAN", kitchen.Outputs()[1].Type())

	require.Len(t, kitchen.Keypads(), 1)
	kp := kitchen.Keypads()[0]
	assert.Equal(t, "KEYPAD", kp.Type())
	require.Len(t, kp.Buttons(), 2, "LED components are not buttons")
	assert.Equal(t, "Lights On", kp.Buttons()[0].Name())
	assert.Equal(t, "Button 2", kp.Buttons()[1].Name(), "falls back to the button name without an engraving")

	living := tree.Areas()[1]
	require.Len(t, living.Keypads(), 2, "devices without buttons are skipped")
	assert.Equal(t, "KEYPAD", living.Keypads()[0].Type())
	assert.Equal(t, "DIMMER/SWITCH", living.Keypads()[1].Type())
	assert.Equal(t, "SWITCHED", living.Outputs()[0].Type())
}

func TestParseXML_Invalid(t *testing.T) {
	_, err := ParseXML(strings.NewReader("<Project><Areas>"))
	assert.ErrorIs(t, err, ErrInvalidDatabase)
}

func TestTypeMapping(t *testing.T) {
	assert.Equal(t, "DIMMER", OutputType("MLV"))
	assert.Equal(t, "SHADE", OutputType("SHADE"))
	assert.Equal(t, "SWITCHED", OutputType("NON_DIM"))
	assert.Equal(t, "SWITCHED", OutputType("RELAY_LIGHTING"))
	assert.Equal(t, "KEYPAD", DeviceType("PICO_KEYPAD"))
	assert.Equal(t, "DIMMER/SWITCH", DeviceType("WALL_SWITCH"))
	assert.Equal(t, "MAIN_REPEATER", DeviceType("MAIN_REPEATER"))
}

func TestParseYAML(t *testing.T) {
	tree, err := ParseYAML(bytes.NewReader(readTestdata(t, "house.yaml")))
	require.NoError(t, err)

	assert.Equal(t, []string{"Kitchen", "Porch"}, areaNames(tree))
	assert.Equal(t, 40.0, tree.Areas()[0].Outputs()[0].Level())
	assert.Len(t, tree.Areas()[0].Keypads()[0].Buttons(), 2)
}

func TestParseYAML_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"unknown field", "areas:\n  - name: Kitchen\n    doors: []\n"},
		{"level out of range", "areas:\n  - name: Kitchen\n    outputs:\n      - {id: 1, name: x, type: DIMMER, level: 120}\n"},
		{"level not a number", "areas:\n  - name: Kitchen\n    outputs:\n      - {id: 1, name: x, type: DIMMER, level: .nan}\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseYAML(strings.NewReader(tc.content))
			assert.ErrorIs(t, err, ErrInvalidDatabase)
		})
	}
}

func TestWriteYAML(t *testing.T) {
	tree, err := ParseXML(bytes.NewReader(readTestdata(t, "DbXmlInfo.xml")))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, tree))

	again, err := ParseYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, tree.String(), again.String())
	assert.Equal(t, tree.Areas()[1].Keypads()[1].String(), again.Areas()[1].Keypads()[1].String())
}

func newRepeaterServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	data := readTestdata(t, "DbXmlInfo.xml")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Path != databasePath {
			http.NotFound(w, r)
			return
		}
		w.Write(data) //nolint:errcheck
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLoad_FetchesAndCaches(t *testing.T) {
	for _, name := range []string{"db.xml", "db.yaml"} {
		t.Run(name, func(t *testing.T) {
			var hits int
			server := newRepeaterServer(t, &hits)
			address := strings.TrimPrefix(server.URL, "http://")
			path := filepath.Join(t.TempDir(), "cache", name)

			tree, err := Load(context.Background(), Options{Path: path, Address: address})
			require.NoError(t, err)
			assert.Equal(t, []string{"Kitchen", "LivingRoom"}, areaNames(tree))
			assert.Equal(t, 1, hits)

			// Second load comes from the cache
			cached, err := Load(context.Background(), Options{Path: path, Address: address})
			require.NoError(t, err)
			assert.Equal(t, tree.String(), cached.String())
			assert.Equal(t, 1, hits)

			// Refresh ignores the cache
			_, err = Load(context.Background(), Options{Path: path, Address: address, Refresh: true})
			require.NoError(t, err)
			assert.Equal(t, 2, hits)
		})
	}
}

func TestLoad_NoCacheNoAddress(t *testing.T) {
	_, err := Load(context.Background(), Options{Path: filepath.Join(t.TempDir(), "missing.xml")})
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestLoad_CorruptCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.yaml")
	require.NoError(t, os.WriteFile(path, []byte("areas: [\n"), 0o600))

	_, err := Load(context.Background(), Options{Path: path, Address: "unused"})
	assert.ErrorIs(t, err, ErrInvalidDatabase)
}

func TestFetch_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), nil, strings.TrimPrefix(server.URL, "http://"))
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetch_DropsIntegrationPort(t *testing.T) {
	var gotURL string
	client := clientFunc(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		return &http.Response{StatusCode: http.StatusOK, Status: "200 OK", Body: http.NoBody}, nil
	})

	_, err := Fetch(context.Background(), client, "192.168.1.10:23")
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.10/DbXmlInfo.xml", gotURL)
}

type clientFunc func(req *http.Request) (*http.Response, error)

func (f clientFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}
