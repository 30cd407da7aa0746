package csvsource

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/campus-tree-forest/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCSV = `Tree ID,Genus,Species,Height,Canopy Spread
1,Quercus,agrifolia,40,35
2,Quercus,lobata,60,55

3,Pinus,radiata,80,30
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse(t *testing.T) {
	t.Run("scenario rows", func(t *testing.T) {
		census, err := Parse(strings.NewReader(scenarioCSV))
		require.NoError(t, err)

		want := []domain.TreeRecord{
			{Genus: "Quercus", Species: "agrifolia", Height: 40, CanopySpread: 35},
			{Genus: "Quercus", Species: "lobata", Height: 60, CanopySpread: 55},
			{Genus: "Pinus", Species: "radiata", Height: 80, CanopySpread: 30},
		}
		if diff := cmp.Diff(want, census.Records); diff != "" {
			t.Fatalf("records mismatch (-want +got):\n%s", diff)
		}
		assert.Zero(t, census.Skipped)
	})

	t.Run("byte order mark on first column", func(t *testing.T) {
		doc := "\uFEFFGenus,Species,Height,Canopy Spread\nAcer,rubrum,30,20\n"
		census, err := Parse(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, census.Records, 1)
		assert.Equal(t, "Acer", census.Records[0].Genus)
	})

	t.Run("loosely typed measurements", func(t *testing.T) {
		doc := "Genus,Species,Height,Canopy Spread\nAcer,rubrum,,unknown\nAcer,rubrum,12.5, 4 \n"
		census, err := Parse(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, census.Records, 2)
		assert.Zero(t, census.Records[0].Height)
		assert.Zero(t, census.Records[0].CanopySpread)
		assert.Equal(t, 12.5, census.Records[1].Height)
		assert.Equal(t, 4.0, census.Records[1].CanopySpread)
	})

	t.Run("short row keeps counting under empty genus", func(t *testing.T) {
		doc := "Height,Species,Genus\n25\n"
		census, err := Parse(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, census.Records, 1)
		assert.Equal(t, domain.TreeRecord{Height: 25}, census.Records[0])
	})

	t.Run("header without genus column", func(t *testing.T) {
		doc := "Species,Height\nradiata,80\n"
		census, err := Parse(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, census.Records, 1)
		assert.Empty(t, census.Records[0].Genus)
	})

	t.Run("malformed line is skipped", func(t *testing.T) {
		doc := "Genus,Species,Height,Canopy Spread\nQuercus,ag\"rifolia,40,35\nPinus,radiata,80,30\n"
		census, err := Parse(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, census.Records, 1)
		assert.Equal(t, "Pinus", census.Records[0].Genus)
		assert.Equal(t, 1, census.Skipped)
	})

	t.Run("empty document", func(t *testing.T) {
		census, err := Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, census.Records)
	})

	t.Run("header only", func(t *testing.T) {
		census, err := Parse(strings.NewReader("Genus,Species,Height,Canopy Spread\n"))
		require.NoError(t, err)
		assert.Empty(t, census.Records)
	})

	t.Run("read failure", func(t *testing.T) {
		_, err := Parse(io.MultiReader(strings.NewReader("Genus,Species\nAcer,rubrum\n"), errReader{}))
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, assert.AnError }

func TestSource_ExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trees.csv")
	require.NoError(t, os.WriteFile(path, []byte(scenarioCSV), 0o600))

	src := NewSource(path, time.Second, discardLogger())
	census, err := src.Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, census.Records, 3)
	assert.Equal(t, path, src.Location())
}

func TestSource_ExtractMissingFile(t *testing.T) {
	src := NewSource(filepath.Join(t.TempDir(), "absent.csv"), time.Second, discardLogger())
	_, err := src.Extract(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open census file")
}

func TestSource_ExtractURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Data_Viz_Challenge_2025-UCB_Trees.csv", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, scenarioCSV)
	}))
	defer srv.Close()

	src := NewSource(srv.URL+"/Data_Viz_Challenge_2025-UCB_Trees.csv", time.Second, discardLogger())
	census, err := src.Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, census.Records, 3)
}

func TestSource_ExtractURLNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such file", http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewSource(srv.URL+"/missing.csv", time.Second, discardLogger())
	_, err := src.Extract(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestSource_ExtractURLCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, scenarioCSV)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewSource(srv.URL, time.Second, discardLogger())
	_, err := src.Extract(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
