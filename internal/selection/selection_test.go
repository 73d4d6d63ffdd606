package selection

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		id, typ string
		want    Selection
		wantErr error
	}{
		{"movie", "550", "movie", Selection{ID: 550, Type: "movie"}, nil},
		{"tv with spaces", " 1399 ", "tv ", Selection{ID: 1399, Type: "tv"}, nil},
		{"missing id", "", "movie", Selection{}, ErrEmpty},
		{"missing type", "550", "", Selection{}, ErrEmpty},
		{"non numeric id", "abc", "movie", Selection{}, ErrInvalidID},
		{"zero id", "0", "movie", Selection{}, ErrInvalidID},
		{"person", "12", "person", Selection{}, ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.id, tt.typ)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q, %q) error = %v, want %v", tt.id, tt.typ, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q, %q) = %+v, want %+v", tt.id, tt.typ, got, tt.want)
			}
		})
	}
}

func TestSelectionString(t *testing.T) {
	sel := Selection{ID: 1399, Type: TypeTV}
	if got := sel.String(); got != "tv/1399" {
		t.Errorf("String() = %q, want %q", got, "tv/1399")
	}
	if !sel.IsTV() {
		t.Error("IsTV() = false, want true")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	require := require.New(t)

	store := FileStore{Path: filepath.Join(t.TempDir(), "nested", "selection.yaml")}

	_, err := store.Load()
	require.ErrorIs(err, ErrEmpty)

	require.NoError(store.Save(Selection{ID: 550, Type: TypeMovie}))
	sel, err := store.Load()
	require.NoError(err)
	require.Equal(Selection{ID: 550, Type: TypeMovie}, sel)

	// every save overwrites the previous pair
	require.NoError(store.Save(Selection{ID: 1399, Type: TypeTV}))
	sel, err = store.Load()
	require.NoError(err)
	require.Equal(Selection{ID: 1399, Type: TypeTV}, sel)

	require.ErrorIs(store.Save(Selection{ID: 1, Type: "person"}), ErrInvalidType)
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: 7\ntype: album\n"), 0644))

	_, err := FileStore{Path: path}.Load()
	require.ErrorIs(t, err, ErrInvalidType)
}
