package ctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjzar/fluffy/internal/errors"
)

func TestAddLibrary(t *testing.T) {
	p := newMemPersister()
	c := New(nil, p)

	require.NoError(t, c.AddLibrary("a.dll"))
	require.NoError(t, c.AddLibrary("b.dll"))
	assert.Equal(t, []string{"a.dll", "b.dll"}, p.values["dlls"])

	err := c.AddLibrary("a.dll")
	assert.Equal(t, errors.ErrTypeLibrary, errors.GetType(err))
	assert.Equal(t, []string{"a.dll", "b.dll"}, c.LibraryPaths())

	assert.Error(t, c.AddLibrary(""))
}

func TestRemoveLibrarySelection(t *testing.T) {
	cases := []struct {
		name     string
		selected int
		remove   int
		want     int
		wantOK   bool
	}{
		{"removed selected", 1, 1, -1, false},
		{"removed before selected", 2, 0, 1, true},
		{"removed after selected", 0, 2, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(nil, nil)
			for _, dll := range []string{"a.dll", "b.dll", "c.dll"} {
				require.NoError(t, c.AddLibrary(dll))
			}
			require.NoError(t, c.SelectLibrary(tc.selected))
			want, _ := c.SelectedLibraryPath()

			require.NoError(t, c.RemoveLibrary(tc.remove))
			got, ok := c.SelectedLibrary()
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOK, ok)

			if ok {
				path, _ := c.SelectedLibraryPath()
				assert.Equal(t, want, path, "selection follows the same library")
			}
		})
	}
}

func TestLibraryIndexErrors(t *testing.T) {
	c := New(nil, nil)
	require.NoError(t, c.AddLibrary("a.dll"))

	assert.Equal(t, errors.ErrTypeInvalidArg, errors.GetType(c.RemoveLibrary(1)))
	assert.Equal(t, errors.ErrTypeInvalidArg, errors.GetType(c.SelectLibrary(-1)))
	_, ok := c.SelectedLibraryPath()
	assert.False(t, ok)
}

func TestLibraryMissing(t *testing.T) {
	c := New(nil, nil)
	require.NoError(t, c.AddLibrary("a.dll"))
	require.NoError(t, c.SelectLibrary(0))

	c.SetLibraryMissing("a.dll", true)
	c.SetLibraryMissing("unknown.dll", true)
	libs := c.Libraries()
	require.Len(t, libs, 1)
	assert.Equal(t, Library{Path: "a.dll", Selected: true, Missing: true}, libs[0])

	c.SetLibraryMissing("a.dll", false)
	assert.False(t, c.Libraries()[0].Missing)
}
