package csvutil

import (
	"testing"

	"github.com/lepinkainen/mixdl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTrackTitles_PlaylistExport(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("export.csv", `"Track URI","Track Name","Artist Name(s)","Album Name"
"spotify:track:1","Dexter","Ricardo Villalobos","Alcachofa"
"spotify:track:2","Strings of Life","Rhythim Is Rhythim, Derrick May","Strings of Life"
"spotify:track:3","","Nobody","Empty"
"spotify:track:4","Untitled","",""
`)

	titles, err := ReadTrackTitles(env.Path("export.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Ricardo Villalobos - Dexter",
		"Rhythim Is Rhythim - Strings of Life",
		"Untitled",
	}, titles)
}

func TestReadTrackTitles_SimpleColumns(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("simple.csv", "Artist,Title\nMoodymann,Shades of Jae\n")

	titles, err := ReadTrackTitles(env.Path("simple.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Moodymann - Shades of Jae"}, titles)
}

func TestReadTrackTitles_NoTitleColumn(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("bad.csv", "artist,album\nMoodymann,Silentintroduction\n")

	_, err := ReadTrackTitles(env.Path("bad.csv"))
	assert.ErrorContains(t, err, "no track title column")
}
