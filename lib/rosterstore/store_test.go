package rosterstore

import (
	"context"
	"path/filepath"
	"squadscraper/lib/squad"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestReplace(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	first := []squad.Player{
		{Team: "Arsenal", Name: "Aaron Ramsdale", Number: "1", Position: "Goalkeeper", Nationality: "England", Appearances: "30", CleanSheets: "11"},
		{Team: "Arsenal", Name: "Bukayo Saka", Number: "7", Position: "Midfielder", Nationality: "England", Appearances: "38", Goals: "11", Assists: "14"},
	}
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Replace(ctx, "Arsenal", first, now))
	require.NoError(t, store.Replace(ctx, "Chelsea", []squad.Player{
		{Team: "Chelsea", Name: "Reece James", Number: "24", Position: "Defender", Nationality: "England", Appearances: "20"},
	}, now))

	players, err := store.Players(ctx, "Arsenal")
	require.NoError(t, err)
	if diff := cmp.Diff(first, players); diff != "" {
		t.Fatal(diff)
	}

	require.NoError(t, store.Replace(ctx, "Arsenal", first[1:], now.Add(time.Hour)))
	players, err = store.Players(ctx, "Arsenal")
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.Equal(t, "Bukayo Saka", players[0].Name)

	clubs, err := store.Clubs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Arsenal", "Chelsea"}, clubs)
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "rosters.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Replace(ctx, "Fulham", nil, time.Now()))
	require.NoError(t, store.Close())

	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()
	players, err := store.Players(ctx, "Fulham")
	require.NoError(t, err)
	require.Empty(t, players)
}

func TestIsRemote(t *testing.T) {
	require.True(t, isRemote("libsql://squads.turso.io?authToken=x"))
	require.True(t, isRemote("https://squads.turso.io"))
	require.False(t, isRemote("Squads_Players/rosters.db"))
	require.False(t, isRemote(":memory:"))
}
