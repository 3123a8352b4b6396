package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/pkg/content"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// reopening must not re-run the seed and violate unique slugs
	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	sections, err := second.Sections(context.Background())
	require.NoError(t, err)
	assert.Len(t, sections, 3)
}

func TestSeededCollectionsAreOrdered(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	sections, err := store.Sections(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sections)
	assert.Equal(t, "about", sections[0].Slug)

	projects, err := store.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "character-generator", projects[0].Slug)
	assert.Equal(t, []string{"go", "ai", "images"}, projects[0].Tags)

	heroes, err := store.HeroTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Developer", "Designer", "Tinkerer"}, []string{heroes[0].Text, heroes[1].Text, heroes[2].Text})

	quotes, err := store.Quotes(ctx)
	require.NoError(t, err)
	assert.Len(t, quotes, 2)

	trivia, err := store.Trivia(ctx)
	require.NoError(t, err)
	assert.Len(t, trivia, 2)
}

func TestPositionOrdering(t *testing.T) {
	store := openTempStore(t)
	_, err := store.DB().Exec(`INSERT INTO quotes (text, author, position) VALUES ('first', 'me', 0)`)
	require.NoError(t, err)

	quotes, err := store.Quotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", quotes[0].Text)
}

func TestProject(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	p, err := store.Project(ctx, "portfolio")
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", p.Title)
	assert.Equal(t, "projects", p.ImageBucket)

	_, err = store.Project(ctx, "missing")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestInMemory(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	sections, err := store.Sections(context.Background())
	require.NoError(t, err)
	assert.Len(t, sections, 3)
}
