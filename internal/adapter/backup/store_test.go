package backup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodpoet/internal/domain"
	"moodpoet/internal/infra/random"
)

func TestEveryPoetHasThreeTemplates(t *testing.T) {
	for _, p := range domain.Poets {
		tmpls := Templates(p)
		require.Len(t, tmpls, 3, "poet %s", p)
		for _, tmpl := range tmpls {
			assert.True(t, strings.HasPrefix(tmpl, MoodPlaceholder), "template for %s must lead with the mood: %q", p, tmpl)
		}
	}
	assert.Nil(t, Templates("王维"))
}

func TestGetOnlyYieldsPoetTemplates(t *testing.T) {
	store := New(random.New(1))

	for _, p := range domain.Poets {
		allowed := make(map[string]bool)
		for _, tmpl := range Templates(p) {
			allowed[strings.ReplaceAll(tmpl, MoodPlaceholder, "惆怅")] = true
		}
		seen := make(map[string]bool)
		for i := 0; i < 60; i++ {
			got := store.Get(p, "惆怅")
			require.True(t, allowed[got], "Get(%s) returned a foreign text: %q", p, got)
			assert.NotContains(t, got, MoodPlaceholder)
			seen[got] = true
		}
		assert.Len(t, seen, 3, "all three templates of %s should appear over 60 draws", p)
	}
}

func TestGetSuShiMissing(t *testing.T) {
	store := New(random.New(3))
	got := store.Get(domain.PoetSuShi, "思念")

	var match bool
	for _, tmpl := range Templates(domain.PoetSuShi) {
		if got == strings.ReplaceAll(tmpl, MoodPlaceholder, "思念") {
			match = true
		}
	}
	assert.True(t, match, "unexpected text %q", got)
	assert.True(t, strings.HasPrefix(got, "思念"))
}

func TestGetUnknownPoetFallsBackToRecognized(t *testing.T) {
	store := New(random.New(5))

	all := make(map[string]bool)
	for _, p := range domain.Poets {
		for _, tmpl := range Templates(p) {
			all[strings.ReplaceAll(tmpl, MoodPlaceholder, "豁达")] = true
		}
	}
	for _, name := range []domain.Poet{"", "王维", "nobody"} {
		got := store.Get(name, "豁达")
		assert.True(t, all[got], "Get(%q) = %q is not a recognized template", name, got)
	}
}
