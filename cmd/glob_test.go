// Copyright © 2024 The ELPS authors

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.tln",
		"src/shirocore.tln",
		"lib/utils.tln",
	}
	result := filterExcludes(paths, []string{"shirocore.tln"})
	assert.Equal(t, []string{"src/main.tln", "lib/utils.tln"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.tln",
		"build/output.tln",
		"build/sub/deep.tln",
		"lib/utils.tln",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.tln", "lib/utils.tln"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.tln",
		"src/generated_foo.tln",
		"src/generated_bar.tln",
		"lib/utils.tln",
	}
	result := filterExcludes(paths, []string{"generated_*"})
	assert.Equal(t, []string{"src/main.tln", "lib/utils.tln"}, result)
}

func TestFilterExcludes_MultiplePatterns(t *testing.T) {
	paths := []string{
		"src/main.tln",
		"build/output.tln",
		"src/shirocore.tln",
		"lib/utils.tln",
	}
	result := filterExcludes(paths, []string{"build", "shirocore.tln"})
	assert.Equal(t, []string{"src/main.tln", "lib/utils.tln"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{
		"src/main.tln",
		"lib/utils.tln",
	}
	result := filterExcludes(paths, []string{"nonexistent"})
	assert.Equal(t, []string{"src/main.tln", "lib/utils.tln"}, result)
}

func TestFilterExcludes_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.tln"}
	result := filterExcludes(paths, nil)
	assert.Equal(t, []string{"src/main.tln"}, result)
}

func TestMatchesAny_FullPath(t *testing.T) {
	// filepath.Match on the full path
	assert.True(t, matchesAny("src/main.tln", []string{"src/*.tln"}))
	assert.False(t, matchesAny("lib/main.tln", []string{"src/*.tln"}))
}

func TestMatchesAny_BaseName(t *testing.T) {
	assert.True(t, matchesAny("deep/nested/shirocore.tln", []string{"shirocore.tln"}))
}

func TestMatchesAny_Component(t *testing.T) {
	assert.True(t, matchesAny("project/build/output.tln", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.tln", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	components := splitPath("a/b/c.tln")
	assert.Contains(t, components, "c.tln")
	assert.Contains(t, components, "b")
	assert.Contains(t, components, "a")
}
