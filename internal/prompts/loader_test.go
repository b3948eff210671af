package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_RankProjects(t *testing.T) {
	prompt, err := Get("recommend.json", "rank-projects")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Level}}")
	assert.Contains(t, prompt, "{{.Projects}}")
	assert.Contains(t, prompt, "JSON array")
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("recommend.json", "no-such-prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "rank-projects")
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("level={{.Level}} projects={{.Projects}}", map[string]string{
		"Level":    "beginner",
		"Projects": "[]",
	})
	assert.Equal(t, "level=beginner projects=[]", out)
}

func TestFormat_UnknownPlaceholderLeftIntact(t *testing.T) {
	out := Format("{{.Missing}}", map[string]string{"Level": "beginner"})
	assert.Equal(t, "{{.Missing}}", out)
}
