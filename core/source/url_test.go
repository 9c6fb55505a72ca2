package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryURL(t *testing.T) {
	assert.Equal(t, "https://www.hentai-foundry.com/stories/user/_/46750/_", StoryURL(DefaultBaseURL, "46750"))
	assert.Equal(t, "http://127.0.0.1:8080/base/46750/_", StoryURL("http://127.0.0.1:8080/base", "46750"))
}

func TestChapterURL(t *testing.T) {
	got := ChapterURL(DefaultBaseURL, "46750", "100", "1")
	assert.Equal(t, "https://www.hentai-foundry.com/stories/user/_/46750/_/100/Chapter-1/_", got)

	got = ChapterURL(DefaultBaseURL, "46750", "100", "01")
	assert.Equal(t, "https://www.hentai-foundry.com/stories/user/_/46750/_/100/Chapter-01/_", got)
}

func TestParseStoryURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		id    string
		title string
		ok    bool
	}{
		{"full url", "https://www.hentai-foundry.com/stories/user/pickleherring/46750/Sisterhood-Initiation", "46750", "Sisterhood-Initiation", true},
		{"trailing path", "https://www.hentai-foundry.com/stories/user/someone/12/A-Title/99/Chapter-1/x", "12", "A-Title", true},
		{"no title", "https://www.hentai-foundry.com/stories/user/someone/12", "", "", false},
		{"wrong section", "https://www.hentai-foundry.com/pictures/user/someone/12/A-Title", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, title, ok := ParseStoryURL(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.title, title)
		})
	}
}

func TestParseChapterHref(t *testing.T) {
	ref, err := ParseChapterHref("/stories/user/pickleherring/46750/Sisterhood-Initiation/100/Chapter-1/Beginnings")
	require.NoError(t, err)
	assert.Equal(t, ChapterRef{ID: "100", Number: 1, NumberText: "1"}, ref)

	_, err = ParseChapterHref("/stories/user/pickleherring/46750/Sisterhood-Initiation")
	assert.Error(t, err)
}

func TestParseChapterHref_LeadingZeros(t *testing.T) {
	ref, err := ParseChapterHref("/stories/user/pickleherring/46750/Sisterhood-Initiation/100/Chapter-01/Beginnings")
	require.NoError(t, err)
	assert.Equal(t, 1, ref.Number)
	assert.Equal(t, "01", ref.NumberText)
}

func TestIsStoryID(t *testing.T) {
	assert.True(t, IsStoryID("46750"))
	assert.False(t, IsStoryID(""))
	assert.False(t, IsStoryID("46a50"))
}
