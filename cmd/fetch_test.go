package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStoryID(t *testing.T) {
	tests := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{arg: "46750", want: "46750"},
		{arg: " 46750\n", want: "46750"},
		{arg: "https://www.hentai-foundry.com/stories/user/pickleherring/46750/Sisterhood-Initiation", want: "46750"},
		{arg: "not a story", wantErr: true},
		{arg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := resolveStoryID(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptStoryID(t *testing.T) {
	var out bytes.Buffer
	id, err := promptStoryID(strings.NewReader("46750\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "46750", id)
	assert.Equal(t, "Story ID: ", out.String())

	_, err = promptStoryID(strings.NewReader(""), &out)
	assert.Error(t, err)
}

func TestSelectRenderer(t *testing.T) {
	for format, ext := range map[string]string{"pdf": ".pdf", "PDF": ".pdf", "markdown": ".md", "json": ".json"} {
		r, err := selectRenderer(format)
		require.NoError(t, err, format)
		assert.Equal(t, ext, r.Extension(), format)
	}

	_, err := selectRenderer("epub")
	assert.Error(t, err)
}
