package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockRoundTrip(t *testing.T) {
	content := []Block{
		{Type: BlockParagraph, Paragraph: &ParagraphBlock{Text: "hello"}},
		{Type: BlockHeader, Header: &HeaderBlock{Text: "Intro", Level: 2}},
		{Type: BlockImage, Image: &ImageBlock{
			File:    BlockFile{URL: "https://cdn.test/blogs/a.png", ImageID: "blogs/a.png"},
			Caption: "a caption",
		}},
		{Type: BlockList, List: &ListBlock{Style: "unordered", Items: []string{"one", "two"}}},
	}

	raw, err := json.Marshal(content)
	require.NoError(t, err)

	var decoded []Block
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 4)

	assert.Equal(t, "hello", decoded[0].Paragraph.Text)
	assert.Equal(t, 2, decoded[1].Header.Level)
	assert.Equal(t, "blogs/a.png", decoded[2].Image.File.ImageID)
	assert.Equal(t, []string{"one", "two"}, decoded[3].List.Items)
}

func TestBlockWireShape(t *testing.T) {
	b := Block{Type: BlockParagraph, Paragraph: &ParagraphBlock{Text: "hi"}}
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"paragraph","data":{"text":"hi"}}`, string(raw))
}

func TestBlockUnknownTypeRejected(t *testing.T) {
	var b Block
	err := json.Unmarshal([]byte(`{"type":"embed","data":{"url":"x"}}`), &b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown block type")

	_, err = json.Marshal(Block{Type: "embed"})
	require.Error(t, err)
}

func TestHostedImageIDs(t *testing.T) {
	content := []Block{
		{Type: BlockParagraph, Paragraph: &ParagraphBlock{Text: "x"}},
		{Type: BlockImage, Image: &ImageBlock{File: BlockFile{URL: "u1", ImageID: "blogs/one.png"}}},
		// Image block without a hosted file yet.
		{Type: BlockImage, Image: &ImageBlock{File: BlockFile{URL: "data:image/png;base64,xx"}}},
		{Type: BlockImage, Image: &ImageBlock{File: BlockFile{URL: "u2", ImageID: "blogs/two.png"}}},
	}
	assert.Equal(t, []string{"blogs/one.png", "blogs/two.png"}, HostedImageIDs(content))
	assert.Empty(t, HostedImageIDs(nil))
}
