package models

import (
	"encoding/json"
	"fmt"
)

// BlockType discriminates the content block union.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeader    BlockType = "header"
	BlockImage     BlockType = "image"
	BlockList      BlockType = "list"
)

// BlockFile is a hosted image reference inside an image block. ImageID is
// the deletable object key on the asset host.
type BlockFile struct {
	URL     string `json:"url"`
	ImageID string `json:"imageId,omitempty"`
}

type ParagraphBlock struct {
	Text string `json:"text"`
}

type HeaderBlock struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type ImageBlock struct {
	File    BlockFile `json:"file"`
	Caption string    `json:"caption,omitempty"`
}

type ListBlock struct {
	Style string   `json:"style"`
	Items []string `json:"items"`
}

// Block is one typed unit of blog content. Exactly one variant pointer is
// set, matching Type. The wire shape is {"type": ..., "data": {...}};
// unknown types are rejected at decode time.
type Block struct {
	Type      BlockType
	Paragraph *ParagraphBlock
	Header    *HeaderBlock
	Image     *ImageBlock
	List      *ListBlock
}

type blockEnvelope struct {
	Type BlockType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (b Block) MarshalJSON() ([]byte, error) {
	var data interface{}
	switch b.Type {
	case BlockParagraph:
		data = b.Paragraph
	case BlockHeader:
		data = b.Header
	case BlockImage:
		data = b.Image
	case BlockList:
		data = b.List
	default:
		return nil, fmt.Errorf("models.Block: unknown block type %q", b.Type)
	}
	if data == nil {
		return nil, fmt.Errorf("models.Block: %s block has no data", b.Type)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockEnvelope{Type: b.Type, Data: raw})
}

func (b *Block) UnmarshalJSON(raw []byte) error {
	var env blockEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	*b = Block{Type: env.Type}
	switch env.Type {
	case BlockParagraph:
		b.Paragraph = &ParagraphBlock{}
		return json.Unmarshal(env.Data, b.Paragraph)
	case BlockHeader:
		b.Header = &HeaderBlock{}
		return json.Unmarshal(env.Data, b.Header)
	case BlockImage:
		b.Image = &ImageBlock{}
		return json.Unmarshal(env.Data, b.Image)
	case BlockList:
		b.List = &ListBlock{}
		return json.Unmarshal(env.Data, b.List)
	default:
		return fmt.Errorf("models.Block: unknown block type %q", env.Type)
	}
}

// HostedImageIDs collects the deletable image ids referenced by image
// blocks in a content sequence.
func HostedImageIDs(content []Block) []string {
	var ids []string
	for _, b := range content {
		if b.Type == BlockImage && b.Image != nil && b.Image.File.ImageID != "" {
			ids = append(ids, b.Image.File.ImageID)
		}
	}
	return ids
}
