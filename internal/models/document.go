package models

import "strings"

// MediaKind is the document type derived from an object's key and content type.
// It decides which content block shape is sent to the model.
type MediaKind string

const (
	MediaPDF         MediaKind = "pdf"
	MediaPNG         MediaKind = "png"
	MediaJPEG        MediaKind = "jpeg"
	MediaUnsupported MediaKind = "unsupported"
)

// IsImage reports whether the kind is one of the supported image formats.
func (k MediaKind) IsImage() bool {
	return k == MediaPNG || k == MediaJPEG
}

// DocumentRef identifies a stored document for the lifetime of one request.
type DocumentRef struct {
	Bucket      string
	Key         string
	ContentType string
	Kind        MediaKind
}

// FileName is the last path segment of the object key.
func (d DocumentRef) FileName() string {
	return d.Key[strings.LastIndex(d.Key, "/")+1:]
}

// StoredObject is the payload and declared content type fetched from storage.
type StoredObject struct {
	ContentType string
	Bytes       []byte
}

// BlockKind discriminates the parts of a model request.
type BlockKind string

const (
	BlockText     BlockKind = "text"
	BlockDocument BlockKind = "document"
	BlockImage    BlockKind = "image"
)

// ContentBlock is one unit of a model request: text, a document or an image.
type ContentBlock struct {
	Kind   BlockKind
	Text   string
	Format string // pdf, png or jpeg for binary blocks
	Name   string // display name, documents only
	Bytes  []byte
}

// TextBlock wraps a prompt string as a content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Kind: BlockText, Text: text}
}

// GenerateRequest is a single user-turn model invocation.
type GenerateRequest struct {
	ModelID     string
	Blocks      []ContentBlock
	MaxTokens   int32
	Temperature float32
}
