package domain

import "errors"

var (
	// ErrInvalidInput signals a malformed or missing request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDownloadFailed signals a non-success response while fetching a remote document.
	ErrDownloadFailed = errors.New("download failed")
	// ErrUnsupportedMimeType signals a MIME type with no matching extractor.
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	// ErrUnsupportedChunkingStrategy signals an unrecognized chunking strategy value.
	ErrUnsupportedChunkingStrategy = errors.New("unsupported chunking strategy")
	// ErrDocumentNotFound signals a missing document artifact.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrDecodeFailed signals content that is not valid UTF-8 text.
	ErrDecodeFailed = errors.New("content is not valid utf-8 text")
	// ErrStorageWrite signals a document store write failure.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrOCRProviderError signals a document-understanding provider failure.
	ErrOCRProviderError = errors.New("ocr provider error")
)
