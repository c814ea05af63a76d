package common

// UnknownStr is rendered for enum values outside their declared range.
const UnknownStr = "unknown"

// DefaultDocumentID is the document id assumed for fields that do not name one.
const DefaultDocumentID = "DOCUMENT_ID"
