// Package rag holds the shared vocabulary of the retrieval pipeline:
// collection naming, the error taxonomy, and the chunk payload passed between
// the ingest and query sides.
package rag

import "strings"

// CollectionName derives the vector collection for a notebook. It must be a
// pure function of the notebook id: ingestion and query never coordinate
// beyond agreeing on this name. Hyphens are normalized because the collection
// value doubles as an identifier in downstream systems that disallow them.
func CollectionName(notebookId string) string {
	return "notebook_" + strings.ReplaceAll(notebookId, "-", "_")
}
