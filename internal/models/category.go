package models

import "github.com/airwuu/appstore/internal/types"

// Category is read-only reference data describing one store tag.
// The remote API serves similar_tag_ids either as a JSON array or as an
// array serialized into a JSON string, depending on the backend revision.
type Category struct {
	TagID         string               `json:"tag_id"`
	Amount        int                  `json:"amount"`
	SimilarTagIDs types.FlexStringList `json:"similar_tag_ids"`
}
