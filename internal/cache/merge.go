package cache

import (
	"github.com/danielolaszy/orbit/pkg/models"
)

// upsert returns a new collection where a record with a matching id is
// replaced at its existing index, or the record is appended at the end. The
// input collection is never mutated; callers always receive a fresh slice.
func upsert[T any](existing []T, record T, id func(T) string) []T {
	merged := make([]T, len(existing))
	copy(merged, existing)

	key := id(record)
	for i := range merged {
		if id(merged[i]) == key {
			merged[i] = record
			return merged
		}
	}

	return append(merged, record)
}

// UpsertWorkItem merges a single work item into an existing collection by id.
func UpsertWorkItem(items []models.WorkItem, item models.WorkItem) []models.WorkItem {
	return upsert(items, item, func(i models.WorkItem) string { return i.ID })
}

// UpsertModule merges a single module into an existing collection by id.
func UpsertModule(modules []models.Module, module models.Module) []models.Module {
	return upsert(modules, module, func(m models.Module) string { return m.ID })
}
