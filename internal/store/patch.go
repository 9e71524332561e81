package store

import (
	"encoding/json"
	"fmt"

	"folio/internal/model"
)

// MergePatch applies patch to rec's JSON form with merge-patch semantics: keys in patch replace
// the record's keys, nested objects merge recursively, and null removes a key.
func MergePatch[T any](rec T, patch map[string]any) (T, error) {
	var zero T
	b, err := json.Marshal(rec)
	if err != nil {
		return zero, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return zero, err
	}
	mergeInto(doc, patch)

	b, err = json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return out, nil
}

func mergeInto(doc, patch map[string]any) {
	for k, v := range patch {
		if v == nil {
			delete(doc, k)
			continue
		}
		sub, ok := v.(map[string]any)
		if !ok {
			doc[k] = v
			continue
		}
		cur, ok := doc[k].(map[string]any)
		if !ok {
			cur = map[string]any{}
		}
		mergeInto(cur, sub)
		doc[k] = cur
	}
}
