// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"strings"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

// Registry indexes the identifiers already present in the store so the
// merge can decide novelty. It is built once per run from the store
// snapshot and threaded explicitly through the merge; there is no ambient
// global state.
type Registry struct {
	eids map[string]struct{}
	dois map[string]struct{}
}

// NewRegistry builds a Registry from the current store rows. Empty
// identifiers are not indexed.
func NewRegistry(rows []types.Row) *Registry {
	r := &Registry{
		eids: make(map[string]struct{}, len(rows)),
		dois: make(map[string]struct{}, len(rows)),
	}
	for _, row := range rows {
		if eid := strings.TrimSpace(row.EID); eid != "" {
			r.eids[eid] = struct{}{}
		}
		if doi := strings.TrimSpace(row.DOI); doi != "" {
			r.dois[doi] = struct{}{}
		}
	}
	return r
}

// Contains reports whether rec is already represented in the store. A
// record without an EID is never merged, so it counts as seen. A record
// whose DOI matches an existing row counts as seen even under a new EID,
// since Scopus occasionally re-keys entries.
func (r *Registry) Contains(rec types.Record) bool {
	eid := strings.TrimSpace(rec.EID)
	if eid == "" {
		return true
	}
	if _, ok := r.eids[eid]; ok {
		return true
	}
	if doi := strings.TrimSpace(rec.DOI); doi != "" {
		if _, ok := r.dois[doi]; ok {
			return true
		}
	}
	return false
}

// MarkSeen inserts rec's identifiers. Idempotent; called for each merged
// record so the same entry surfacing in two overlapping fallback slices is
// only added once within a run.
func (r *Registry) MarkSeen(rec types.Record) {
	if eid := strings.TrimSpace(rec.EID); eid != "" {
		r.eids[eid] = struct{}{}
	}
	if doi := strings.TrimSpace(rec.DOI); doi != "" {
		r.dois[doi] = struct{}{}
	}
}
