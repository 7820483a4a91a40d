package desi

// DiffResult represents the difference between two versions of a document's
// text nodes, such as two revisions of a subtitle file.
type DiffResult struct {
	Added     []TextNode     // nodes whose text is new
	Removed   []TextNode     // nodes whose text is gone
	Unchanged []TextNode     // nodes present in both versions
	Modified  []ModifiedNode // same cue (ID or timing), different text

	pending []TextNode // added and modified nodes in new document order
}

// ModifiedNode represents a text node whose text changed in place.
type ModifiedNode struct {
	Old TextNode
	New TextNode
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Modified  int `json:"modified"`
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the added and modified nodes. For a result of
// DiffNodes they are in document order of the new version; a DiffResult built
// by hand lists Added before Modified.
func (d *DiffResult) NeedsTranslation() []TextNode {
	if d.pending != nil {
		return append([]TextNode{}, d.pending...)
	}
	result := make([]TextNode, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	return result
}

// DiffNodes compares two node lists by text hash. Removed and added nodes
// that share an ID or a non-empty Context are reported as modified. All
// result lists follow input order.
func DiffNodes(oldNodes, newNodes []TextNode) *DiffResult {
	result := &DiffResult{}

	oldHashes := make(map[string]bool, len(oldNodes))
	for _, node := range oldNodes {
		oldHashes[node.Hash] = true
	}
	newHashes := make(map[string]bool, len(newNodes))
	for _, node := range newNodes {
		newHashes[node.Hash] = true
	}

	var removed, added []TextNode
	for _, node := range oldNodes {
		if newHashes[node.Hash] {
			result.Unchanged = append(result.Unchanged, node)
		} else {
			removed = append(removed, node)
		}
	}
	for _, node := range newNodes {
		if !oldHashes[node.Hash] {
			added = append(added, node)
		}
	}

	removedMatched := make([]bool, len(removed))
	for _, a := range added {
		match := -1
		for ri, r := range removed {
			if removedMatched[ri] {
				continue
			}
			if (r.ID != "" && r.ID == a.ID) || (r.Context != "" && r.Context == a.Context) {
				match = ri
				break
			}
		}
		result.pending = append(result.pending, a)
		if match < 0 {
			result.Added = append(result.Added, a)
			continue
		}
		removedMatched[match] = true
		result.Modified = append(result.Modified, ModifiedNode{Old: removed[match], New: a})
	}
	for ri, r := range removed {
		if !removedMatched[ri] {
			result.Removed = append(result.Removed, r)
		}
	}
	return result
}
