package branch

// IsMember reports whether a branch reference points at branchID.
//
// The branch_ref column drifted across three generations of the schema: a
// plain id string, then an object carrying an "id" field, then a map keyed by
// branch ids. ref is the JSON-decoded column value; dispatch on its runtime
// shape happens here and nowhere else. Absent refs and shapes this function
// does not recognize resolve to false, never to a panic: a record with a
// broken reference drops out of scoped listings instead of taking the
// listing down.
func IsMember(ref any, branchID string) bool {
	if ref == nil || branchID == "" {
		return false
	}

	switch v := ref.(type) {
	case string:
		return v == branchID

	case map[string]any:
		if raw, ok := v["id"]; ok {
			id, ok := raw.(string)
			return ok && id == branchID
		}
		// legacy encoding: keys are branch ids
		_, ok := v[branchID]
		return ok
	}

	return false
}
