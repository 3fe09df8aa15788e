package graph

// FindParent returns the category that directly encloses id.
// It searches depth-first from every top-level entry, matching id either as a
// question in a child list or as a subcategory reference. Top-level entries
// and unknown ids both yield RootID.
func (ds *DataSet) FindParent(id ID) ID {
	if id == RootID {
		return RootID
	}
	for _, top := range ds.Tree[RootID] {
		if !top.IsSubcategory() {
			continue
		}
		if parent, ok := ds.findParentIn(top.ID, id); ok {
			return parent
		}
	}
	return RootID
}

func (ds *DataSet) findParentIn(category, target ID) (ID, bool) {
	for _, ref := range ds.Tree[category] {
		if ref.ID == target {
			return category, true
		}
		if ref.IsSubcategory() {
			if parent, ok := ds.findParentIn(ref.ID, target); ok {
				return parent, true
			}
		}
	}
	return RootID, false
}

// Children returns the ordered child list of a category, or of the root when
// id is RootID. The second result is false when id has no child list.
func (ds *DataSet) Children(id ID) ([]ChildRef, bool) {
	if id.IsQuestion() {
		return nil, false
	}
	refs, ok := ds.Tree[id]
	if !ok {
		return nil, false
	}
	return refs, true
}

// Name returns the display label of a node: the category name or the
// question text.
func (ds *DataSet) Name(id ID) (string, error) {
	if id.IsQuestion() {
		q, ok := ds.Questions[id]
		if !ok {
			return "", ErrNotFound
		}
		return q.Question, nil
	}
	c, ok := ds.Categories[id]
	if !ok {
		return "", ErrNotFound
	}
	return c.Name, nil
}
