package domain

import "time"

// WBSNode is a node in the work breakdown structure. The flat record form
// leaves Children empty; the nested form built by wbs.Build populates it.
type WBSNode struct {
	ID           string
	WorkspaceID  string
	ParentID     *string
	Code         string
	NameEn       string
	NameID       string
	Description  string
	Depth        int
	SortOrder    int
	DefinitionID *string
	Children     []*WBSNode
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsRoot reports whether the node has no parent reference.
func (n *WBSNode) IsRoot() bool {
	return n.ParentID == nil || *n.ParentID == ""
}

// DisplayName returns the English name, falling back to the Indonesian name
// and finally the code.
func (n *WBSNode) DisplayName() string {
	return CoalesceStr(n.NameEn, n.NameID, n.Code)
}

// Clone returns a shallow copy of the node without children. Pointer fields
// are copied so the clone can be mutated independently.
func (n *WBSNode) Clone() *WBSNode {
	c := *n
	c.Children = nil
	if n.ParentID != nil {
		p := *n.ParentID
		c.ParentID = &p
	}
	if n.DefinitionID != nil {
		d := *n.DefinitionID
		c.DefinitionID = &d
	}
	return &c
}
