package media

import "github.com/google/uuid"

// DuplicateGroup is a cluster of fingerprints judged to be the same item.
type DuplicateGroup struct {
	GroupKey        string         `json:"group_key"`
	Kind            Kind           `json:"kind"`
	Candidates      []*Fingerprint `json:"candidates"`
	SuggestedKeeper *Key           `json:"suggested_keeper,omitempty"`
}

func (g DuplicateGroup) CandidateCount() int {
	return len(g.Candidates)
}

// DeletePlan lists the items that would be removed to resolve one group.
type DeletePlan struct {
	PlanID                 uuid.UUID     `json:"plan_id"`
	Kind                   Kind          `json:"kind"`
	Keeper                 Key           `json:"keeper"`
	ToDelete               []Key         `json:"to_delete"`
	TotalBytes             int64         `json:"total_bytes"`
	FoldersToRemovePreview []string      `json:"folders_to_remove_preview"`
	Mode                   OperationMode `json:"operation_mode"`
}

func (p DeletePlan) ItemCount() int {
	return len(p.ToDelete)
}
