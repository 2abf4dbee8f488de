package dedupe

import (
	"path/filepath"
	"sort"

	"github.com/Nomadcxx/findedupe/internal/media"
	"github.com/google/uuid"
)

// PlanDeletes builds one plan per group: the suggested keeper stays, every
// other candidate is listed for deletion. Plans only describe the change;
// nothing here touches the filesystem.
func PlanDeletes(groups []media.DuplicateGroup, mode media.OperationMode) []media.DeletePlan {
	plans := make([]media.DeletePlan, 0, len(groups))
	for _, group := range groups {
		keeper := findKeeper(group)
		if keeper == nil {
			continue
		}

		plan := media.DeletePlan{
			PlanID:                 uuid.New(),
			Kind:                   group.Kind,
			Keeper:                 keeper.Key,
			ToDelete:               []media.Key{},
			FoldersToRemovePreview: []string{},
			Mode:                   mode,
		}

		keeperDir := parentDir(keeper.Path)
		seen := make(map[string]bool)
		for _, fp := range group.Candidates {
			if fp == nil || fp.Key == keeper.Key {
				continue
			}
			plan.ToDelete = append(plan.ToDelete, fp.Key)
			plan.TotalBytes += fp.Size()

			dir := parentDir(fp.Path)
			if dir == "" || dir == keeperDir || seen[dir] {
				continue
			}
			seen[dir] = true
			plan.FoldersToRemovePreview = append(plan.FoldersToRemovePreview, dir)
		}
		sort.Strings(plan.FoldersToRemovePreview)

		if len(plan.ToDelete) == 0 {
			continue
		}
		plans = append(plans, plan)
	}
	return plans
}

func findKeeper(group media.DuplicateGroup) *media.Fingerprint {
	if group.SuggestedKeeper == nil {
		return nil
	}
	for _, fp := range group.Candidates {
		if fp != nil && fp.Key == *group.SuggestedKeeper {
			return fp
		}
	}
	return nil
}

func parentDir(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(filepath.Clean(path))
}
