// Package policy holds the authorization rules for projects, tasks and
// comments. Everything here is a pure function of its arguments; callers
// load the facts from the database on every request.
package policy

import "github.com/ludicboard/ludicboard-api/internal/models"

// Tier is a caller's permission level on a single task.
type Tier string

const (
	TierNone    Tier = ""
	TierView    Tier = "VIEW"
	TierPartial Tier = "PARTIAL"
	TierFull    Tier = "FULL"
)

// TaskFacts are the rows the task tier is derived from.
type TaskFacts struct {
	AuthorID    uint64
	AssigneeIDs []uint64
	// ActorRole is the caller's role in the task's project, empty when the
	// caller has no membership.
	ActorRole models.ProjectRole
}

// ResolveTaskTier returns the caller's tier and whether access is granted at all.
func ResolveTaskTier(actorID uint64, facts TaskFacts) (Tier, bool) {
	if actorID == facts.AuthorID {
		return TierFull, true
	}
	for _, id := range facts.AssigneeIDs {
		if id == actorID {
			return TierPartial, true
		}
	}
	if facts.ActorRole != "" {
		return TierView, true
	}
	return TierNone, false
}
