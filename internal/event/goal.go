package event

import "strings"

// Goal is a weekly time target for one category title.
type Goal struct {
	ID          string  `json:"id"`
	Owner       Owner   `json:"owner"`
	Title       string  `json:"title"`
	WeeklyHours float64 `json:"weeklyHours"`
}

// ValidateGoal checks a goal before it is written.
func ValidateGoal(g Goal) error {
	if strings.TrimSpace(g.Title) == "" || g.WeeklyHours <= 0 {
		return ErrInvalidGoal
	}
	if !g.Owner.Valid() {
		return ErrInvalidOwner
	}
	return nil
}

// SetGoal returns a command writing g at its path.
func SetGoal(g Goal) Command {
	rec := g
	return Command{Op: OpSet, Path: GoalPath(g.Owner, g.ID), Goal: &rec}
}

// RemoveGoal returns a command deleting a goal.
func RemoveGoal(owner Owner, id string) Command {
	return Command{Op: OpRemove, Path: GoalPath(owner, id)}
}
