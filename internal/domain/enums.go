package domain

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectSuspended ProjectStatus = "suspended"
	ProjectDone      ProjectStatus = "done"
	ProjectArchived  ProjectStatus = "archived"
)

type WorkItemKind string

const (
	KindActivity    WorkItemKind = "activity"
	KindSubActivity WorkItemKind = "sub_activity"
)

// ValidWorkItemKinds is the canonical set of accepted work item kind strings.
var ValidWorkItemKinds = map[string]bool{
	"activity": true, "sub_activity": true,
}

// ProgressLevel classifies how far actual progress trails the plan.
type ProgressLevel string

const (
	LevelAhead      ProgressLevel = "ahead"
	LevelOnSchedule ProgressLevel = "on_schedule"
	LevelBehind     ProgressLevel = "behind"
	LevelCritical   ProgressLevel = "critical"
)
