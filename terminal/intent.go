package terminal

// Intent is one interpreted command. The implementations are CreateProject,
// RepairProject and NoOp; Dispatch handles each of them.
type Intent interface {
	intent()
}

// CreateProject creates a new project named Name at Location. An empty
// Version or Author takes the metadata default.
type CreateProject struct {
	Name     string
	Location string
	Version  string
	Author   string
}

// RepairProject checks and repairs the existing project at Location.
type RepairProject struct {
	Location string
}

// NoOp asks the caller to continue with the interactive session.
type NoOp struct{}

func (CreateProject) intent() {}
func (RepairProject) intent() {}
func (NoOp) intent()          {}
