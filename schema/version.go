package schema

// Task is a unit of test/build work scheduled within a build. The three
// outcome flags form a tri-state: a task may be scheduled but never run, and
// may run without succeeding.
type Task struct {
	Name      string `json:"name"`
	Scheduled bool   `json:"scheduled"`
	Ran       bool   `json:"ran"`
	Succeeded bool   `json:"succeeded"`
}

// Build is one build variant evaluated within a CI version.
type Build struct {
	DisplayName string `json:"display_name"`
	Tasks       []Task `json:"tasks"`
}

// Version is one evaluated snapshot of project history, identified by a git
// revision, with one build per build variant.
type Version struct {
	Revision string  `json:"revision"`
	Builds   []Build `json:"builds"`
}

// PrimaryRepoKey is the reserved error-map key for the primary repository.
const PrimaryRepoKey = "BASE"

// RevisionInfo describes the revisions acted on by a checkout run. Errors
// holds one entry per repository whose git action failed, keyed by dependent
// repository name or PrimaryRepoKey. It is constructed once per successful
// search and never mutated afterwards.
type RevisionInfo struct {
	Revision     string            `json:"revision"`
	DepRevisions map[string]string `json:"dep_revisions,omitempty"`
	Errors       map[string]string `json:"errors,omitempty"`
}
