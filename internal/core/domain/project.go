package domain

import "time"

// Project is an architectural project that sources and items belong to.
// Project CRUD lives outside this service; the pipeline reads projects
// to match incoming items and to find monitored cloud folders.
type Project struct {
	// ID is the unique identifier for the project.
	ID string

	// Name is the human-readable project name, used by the matcher.
	Name string

	// DriveFolderID is the monitored cloud-storage folder, if any.
	DriveFolderID string

	// LastDrivePoll is the folder poller's watermark: only files
	// modified after this instant are considered on the next cycle.
	LastDrivePoll time.Time

	// ArchivedAt marks the project inactive. Archived projects are
	// never matching candidates and their folders are not polled.
	ArchivedAt time.Time

	// CreatedAt is when the project was created.
	CreatedAt time.Time
}

// Active reports whether the project is a candidate for matching and polling.
func (p *Project) Active() bool {
	return p.ArchivedAt.IsZero()
}

// Participant is a person on a project roster. The roster is injected
// into extraction prompts so the model can attribute statements and
// infer disciplines.
type Participant struct {
	// ID is the unique identifier for the participant.
	ID string

	// ProjectID references the project this person belongs to.
	ProjectID string

	// Name is the participant's full name.
	Name string

	// Email is the participant's address, may be empty.
	Email string

	// Discipline is the participant's discipline (architecture, mep, ...).
	Discipline string

	// Role is a free-form role description.
	Role string
}
