package generations

import "time"

// Sources distinguish which endpoint produced a record.
const (
	SourceFree = "free"
	SourcePro  = "pro"
)

// Generation is a stored record of one intro generation.
type Generation struct {
	ID                string
	UserID            string // empty means anonymous; stored as NULL
	JobDescription    string
	SkillsAndProjects string
	GeneratedIntro    string
	Source            string
	CreatedAt         time.Time
}
