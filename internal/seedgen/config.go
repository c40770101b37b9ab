// Package seedgen produces synthetic fixtures of projects and users for the
// memory store, the Postgres importer and load testing.
package seedgen

// Config holds the generator settings.
type Config struct {
	Projects   int    // Number of projects to generate
	Developers int    // Number of users with the developer role
	Others     int    // Number of users with other roles
	MaxSkills  int    // Upper bound of skills per user
	Seed       uint64 // Zero picks a random seed
}

// Default generator settings.
const (
	DefaultProjects   = 20
	DefaultDevelopers = 200
	DefaultOthers     = 20
	DefaultMaxSkills  = 6

	maxRequiredSkills = 4
	maxExperience     = 15.0
	maxWorkload       = 10
	unratedPercent    = 10
)

// DefaultConfig returns the settings used by the seed command.
func DefaultConfig() Config {
	return Config{
		Projects:   DefaultProjects,
		Developers: DefaultDevelopers,
		Others:     DefaultOthers,
		MaxSkills:  DefaultMaxSkills,
	}
}

// Skills is the vocabulary generated records draw from.
var Skills = []string{ //nolint:gochecknoglobals // fixed vocabulary
	"go", "python", "javascript", "typescript", "react", "java", "kotlin",
	"rust", "sql", "postgres", "docker", "kubernetes", "aws", "swift",
}

var otherRoles = []string{"MANAGER", "DESIGNER", "QA"} //nolint:gochecknoglobals // fixed vocabulary
