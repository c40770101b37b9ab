// Package model contains domain models passed between layers.
package model

// RoleDeveloper is the role whose users make up the candidate pool.
const RoleDeveloper = "DEVELOPER"

// Project is the subject of a recommendation request.
type Project struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// RequiredSkills are stored as "languages" upstream.
	RequiredSkills []string `json:"languages" yaml:"languages"`
}

// Candidate is a user eligible for assignment to a project.
type Candidate struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Role            string   `json:"role" yaml:"role"`
	Skills          []string `json:"skills" yaml:"skills"`
	ExperienceYears float64  `json:"experience" yaml:"experience"`
	CurrentWorkload int      `json:"currentWorkload" yaml:"currentWorkload"`
	// PerformanceRating is nil when the user was never rated.
	PerformanceRating *float64 `json:"performanceRating,omitempty" yaml:"performanceRating,omitempty"`
}

// Recommendation is the view of one ranked candidate.
type Recommendation struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Skills            []string `json:"skills"`
	Score             int      `json:"score"`
	SkillMatchPercent int      `json:"skillMatch"`
	ExperienceYears   float64  `json:"experience"`
	PerformanceRating float64  `json:"performanceRating"`
}

// Result is the outcome of one recommendation request. Slices are never nil
// so they encode as empty JSON arrays.
type Result struct {
	Success               bool             `json:"success"`
	Recommendations       []Recommendation `json:"recommendations"`
	ProjectRequiredSkills []string         `json:"projectLanguages"`
}

// EmptyResult returns a successful result with no recommendations.
func EmptyResult(required []string) Result {
	if required == nil {
		required = []string{}
	}
	return Result{
		Success:               true,
		Recommendations:       []Recommendation{},
		ProjectRequiredSkills: required,
	}
}
