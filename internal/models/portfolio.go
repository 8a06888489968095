// Package models defines the portfolio document and its record kinds.
package models

// Document is the whole persisted portfolio: one singleton record and the
// insertion-ordered record collections.
type Document struct {
	PersonalInfo   PersonalInfo `json:"personalInfo"`
	Skills         []Skill      `json:"skills"`
	Projects       []Project    `json:"projects"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
	Languages      []Language   `json:"languages,omitempty"`
}

// PersonalInfo is the singleton record describing the site owner.
type PersonalInfo struct {
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	GitHub       string    `json:"github"`
	LinkedIn     string    `json:"linkedin"`
	Availability string    `json:"availability"`
	Mobility     *Mobility `json:"mobility,omitempty"`
}

// Mobility flags shown next to the availability line.
type Mobility struct {
	Travel     bool `json:"travel,omitempty"`
	Relocation bool `json:"relocation,omitempty"`
	Vehicle    bool `json:"vehicle,omitempty"`
}

// Skill is one entry of the skills collection.
type Skill struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Experience string `json:"experience"`
	Projects   string `json:"projects"`
	Icon       string `json:"icon"`
}

// Metric is a labelled figure attached to a project.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon,omitempty"`
}

// Project is one entry of the projects collection.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Metrics     []Metric `json:"metrics,omitempty"`
	GitHub      string   `json:"github"`
	Demo        string   `json:"demo,omitempty"`
	Gradient    string   `json:"gradient"`
}

// Experience is one entry of the experience collection.
type Experience struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Period       string   `json:"period"`
	Location     string   `json:"location"`
	Achievements []string `json:"achievements,omitempty"`
	Color        string   `json:"color,omitempty"`
}

// Education is kept in the document but has no dashboard editor.
type Education struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
}

// Language is a spoken language and proficiency level.
type Language struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}

// SkillsByCategory groups skills by category, keeping insertion order
// inside each group.
func SkillsByCategory(skills []Skill) map[string][]Skill {
	out := make(map[string][]Skill)
	for _, s := range skills {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}
