// Package content defines the public-facing portfolio content entities.
package content

// Project represents a single portfolio project row.
type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url"`
	DemoURL      string   `json:"demo_url"`
	RepoURL      string   `json:"repo_url"`
	Technologies []string `json:"technologies"`
	DisplayOrder int      `json:"display_order"`
	IsFeatured   bool     `json:"is_featured"`
}

// Experience represents a single work-experience row.
type Experience struct {
	ID           string `json:"id"`
	Company      string `json:"company"`
	Role         string `json:"role"`
	Period       string `json:"period"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

// Education represents a single education row.
type Education struct {
	ID           string `json:"id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	Year         string `json:"year"`
	Location     string `json:"location"`
	DisplayOrder int    `json:"display_order"`
}

// Skill represents a single skill row. Category drives public bucketing.
type Skill struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	IconName     string `json:"icon_name"`
	DisplayOrder int    `json:"display_order"`
}

// Social represents a single social-link row.
type Social struct {
	ID           string `json:"id"`
	Platform     string `json:"platform"`
	URL          string `json:"url"`
	IconName     string `json:"icon_name"`
	DisplayOrder int    `json:"display_order"`
}

func (p Project) EntityID() string    { return p.ID }
func (e Experience) EntityID() string { return e.ID }
func (e Education) EntityID() string  { return e.ID }
func (s Skill) EntityID() string      { return s.ID }
func (s Social) EntityID() string     { return s.ID }
