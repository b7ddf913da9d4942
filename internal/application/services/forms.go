package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/domain/entities/inbox"
	"github.com/foliostack/foliostack-go/internal/domain/faults"
)

// Form states carry every editable field as text so they can round-trip
// through the admin UI unchanged. Numeric fields are parsed on Normalize;
// invalid numeric text is a ValidationError raised before any store call.

// parseOrder parses a display_order text field. Empty means zero.
func parseOrder(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	order, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &faults.ValidationError{Field: "display_order", Reason: "must be a number"}
	}
	return order, nil
}

// splitList splits a comma-delimited text field, trimming each token and
// dropping empty ones.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := []string{}
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func requireField(value, field string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &faults.ValidationError{Field: field, Reason: "required"}
	}
	return trimmed, nil
}

// ProjectForm is the text-editable form state for a project.
type ProjectForm struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	DemoURL      string `json:"demo_url"`
	RepoURL      string `json:"repo_url"`
	Technologies string `json:"technologies"` // comma separated
	DisplayOrder string `json:"display_order"`
	IsFeatured   bool   `json:"is_featured"`
}

type ProjectCodec struct{}

func (ProjectCodec) Defaults() ProjectForm {
	return ProjectForm{DisplayOrder: "0"}
}

func (ProjectCodec) Hydrate(p content.Project) ProjectForm {
	return ProjectForm{
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		DemoURL:      p.DemoURL,
		RepoURL:      p.RepoURL,
		Technologies: strings.Join(p.Technologies, ", "),
		DisplayOrder: strconv.Itoa(p.DisplayOrder),
		IsFeatured:   p.IsFeatured,
	}
}

func (ProjectCodec) Normalize(f ProjectForm) (content.Project, error) {
	title, err := requireField(f.Title, "title")
	if err != nil {
		return content.Project{}, err
	}
	order, err := parseOrder(f.DisplayOrder)
	if err != nil {
		return content.Project{}, err
	}
	return content.Project{
		Title:        title,
		Description:  strings.TrimSpace(f.Description),
		ImageURL:     strings.TrimSpace(f.ImageURL),
		DemoURL:      strings.TrimSpace(f.DemoURL),
		RepoURL:      strings.TrimSpace(f.RepoURL),
		Technologies: splitList(f.Technologies),
		DisplayOrder: order,
		IsFeatured:   f.IsFeatured,
	}, nil
}

// ExperienceForm is the text-editable form state for a work experience.
type ExperienceForm struct {
	Company      string `json:"company"`
	Role         string `json:"role"`
	Period       string `json:"period"`
	Description  string `json:"description"`
	DisplayOrder string `json:"display_order"`
}

type ExperienceCodec struct{}

func (ExperienceCodec) Defaults() ExperienceForm {
	return ExperienceForm{DisplayOrder: "0"}
}

func (ExperienceCodec) Hydrate(e content.Experience) ExperienceForm {
	return ExperienceForm{
		Company:      e.Company,
		Role:         e.Role,
		Period:       e.Period,
		Description:  e.Description,
		DisplayOrder: strconv.Itoa(e.DisplayOrder),
	}
}

func (ExperienceCodec) Normalize(f ExperienceForm) (content.Experience, error) {
	company, err := requireField(f.Company, "company")
	if err != nil {
		return content.Experience{}, err
	}
	order, err := parseOrder(f.DisplayOrder)
	if err != nil {
		return content.Experience{}, err
	}
	return content.Experience{
		Company:      company,
		Role:         strings.TrimSpace(f.Role),
		Period:       strings.TrimSpace(f.Period),
		Description:  strings.TrimSpace(f.Description),
		DisplayOrder: order,
	}, nil
}

// EducationForm is the text-editable form state for an education record.
type EducationForm struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	Year         string `json:"year"`
	Location     string `json:"location"`
	DisplayOrder string `json:"display_order"`
}

type EducationCodec struct{}

func (EducationCodec) Defaults() EducationForm {
	return EducationForm{DisplayOrder: "0"}
}

func (EducationCodec) Hydrate(e content.Education) EducationForm {
	return EducationForm{
		School:       e.School,
		Degree:       e.Degree,
		Year:         e.Year,
		Location:     e.Location,
		DisplayOrder: strconv.Itoa(e.DisplayOrder),
	}
}

func (EducationCodec) Normalize(f EducationForm) (content.Education, error) {
	school, err := requireField(f.School, "school")
	if err != nil {
		return content.Education{}, err
	}
	order, err := parseOrder(f.DisplayOrder)
	if err != nil {
		return content.Education{}, err
	}
	return content.Education{
		School:       school,
		Degree:       strings.TrimSpace(f.Degree),
		Year:         strings.TrimSpace(f.Year),
		Location:     strings.TrimSpace(f.Location),
		DisplayOrder: order,
	}, nil
}

// SkillForm is the text-editable form state for a skill.
type SkillForm struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	IconName     string `json:"icon_name"`
	DisplayOrder string `json:"display_order"`
}

type SkillCodec struct{}

func (SkillCodec) Defaults() SkillForm {
	return SkillForm{Category: "Languages", DisplayOrder: "0"}
}

func (SkillCodec) Hydrate(s content.Skill) SkillForm {
	return SkillForm{
		Name:         s.Name,
		Category:     s.Category,
		IconName:     s.IconName,
		DisplayOrder: strconv.Itoa(s.DisplayOrder),
	}
}

func (SkillCodec) Normalize(f SkillForm) (content.Skill, error) {
	name, err := requireField(f.Name, "name")
	if err != nil {
		return content.Skill{}, err
	}
	order, err := parseOrder(f.DisplayOrder)
	if err != nil {
		return content.Skill{}, err
	}
	category := strings.TrimSpace(f.Category)
	if category == "" {
		category = "Languages"
	}
	return content.Skill{
		Name:         name,
		Category:     category,
		IconName:     strings.TrimSpace(f.IconName),
		DisplayOrder: order,
	}, nil
}

// SocialForm is the text-editable form state for a social link.
type SocialForm struct {
	Platform     string `json:"platform"`
	URL          string `json:"url"`
	IconName     string `json:"icon_name"`
	DisplayOrder string `json:"display_order"`
}

type SocialCodec struct{}

func (SocialCodec) Defaults() SocialForm {
	return SocialForm{DisplayOrder: "0"}
}

func (SocialCodec) Hydrate(s content.Social) SocialForm {
	return SocialForm{
		Platform:     s.Platform,
		URL:          s.URL,
		IconName:     s.IconName,
		DisplayOrder: strconv.Itoa(s.DisplayOrder),
	}
}

func (SocialCodec) Normalize(f SocialForm) (content.Social, error) {
	platform, err := requireField(f.Platform, "platform")
	if err != nil {
		return content.Social{}, err
	}
	order, err := parseOrder(f.DisplayOrder)
	if err != nil {
		return content.Social{}, err
	}
	return content.Social{
		Platform:     platform,
		URL:          strings.TrimSpace(f.URL),
		IconName:     strings.TrimSpace(f.IconName),
		DisplayOrder: order,
	}, nil
}

// MessageForm is the form state for an inbound contact submission. Messages
// are created by visitors, never edited, so the codec only validates intake.
type MessageForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

type MessageCodec struct{}

func (MessageCodec) Defaults() MessageForm {
	return MessageForm{}
}

func (MessageCodec) Hydrate(m inbox.Message) MessageForm {
	return MessageForm{
		Name:    m.Name,
		Email:   m.Email,
		Subject: m.Subject,
		Content: m.Content,
	}
}

func (MessageCodec) Normalize(f MessageForm) (inbox.Message, error) {
	name, err := requireField(f.Name, "name")
	if err != nil {
		return inbox.Message{}, err
	}
	email, err := requireField(f.Email, "email")
	if err != nil {
		return inbox.Message{}, err
	}
	if !strings.Contains(email, "@") {
		return inbox.Message{}, &faults.ValidationError{Field: "email", Reason: "must be an email address"}
	}
	body, err := requireField(f.Content, "content")
	if err != nil {
		return inbox.Message{}, err
	}
	return inbox.Message{
		Name:      name,
		Email:     email,
		Subject:   strings.TrimSpace(f.Subject),
		Content:   body,
		CreatedAt: time.Now().UTC(),
	}, nil
}
