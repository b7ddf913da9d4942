package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/domain/faults"
)

func TestProjectCodec(t *testing.T) {
	t.Run("hydrate joins technologies with a comma", func(t *testing.T) {
		form := ProjectCodec{}.Hydrate(content.Project{
			Title:        "FolioStack",
			Technologies: []string{"Go", "SQLite", "Gin"},
			DisplayOrder: 2,
		})
		assert.Equal(t, "Go, SQLite, Gin", form.Technologies)
		assert.Equal(t, "2", form.DisplayOrder)
	})

	t.Run("normalize splits, trims, and drops empty technologies", func(t *testing.T) {
		project, err := ProjectCodec{}.Normalize(ProjectForm{
			Title:        " FolioStack ",
			Technologies: " Go , , SQLite,,  Gin ",
			DisplayOrder: "3",
		})
		require.NoError(t, err)
		assert.Equal(t, "FolioStack", project.Title)
		assert.Equal(t, []string{"Go", "SQLite", "Gin"}, project.Technologies)
		assert.Equal(t, 3, project.DisplayOrder)
	})

	t.Run("empty technologies field yields an empty slice", func(t *testing.T) {
		project, err := ProjectCodec{}.Normalize(ProjectForm{Title: "X"})
		require.NoError(t, err)
		assert.Equal(t, []string{}, project.Technologies)
	})

	t.Run("missing title is a validation error", func(t *testing.T) {
		_, err := ProjectCodec{}.Normalize(ProjectForm{Title: "  "})
		var verr *faults.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	})

	t.Run("non-numeric display order is a validation error", func(t *testing.T) {
		_, err := ProjectCodec{}.Normalize(ProjectForm{Title: "X", DisplayOrder: "first"})
		var verr *faults.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "display_order", verr.Field)
	})

	t.Run("blank display order defaults to zero", func(t *testing.T) {
		project, err := ProjectCodec{}.Normalize(ProjectForm{Title: "X", DisplayOrder: " "})
		require.NoError(t, err)
		assert.Equal(t, 0, project.DisplayOrder)
	})
}

func TestExperienceCodec(t *testing.T) {
	t.Run("company is required", func(t *testing.T) {
		_, err := ExperienceCodec{}.Normalize(ExperienceForm{Role: "Engineer"})
		var verr *faults.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "company", verr.Field)
	})

	t.Run("round trip preserves fields", func(t *testing.T) {
		original := content.Experience{
			Company:      "Acme",
			Role:         "Engineer",
			Period:       "2020 - 2023",
			Description:  "Built things",
			DisplayOrder: 1,
		}
		form := ExperienceCodec{}.Hydrate(original)
		got, err := ExperienceCodec{}.Normalize(form)
		require.NoError(t, err)
		assert.Equal(t, original, got)
	})
}

func TestEducationCodec(t *testing.T) {
	t.Run("school is required", func(t *testing.T) {
		_, err := EducationCodec{}.Normalize(EducationForm{Degree: "BSc"})
		var verr *faults.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "school", verr.Field)
	})
}

func TestSkillCodec(t *testing.T) {
	t.Run("defaults start in the languages category", func(t *testing.T) {
		assert.Equal(t, "Languages", SkillCodec{}.Defaults().Category)
	})

	t.Run("blank category falls back to languages", func(t *testing.T) {
		skill, err := SkillCodec{}.Normalize(SkillForm{Name: "Go", Category: "  "})
		require.NoError(t, err)
		assert.Equal(t, "Languages", skill.Category)
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := SkillCodec{}.Normalize(SkillForm{Category: "Tools"})
		var verr *faults.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
	})
}

func TestSocialCodec(t *testing.T) {
	t.Run("platform is required", func(t *testing.T) {
		_, err := SocialCodec{}.Normalize(SocialForm{URL: "https://example.com"})
		var verr *faults.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "platform", verr.Field)
	})
}

func TestMessageCodec(t *testing.T) {
	valid := MessageForm{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: " Hello ",
		Content: "I would like to talk.",
	}

	t.Run("valid intake stamps the creation time", func(t *testing.T) {
		msg, err := MessageCodec{}.Normalize(valid)
		require.NoError(t, err)
		assert.Equal(t, "Hello", msg.Subject)
		assert.False(t, msg.CreatedAt.IsZero())
		assert.False(t, msg.IsRead)
	})

	t.Run("required fields", func(t *testing.T) {
		tests := []struct {
			name  string
			form  MessageForm
			field string
		}{
			{"missing name", MessageForm{Email: valid.Email, Content: valid.Content}, "name"},
			{"missing email", MessageForm{Name: valid.Name, Content: valid.Content}, "email"},
			{"malformed email", MessageForm{Name: valid.Name, Email: "not-an-email", Content: valid.Content}, "email"},
			{"missing content", MessageForm{Name: valid.Name, Email: valid.Email}, "content"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := MessageCodec{}.Normalize(tt.form)
				var verr *faults.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.field, verr.Field)
			})
		}
	})
}
