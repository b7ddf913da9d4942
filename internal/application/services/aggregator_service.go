package services

import (
	"context"
	"strings"

	"github.com/foliostack/foliostack-go/internal/domain/entities/content"
	"github.com/foliostack/foliostack-go/internal/domain/repositories"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"golang.org/x/sync/errgroup"
)

// SkillGroups maps a lower-cased category bucket to an ordered list of
// skill names. Order within a bucket follows the store's ascending
// display_order result; the aggregator performs no re-sorting.
type SkillGroups map[string][]string

// SocialMap maps a lower-cased platform name to a single URL. When two
// records share a platform the last one returned by the store wins; with
// equal display_order values that order is store-native and not guaranteed
// stable.
type SocialMap map[string]string

// ContentSnapshot is the aggregated, read-only view of all public-facing
// collections. It is rebuilt wholesale on each fetch and never partially
// mutated by consumers.
type ContentSnapshot struct {
	Projects   []content.Project    `json:"projects"`
	Experience []content.Experience `json:"experience"`
	Education  []content.Education  `json:"education"`
	Skills     SkillGroups          `json:"skills"`
	Socials    SocialMap            `json:"socials"`
	Loading    bool                 `json:"loading"`
}

// ContentAggregator fetches all public-facing collections in parallel and
// normalizes the categorical groupings.
type ContentAggregator struct {
	projects    repositories.Store[content.Project]
	experiences repositories.Store[content.Experience]
	education   repositories.Store[content.Education]
	skills      repositories.Store[content.Skill]
	socials     repositories.Store[content.Social]
	logger      *logging.ChanneledLogger
}

// NewContentAggregator creates a new content aggregation service.
func NewContentAggregator(
	projects repositories.Store[content.Project],
	experiences repositories.Store[content.Experience],
	education repositories.Store[content.Education],
	skills repositories.Store[content.Skill],
	socials repositories.Store[content.Social],
	logger *logging.ChanneledLogger,
) *ContentAggregator {
	return &ContentAggregator{
		projects:    projects,
		experiences: experiences,
		education:   education,
		skills:      skills,
		socials:     socials,
		logger:      logger,
	}
}

// BuildSnapshot issues the five collection queries concurrently and joins on
// all of them before producing a non-loading snapshot. If any query fails
// the whole aggregation is treated as failed: the error is logged and an
// empty-but-stable snapshot is returned so the public page degrades to "no
// content" rather than rendering mixed partial state.
func (a *ContentAggregator) BuildSnapshot(ctx context.Context) ContentSnapshot {
	var (
		projects    []content.Project
		experiences []content.Experience
		education   []content.Education
		skills      []content.Skill
		socials     []content.Social
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { projects, err = a.projects.List(ctx); return })
	g.Go(func() (err error) { experiences, err = a.experiences.List(ctx); return })
	g.Go(func() (err error) { education, err = a.education.List(ctx); return })
	g.Go(func() (err error) { skills, err = a.skills.List(ctx); return })
	g.Go(func() (err error) { socials, err = a.socials.List(ctx); return })

	if err := g.Wait(); err != nil {
		a.logger.Content().Error("Portfolio aggregation failed", "error", err.Error())
		return EmptySnapshot()
	}

	return ContentSnapshot{
		Projects:   projects,
		Experience: experiences,
		Education:  education,
		Skills:     GroupSkills(skills),
		Socials:    BuildSocialMap(socials),
		Loading:    false,
	}
}

// EmptySnapshot returns the stable degraded snapshot: default-empty
// collections with loading already settled.
func EmptySnapshot() ContentSnapshot {
	return ContentSnapshot{
		Projects:   []content.Project{},
		Experience: []content.Experience{},
		Education:  []content.Education{},
		Skills:     emptySkillGroups(),
		Socials:    SocialMap{},
		Loading:    false,
	}
}

// bucketRule pairs a category predicate with its target bucket. Rules are
// evaluated top-down; the first match wins.
type bucketRule struct {
	matches func(category string) bool
	bucket  string
}

var bucketRules = []bucketRule{
	{func(c string) bool { return strings.Contains(c, "language") }, "languages"},
	{func(c string) bool { return strings.Contains(c, "framework") }, "frameworks"},
	{func(c string) bool { return strings.Contains(c, "tool") || strings.Contains(c, "devops") }, "tools"},
}

func emptySkillGroups() SkillGroups {
	return SkillGroups{
		"languages":  {},
		"frameworks": {},
		"tools":      {},
		"other":      {},
	}
}

// GroupSkills buckets raw skill records. For each record the target bucket
// is resolved in order: exact match on an existing bucket key, then the
// substring rules, then a dynamic bucket named by the raw lower-cased
// category. A record without a category lands in "other". Every skill ends
// up in exactly one bucket.
func GroupSkills(skills []content.Skill) SkillGroups {
	groups := emptySkillGroups()

	for _, skill := range skills {
		category := strings.ToLower(strings.TrimSpace(skill.Category))
		if category == "" {
			category = "other"
		}

		bucket := category
		if _, exists := groups[category]; !exists {
			bucket = ""
			for _, rule := range bucketRules {
				if rule.matches(category) {
					bucket = rule.bucket
					break
				}
			}
			if bucket == "" {
				bucket = category
			}
		}

		groups[bucket] = append(groups[bucket], skill.Name)
	}

	return groups
}

// BuildSocialMap collapses social records into a platform -> URL map in
// returned order, overwriting duplicates (last write wins).
func BuildSocialMap(socials []content.Social) SocialMap {
	result := SocialMap{}
	for _, social := range socials {
		result[strings.ToLower(social.Platform)] = social.URL
	}
	return result
}
