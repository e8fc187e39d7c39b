package services

import (
	"context"
	"fmt"
	"github.com/maxaizer/jobboard/internal/domain/models"
	gocache "github.com/patrickmn/go-cache"
	"slices"
	"strings"
	"time"
)

const (
	skillsCacheKey = "skills"
	skillsPageSize = 100
)

type skillsClient interface {
	ListSkills(ctx context.Context, page, pageSize int) ([]models.Skill, int, error)
}

// SkillCatalog provides the skill options of the search form.
type SkillCatalog struct {
	client skillsClient
	cache  *gocache.Cache
}

func NewSkillCatalog(client skillsClient, ttl time.Duration) *SkillCatalog {
	return &SkillCatalog{client: client, cache: gocache.New(ttl, 2*ttl)}
}

func (s *SkillCatalog) All(ctx context.Context) ([]models.Skill, error) {
	if cached, found := s.cache.Get(skillsCacheKey); found {
		return slices.Clone(cached.([]models.Skill)), nil
	}

	var skills []models.Skill
	for page := 1; ; page++ {
		items, pages, err := s.client.ListSkills(ctx, page, skillsPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load skills page %d: %w", page, err)
		}
		skills = append(skills, items...)

		if len(items) == 0 || page >= pages {
			break
		}
	}

	slices.SortFunc(skills, func(a, b models.Skill) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	s.cache.Set(skillsCacheKey, skills, gocache.DefaultExpiration)
	return slices.Clone(skills), nil
}
