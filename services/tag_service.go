package services

import (
	"sort"

	"github.com/dslans/bot-aitools/config"
	"github.com/dslans/bot-aitools/repositories"
)

// TagCatalog splits the visible vocabulary into the curated core set and the
// community additions, each with usage counts from live entries.
type TagCatalog struct {
	Core      []TagUsage
	Community []TagUsage
}

type TagUsage struct {
	Tag   string
	Count int
}

type TagService interface {
	Catalog() (*TagCatalog, error)
}

type tagService struct {
	entries       repositories.EntryRepository
	communityTags repositories.CommunityTagRepository
}

func NewTagService(entries repositories.EntryRepository, communityTags repositories.CommunityTagRepository) TagService {
	return &tagService{entries: entries, communityTags: communityTags}
}

// Catalog reports core tags that are in use plus every community tag, used
// or approved. An approved community tag with zero entries still shows so
// users know it exists.
func (s *tagService) Catalog() (*TagCatalog, error) {
	freqs, err := s.entries.TagFrequencies()
	if err != nil {
		return nil, err
	}
	approved, err := s.communityTags.AllTags()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(freqs))
	for _, f := range freqs {
		counts[f.Tag] = f.Frequency
	}

	catalog := &TagCatalog{}
	seen := map[string]bool{}

	for _, f := range freqs {
		if config.IsCoreTag(f.Tag) {
			catalog.Core = append(catalog.Core, TagUsage{Tag: f.Tag, Count: f.Frequency})
		} else {
			catalog.Community = append(catalog.Community, TagUsage{Tag: f.Tag, Count: f.Frequency})
			seen[f.Tag] = true
		}
	}

	for _, tag := range approved {
		if !seen[tag] && !config.IsCoreTag(tag) {
			catalog.Community = append(catalog.Community, TagUsage{Tag: tag, Count: counts[tag]})
		}
	}

	sort.Slice(catalog.Community, func(i, j int) bool {
		if catalog.Community[i].Count != catalog.Community[j].Count {
			return catalog.Community[i].Count > catalog.Community[j].Count
		}
		return catalog.Community[i].Tag < catalog.Community[j].Tag
	})

	return catalog, nil
}
