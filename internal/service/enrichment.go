package service

import (
	"context"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/outreach-api/internal/model"
)

const (
	maxSnippetChars = 400
	dedupKeyChars   = 100
	projectsBudget  = 2000
	vmgBudget       = 1200
	resultsPerQuery = 5
)

// CompanyCache holds enrichment results for one session. Entries are
// written once per company and never refreshed; empty project and
// vision/mission/goals results are not stored so they are retried.
type CompanyCache struct {
	descriptions map[string]string
	projects     map[string][]string
	vmg          map[string][]string
}

func NewCompanyCache() *CompanyCache {
	return &CompanyCache{
		descriptions: make(map[string]string),
		projects:     make(map[string][]string),
		vmg:          make(map[string][]string),
	}
}

func cacheKey(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}

// Enrichment is a company profile plus the non-fatal conditions hit while building it
type Enrichment struct {
	Profile model.CompanyProfile
	Notices []*Error
}

// Enricher fetches and normalizes public information about a company
type Enricher struct {
	search Searcher
}

func NewEnricher(search Searcher) *Enricher {
	return &Enricher{search: search}
}

// Enrich builds a company profile from three sequential sub-queries.
// Search failures degrade to empty fields and are reported as notices.
func (e *Enricher) Enrich(ctx context.Context, cache *CompanyCache, company string) Enrichment {
	company = strings.TrimSpace(company)
	out := Enrichment{Profile: model.CompanyProfile{Name: company}}

	if company == "" {
		out.Notices = append(out.Notices, &Error{Kind: KindNoResultsFound, Field: "company", Message: "company name is empty"})
		return out
	}
	if e.search == nil {
		out.Notices = append(out.Notices, &Error{
			Kind:    KindMissingCredential,
			Message: "no search provider configured (set TAVILY_API_KEY or GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_ENGINE_ID)",
		})
		return out
	}

	key := cacheKey(company)

	// Overview: cached even when empty
	if desc, ok := cache.descriptions[key]; ok {
		out.Profile.Description = desc
	} else {
		out.Profile.Description = e.fetchDescription(ctx, company)
		cache.descriptions[key] = out.Profile.Description
	}

	if projects, ok := cache.projects[key]; ok {
		out.Profile.Projects = model.CloneStrings(projects)
	} else {
		out.Profile.Projects = e.fetchMulti(ctx, []string{
			company + " ongoing projects",
			company + " recent projects and initiatives",
		}, projectsBudget)
		if len(out.Profile.Projects) > 0 {
			cache.projects[key] = model.CloneStrings(out.Profile.Projects)
		}
	}

	if vmg, ok := cache.vmg[key]; ok {
		out.Profile.VisionMissionGoals = model.CloneStrings(vmg)
	} else {
		out.Profile.VisionMissionGoals = e.fetchMulti(ctx, []string{
			company + " vision and mission",
			company + " company goals and values",
		}, vmgBudget)
		if len(out.Profile.VisionMissionGoals) > 0 {
			cache.vmg[key] = model.CloneStrings(out.Profile.VisionMissionGoals)
		}
	}

	if out.Profile.Description == "" {
		out.Notices = append(out.Notices, noResults("description", company))
	}
	if len(out.Profile.Projects) == 0 {
		out.Notices = append(out.Notices, noResults("projects", company))
	}
	if len(out.Profile.VisionMissionGoals) == 0 {
		out.Notices = append(out.Notices, noResults("vision_mission_goals", company))
	}

	log.Info().
		Str("company", company).
		Bool("hasDescription", out.Profile.Description != "").
		Int("projects", len(out.Profile.Projects)).
		Int("visionMissionGoals", len(out.Profile.VisionMissionGoals)).
		Msg("Company enriched")

	return out
}

func noResults(field, company string) *Error {
	return &Error{Kind: KindNoResultsFound, Field: field, Message: "no " + strings.ReplaceAll(field, "_", "/") + " found for " + company}
}

// fetchDescription returns the first result's cleaned snippet, if any
func (e *Enricher) fetchDescription(ctx context.Context, company string) string {
	results, err := e.search.Search(ctx, company+" company overview", 1)
	if err != nil {
		log.Warn().Err(err).Str("company", company).Msg("Company overview search failed")
		return ""
	}
	if len(results) == 0 {
		return ""
	}
	return cleanSnippet(results[0].Snippet)
}

// fetchMulti runs queries in order, keeping cleaned snippets that are not
// duplicates by their lowercased first 100 characters. Each kept snippet is
// cut to 400 characters and the running total never exceeds budget.
func (e *Enricher) fetchMulti(ctx context.Context, queries []string, budget int) []string {
	seen := make(map[string]bool)
	var out []string
	total := 0

	for _, q := range queries {
		results, err := e.search.Search(ctx, q, resultsPerQuery)
		if err != nil {
			log.Warn().Err(err).Str("query", q).Msg("Enrichment search failed")
			continue
		}

		for _, r := range results {
			s := cleanSnippet(r.Snippet)
			if s == "" {
				continue
			}

			key := strings.ToLower(truncateRunes(s, dedupKeyChars))
			if seen[key] {
				continue
			}
			seen[key] = true

			s = truncateRunes(s, maxSnippetChars)
			if remaining := budget - total; utf8.RuneCountInString(s) > remaining {
				s = truncateRunes(s, remaining)
			}
			out = append(out, s)
			total += utf8.RuneCountInString(s)

			if total >= budget {
				break
			}
		}
		if total >= budget {
			break
		}
	}

	return out
}

// cleanSnippet strips markup, decodes entities and trims whitespace
func cleanSnippet(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(s))
	}
	return strings.TrimSpace(doc.Text())
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
