// Package mcp exposes the catime catalog over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/character"
	"tableflip.dev/catime/pkg/gallery"
)

// ErrCatNotFound is returned when a number is not part of the working set.
var ErrCatNotFound = errors.New("cat not found")

// Feed is the part of the feed client the service reads.
type Feed interface {
	WorkingSet(ctx context.Context) ([]catalog.Item, error)
	Details(ctx context.Context, group string) ([]catalog.Detail, error)
	Likes(ctx context.Context) catalog.Likes
	Comments(ctx context.Context) catalog.Comments
	character.Fetcher
}

// Service answers catalog queries shared by the MCP tools and resources.
type Service struct {
	Feed Feed

	mu  sync.Mutex
	rnd *rand.Rand
}

// SearchOptions selects cats for SearchCats.
type SearchOptions struct {
	Filter gallery.Filter
	Limit  int
}

// CatDTO is a transport-friendly projection of a cat.
type CatDTO struct {
	Number      int             `json:"number"`
	Title       string          `json:"title,omitempty"`
	Timestamp   string          `json:"timestamp"`
	Month       string          `json:"month"`
	URL         string          `json:"url"`
	Model       string          `json:"model,omitempty"`
	Character   string          `json:"character,omitempty"`
	Tag         string          `json:"tag,omitempty"`
	Inspiration string          `json:"inspiration,omitempty"`
	News        bool            `json:"news"`
	Likes       int             `json:"likes"`
	CommentURL  string          `json:"commentUrl,omitempty"`
	Detail      *catalog.Detail `json:"detail,omitempty"`
}

// SearchResult is the page of cats matching a search.
type SearchResult struct {
	Total int      `json:"total"`
	Count int      `json:"count"`
	Cats  []CatDTO `json:"cats"`
}

// MonthSummary counts the cats of one "YYYY-MM" group.
type MonthSummary struct {
	Month string `json:"month"`
	Cats  int    `json:"cats"`
}

// CatalogSummary describes the working set.
type CatalogSummary struct {
	Total      int            `json:"total"`
	Latest     *CatDTO        `json:"latest,omitempty"`
	Models     []string       `json:"models"`
	Characters []string       `json:"characters"`
	Months     []MonthSummary `json:"months"`
}

// NewService builds a service reading from f.
func NewService(f Feed) *Service {
	return &Service{Feed: f, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *Service) items(ctx context.Context) ([]catalog.Item, error) {
	if s.Feed == nil {
		return nil, errors.New("feed is not configured")
	}
	return s.Feed.WorkingSet(ctx)
}

// Summary returns the size of the catalog, its newest cat and the filter
// options.
func (s *Service) Summary(ctx context.Context) (*CatalogSummary, error) {
	items, err := s.items(ctx)
	if err != nil {
		return nil, err
	}
	out := &CatalogSummary{
		Total:      len(items),
		Models:     nonNil(gallery.Models(items)),
		Characters: nonNil(gallery.Characters(items)),
		Months:     months(items),
	}
	if len(items) > 0 {
		latest := toDTO(items[0], s.Feed.Likes(ctx), s.Feed.Comments(ctx))
		out.Latest = &latest
	}
	return out, nil
}

// SearchCats returns the cats matching opts, newest first.
func (s *Service) SearchCats(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	items, err := s.items(ctx)
	if err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	matched := gallery.Compute(items, opts.Filter)
	likes, comments := s.Feed.Likes(ctx), s.Feed.Comments(ctx)
	res := &SearchResult{Total: len(matched), Cats: make([]CatDTO, 0, min(limit, len(matched)))}
	for _, item := range matched {
		if len(res.Cats) >= limit {
			break
		}
		res.Cats = append(res.Cats, toDTO(item, likes, comments))
	}
	res.Count = len(res.Cats)
	return res, nil
}

// Cat returns one cat with its detail record.
func (s *Service) Cat(ctx context.Context, number int) (*CatDTO, error) {
	items, err := s.items(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := catalog.Find(items, number)
	if !ok {
		return nil, fmt.Errorf("%w: #%d", ErrCatNotFound, number)
	}
	return s.withDetail(ctx, item), nil
}

// RandomCat picks a cat matching f, or any cat when none match.
func (s *Service) RandomCat(ctx context.Context, f gallery.Filter) (*CatDTO, error) {
	items, err := s.items(ctx)
	if err != nil {
		return nil, err
	}
	pool := gallery.Compute(items, f)
	if len(pool) == 0 {
		pool = items
	}
	if len(pool) == 0 {
		return nil, errors.New("no cats yet")
	}
	s.mu.Lock()
	item := pool[s.rnd.Intn(len(pool))]
	s.mu.Unlock()
	return s.withDetail(ctx, item), nil
}

// Months lists the months that have cats, newest first.
func (s *Service) Months(ctx context.Context) ([]MonthSummary, error) {
	items, err := s.items(ctx)
	if err != nil {
		return nil, err
	}
	return months(items), nil
}

// Character loads a character profile and its gallery.
func (s *Service) Character(ctx context.Context, id string) (*character.Page, error) {
	if s.Feed == nil {
		return nil, errors.New("feed is not configured")
	}
	return character.Load(ctx, s.Feed, strings.ToLower(strings.TrimSpace(id)), nil)
}

func (s *Service) withDetail(ctx context.Context, item catalog.Item) *CatDTO {
	dto := toDTO(item, s.Feed.Likes(ctx), s.Feed.Comments(ctx))
	if details, err := s.Feed.Details(ctx, item.Group()); err == nil {
		if d := catalog.FindDetail(details, item.Number); !d.IsZero() {
			dto.Detail = &d
		}
	}
	return &dto
}

func toDTO(item catalog.Item, likes catalog.Likes, comments catalog.Comments) CatDTO {
	return CatDTO{
		Number:      item.Number,
		Title:       item.Title,
		Timestamp:   item.Timestamp,
		Month:       item.Group(),
		URL:         item.URL,
		Model:       item.Model,
		Character:   item.Character,
		Tag:         item.CharacterTag(),
		Inspiration: item.InspirationLabel(),
		News:        item.IsNews(),
		Likes:       likes.Count(item),
		CommentURL:  comments.URL(item),
	}
}

func months(items []catalog.Item) []MonthSummary {
	counts := gallery.MonthCounts(items)
	out := make([]MonthSummary, 0, len(counts))
	for _, year := range gallery.Timeline(items) {
		for _, m := range year.Months {
			out = append(out, MonthSummary{Month: m, Cats: counts[m]})
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
