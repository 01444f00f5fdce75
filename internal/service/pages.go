package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/templui/cosmicblog/internal/markdown"
	"github.com/templui/cosmicblog/internal/model"
)

var ErrPageNotFound = errors.New("page not found")

// PageService serves the markdown pages under <content>/pages.
type PageService struct {
	contentDir string
	reload     bool
	parser     *markdown.Parser

	mu    sync.RWMutex
	pages map[string]*model.StaticPage
}

// NewPageService reads pages from contentDir/pages. With reload set, every
// lookup rereads the directory so edits show up without a restart.
func NewPageService(contentDir string, parser *markdown.Parser, reload bool) *PageService {
	return &PageService{
		contentDir: filepath.Join(contentDir, "pages"),
		reload:     reload,
		parser:     parser,
		pages:      make(map[string]*model.StaticPage),
	}
}

func (s *PageService) LoadPages() error {
	files, err := os.ReadDir(s.contentDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read pages directory: %w", err)
	}

	pages := make(map[string]*model.StaticPage, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}

		slug := strings.TrimSuffix(file.Name(), ".md")
		page, err := s.loadPage(slug)
		if err != nil {
			return fmt.Errorf("failed to load page %s: %w", slug, err)
		}

		pages[slug] = page
	}

	s.mu.Lock()
	s.pages = pages
	s.mu.Unlock()
	return nil
}

func (s *PageService) loadPage(slug string) (*model.StaticPage, error) {
	filePath := filepath.Join(s.contentDir, slug+".md")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	html, matter, err := s.parser.ParsePage(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	title := matter.Title
	if title == "" {
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}
	var lastUpdated string
	if matter.LastUpdated != nil {
		lastUpdated = parseDate(matter.LastUpdated)
	}
	if lastUpdated == "" {
		lastUpdated = info.ModTime().Format("January 2, 2006")
	}

	return &model.StaticPage{
		Title:       title,
		Slug:        slug,
		Description: matter.Description,
		HTMLContent: string(html),
		LastUpdated: lastUpdated,
	}, nil
}

func (s *PageService) Page(slug string) (*model.StaticPage, error) {
	if s.reload {
		err := s.LoadPages()
		if err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.pages[slug]
	if !ok {
		return nil, ErrPageNotFound
	}
	return page, nil
}

// Pages lists every loaded page ordered by slug.
func (s *PageService) Pages() []*model.StaticPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages := make([]*model.StaticPage, 0, len(s.pages))
	for _, page := range s.pages {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Slug < pages[j].Slug
	})
	return pages
}

// parseDate accepts the date layouts authors tend to type in front matter.
func parseDate(value any) string {
	var dateStr string

	switch v := value.(type) {
	case string:
		dateStr = v
	case time.Time:
		return v.Format("January 2, 2006")
	default:
		return ""
	}

	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"02.01.2006",
		"01/02/2006",
		"Jan 2, 2006",
		"January 2, 2006",
		time.RFC3339,
	}

	for _, format := range formats {
		t, err := time.Parse(format, dateStr)
		if err == nil {
			return t.Format("January 2, 2006")
		}
	}

	return dateStr
}
