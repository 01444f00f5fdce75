package cmd

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/templui/cosmicblog/internal/app"
	"github.com/templui/cosmicblog/internal/config"
	"github.com/templui/cosmicblog/internal/model"
	"github.com/templui/cosmicblog/internal/service"
)

const (
	dateLayout  = "2006-01-02"
	cellLimit   = 60
	excerptSize = 200
)

// ContentLoader builds the content service the subcommands query.
type ContentLoader func() (*service.ContentService, error)

// ContentCmd queries the configured bucket through the same service the
// server uses, so listings match what the site renders.
func ContentCmd() *cobra.Command {
	return NewContentCmd(func() (*service.ContentService, error) {
		a, err := app.New(config.Load())
		if err != nil {
			return nil, err
		}
		return a.ContentService, nil
	})
}

func NewContentCmd(load ContentLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect posts, categories and authors in the content bucket",
	}

	cmd.AddCommand(
		contentPostsCmd(load),
		contentPostCmd(load),
		contentCategoriesCmd(load),
		contentAuthorsCmd(load),
	)
	return cmd
}

func contentPostsCmd(load ContentLoader) *cobra.Command {
	var category, author string

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if category != "" && author != "" {
				return fmt.Errorf("--category and --author cannot be combined")
			}

			content, err := load()
			if err != nil {
				return err
			}

			posts, err := listPosts(cmd.Context(), content, category, author)
			if err != nil {
				return err
			}

			renderPosts(cmd.OutOrStdout(), posts)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only posts in the category with this slug")
	cmd.Flags().StringVar(&author, "author", "", "only posts by the author with this slug")
	return cmd
}

func listPosts(ctx context.Context, content *service.ContentService, category, author string) ([]*model.Post, error) {
	switch {
	case category != "":
		return content.PostsByCategory(ctx, category)
	case author != "":
		return content.PostsByAuthor(ctx, author)
	default:
		return content.Posts(ctx)
	}
}

func contentPostCmd(load ContentLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "post <slug>",
		Short: "Show a single post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := load()
			if err != nil {
				return err
			}

			post, err := content.PostBySlug(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if post == nil {
				return fmt.Errorf("post %q not found", args[0])
			}

			renderPost(cmd.OutOrStdout(), post)
			return nil
		},
	}
}

func contentCategoriesCmd(load ContentLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := load()
			if err != nil {
				return err
			}

			categories, err := content.Categories(cmd.Context())
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Slug", "Name", "Description"})
			for _, c := range categories {
				t.AppendRow(table.Row{c.Slug, model.CategoryName(c), clip(c.Metadata.Description, cellLimit)})
			}
			t.AppendFooter(table.Row{"", "Total", len(categories)})
			t.Render()
			return nil
		},
	}
}

func contentAuthorsCmd(load ContentLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "authors",
		Short: "List authors by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := load()
			if err != nil {
				return err
			}

			authors, err := content.Authors(cmd.Context())
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Slug", "Name", "Avatar", "Bio"})
			for _, a := range authors {
				t.AppendRow(table.Row{a.Slug, model.AuthorName(a), yesNo(model.AuthorAvatarURL(a) != ""), clip(a.Metadata.Bio, cellLimit)})
			}
			t.AppendFooter(table.Row{"", "Total", len(authors), ""})
			t.Render()
			return nil
		},
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderPosts(w io.Writer, posts []*model.Post) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Date", "Slug", "Title", "Category", "Author"})
	for _, p := range posts {
		category, author := "-", "-"
		if p.Metadata.Category != nil {
			category = model.CategoryName(p.Metadata.Category)
		}
		if p.Metadata.Author != nil {
			author = model.AuthorName(p.Metadata.Author)
		}
		t.AppendRow(table.Row{p.EffectiveDate().Format(dateLayout), p.Slug, clip(p.Title, cellLimit), category, author})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(posts), ""})
	t.Render()
}

func renderPost(w io.Writer, p *model.Post) {
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"ID", p.ID},
		{"Slug", p.Slug},
		{"Title", p.Title},
		{"Date", p.EffectiveDate().Format(dateLayout)},
		{"Category", model.CategoryName(p.Metadata.Category)},
		{"Author", model.AuthorName(p.Metadata.Author)},
		{"Image", model.FeaturedImageURL(p)},
		{"Length", fmt.Sprintf("%d characters", utf8.RuneCountInString(p.Metadata.Content))},
		{"Excerpt", clip(p.Metadata.Content, excerptSize)},
	})
	t.Render()
}

// clip shortens s to n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
