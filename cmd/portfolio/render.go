package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"portfolio-backend/internal/bootstrap"
	"portfolio-backend/internal/cvgen"
	"portfolio-backend/internal/cvrender"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/shared/config"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a CV to a PDF file",
	Long:  "Renders the portfolio content into a one-page PDF, then reads the file back to check it has a single page and carries the profile name.",
	RunE:  runRender,
}

type renderParams struct {
	ContentFile       string
	Out               string
	Language          string
	Format            string
	Theme             string
	IncludeSkills     bool
	IncludeProjects   bool
	IncludeExperience bool
	Date              time.Time
}

var renderFlags renderParams

func init() {
	renderCmd.Flags().StringVarP(&renderFlags.ContentFile, "content", "c", "", "Content document (default: CONTENT_FILE or the embedded default)")
	renderCmd.Flags().StringVarP(&renderFlags.Out, "out", "o", "", "Output PDF path (default: <prefix>-<format>-<lang>-<date>.pdf)")
	renderCmd.Flags().StringVarP(&renderFlags.Language, "lang", "l", portfolio.LangPrimary, "Language (es or en)")
	renderCmd.Flags().StringVar(&renderFlags.Format, "format", cvgen.DefaultFormat, "Layout variant")
	renderCmd.Flags().StringVar(&renderFlags.Theme, "theme", cvgen.DefaultTheme, "Visual theme")
	renderCmd.Flags().BoolVar(&renderFlags.IncludeSkills, "skills", true, "Include skills")
	renderCmd.Flags().BoolVar(&renderFlags.IncludeProjects, "projects", true, "Include projects")
	renderCmd.Flags().BoolVar(&renderFlags.IncludeExperience, "experience", true, "Include experience")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	p := renderFlags
	if p.ContentFile == "" {
		p.ContentFile = cfg.ContentFile
	}
	p.Date = time.Now()
	if p.Out == "" {
		p.Out = cvgen.Filename(cfg.CV.FilePrefix, p.Format, portfolio.ResolveLanguage(p.Language), p.Date)
	}

	info, size, err := renderToFile(cmd.Context(), p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d page)\n", p.Out, humanize.IBytes(uint64(size)), info.Pages)
	return nil
}

// renderToFile renders the content at p.ContentFile to p.Out and checks the
// written file with a PDF reader.
func renderToFile(ctx context.Context, p renderParams) (cvrender.Inspection, int, error) {
	content, err := bootstrap.LoadContent(p.ContentFile)
	if err != nil {
		return cvrender.Inspection{}, 0, err
	}
	svc := &portfolio.Service{Repo: portfolio.NewMemoryRepo(content)}
	lang := portfolio.ResolveLanguage(p.Language)
	bundle, err := svc.Bundle(ctx, portfolio.BundleRequest{
		Language:          lang,
		IncludeSkills:     p.IncludeSkills,
		IncludeProjects:   p.IncludeProjects,
		IncludeExperience: p.IncludeExperience,
	})
	if err != nil {
		return cvrender.Inspection{}, 0, fmt.Errorf("assemble bundle: %w", err)
	}

	doc, err := cvrender.NewEngine().Render(ctx, bundle, cvrender.Options{
		Language: lang,
		Theme:    p.Theme,
		Layout:   p.Format,
		Date:     p.Date,
	})
	if err != nil {
		return cvrender.Inspection{}, 0, err
	}

	if dir := filepath.Dir(p.Out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cvrender.Inspection{}, 0, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(p.Out, doc.Bytes, 0o644); err != nil {
		return cvrender.Inspection{}, 0, fmt.Errorf("write pdf: %w", err)
	}

	written, err := os.ReadFile(p.Out)
	if err != nil {
		return cvrender.Inspection{}, 0, fmt.Errorf("read back pdf: %w", err)
	}
	info, err := cvrender.Inspect(written)
	if err != nil {
		return cvrender.Inspection{}, 0, fmt.Errorf("inspect pdf: %w", err)
	}
	if info.Pages != 1 {
		return info, len(written), fmt.Errorf("expected a single page, got %d", info.Pages)
	}
	if name := bundle.Personal.Name; name != "" && !strings.Contains(info.Text, name) {
		return info, len(written), fmt.Errorf("rendered pdf does not contain %q", name)
	}
	return info, len(written), nil
}
