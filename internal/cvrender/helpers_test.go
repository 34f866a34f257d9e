package cvrender

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"portfolio-backend/internal/portfolio"
)

var fixedDate = time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)

func testMeasure() measureFunc {
	doc := fpdf.New("P", "mm", "A4", "")
	return fpdfMeasure(doc, doc.UnicodeTranslatorFromDescriptor(""))
}

func testPlan(b portfolio.Bundle, lang string) page {
	return planPage(b, localeFor(lang), fixedDate, testMeasure())
}

func sampleBundle() portfolio.Bundle {
	skills := make([]portfolio.Skill, 0, 9)
	for i, cat := range []string{"backend", "frontend", "database"} {
		for j := 0; j < 3; j++ {
			skills = append(skills, portfolio.Skill{
				Name:     fmt.Sprintf("Skill %d-%d", i, j),
				Level:    50 + 10*j,
				Category: cat,
			})
		}
	}
	projects := make([]portfolio.Project, 0, 4)
	for i := 0; i < 4; i++ {
		projects = append(projects, portfolio.Project{
			Title:        fmt.Sprintf("Project %d", i),
			Description:  "A service that turns scanned documents into structured records.",
			Technologies: []string{"Go", "PostgreSQL"},
			Status:       portfolio.StatusCompleted,
		})
	}
	return portfolio.Bundle{
		Personal: portfolio.Personal{
			Name:     "Ada Lovelace",
			Title:    "Backend Engineer",
			Email:    "ada@example.com",
			Location: "London",
			GitHub:   "github.com/ada",
			LinkedIn: "linkedin.com/in/ada",
			Summary:  "Engineer who enjoys small, observable services and careful data modelling.",
			Tag:      "@ada",
		},
		Skills:   skills,
		Projects: projects,
		Experience: []portfolio.Experience{
			{
				Company:      "Analytical Engines",
				Position:     "Senior Engineer",
				Period:       "2022 - Present",
				Description:  "Owns the tracking APIs.",
				Achievements: []string{"Cut latency by 80%.", "Automated document intake."},
			},
			{
				Company:     "Difference Ltd",
				Position:    "Developer",
				Period:      "2019 - 2022",
				Description: "Built web applications.",
			},
		},
	}
}
