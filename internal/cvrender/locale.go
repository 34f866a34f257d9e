package cvrender

import (
	"fmt"
	"strings"
	"time"

	"portfolio-backend/internal/portfolio"
)

type locale struct {
	PersonalInfo string
	Summary      string
	Skills       string
	Experience   string
	Projects     string
	Professional string
	Footer       string
	Other        string
	Categories   map[string]string
	formatDate   func(time.Time) string
}

var locales = map[string]locale{
	"es": {
		PersonalInfo: "Información Personal",
		Summary:      "Resumen",
		Skills:       "Habilidades",
		Experience:   "Experiencia",
		Projects:     "Proyectos",
		Professional: "Profesional",
		Footer:       "CV generado dinámicamente",
		Other:        "Otros",
		Categories: map[string]string{
			"backend":  "Backend & APIs",
			"frontend": "Frontend & UI",
			"database": "Bases de Datos",
			"tools":    "Herramientas",
			"ocr":      "OCR & Visión Computacional",
			"devops":   "DevOps & Cloud",
		},
		formatDate: func(t time.Time) string {
			return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
		},
	},
	"en": {
		PersonalInfo: "Personal Info",
		Summary:      "Summary",
		Skills:       "Skills",
		Experience:   "Experience",
		Projects:     "Projects",
		Professional: "Professional",
		Footer:       "Dynamically generated CV",
		Other:        "Other",
		Categories: map[string]string{
			"backend":  "Backend & APIs",
			"frontend": "Frontend & UI",
			"database": "Databases",
			"tools":    "Tools",
			"ocr":      "OCR & Computer Vision",
			"devops":   "DevOps & Cloud",
		},
		formatDate: func(t time.Time) string {
			return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
		},
	},
}

func localeFor(lang string) locale {
	if l, ok := locales[portfolio.ResolveLanguage(lang)]; ok {
		return l
	}
	return locales[portfolio.LangPrimary]
}

// category returns the display heading for a skill category. Unknown
// categories are shown as given and a blank one gets the Other heading.
func (l locale) category(name string) string {
	key := portfolio.CategoryKey(name)
	if key == "" {
		return l.Other
	}
	if label, ok := l.Categories[key]; ok {
		return label
	}
	return strings.TrimSpace(name)
}

func (l locale) footer(date time.Time) string {
	return l.Footer + " • " + l.formatDate(date)
}
