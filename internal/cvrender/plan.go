package cvrender

import (
	"fmt"
	"math"
	"strings"
	"time"

	"portfolio-backend/internal/portfolio"
)

type elementKind int

const (
	rectElement elementKind = iota
	lineElement
	textElement
)

// role tags what an element draws so the page can be inspected without
// parsing the PDF.
type role string

const (
	roleHeaderBand      role = "header-band"
	roleName            role = "name"
	roleTag             role = "tag"
	roleTitle           role = "title"
	roleAccentRule      role = "accent-rule"
	roleSectionTitle    role = "section-title"
	roleSectionRule     role = "section-rule"
	roleContact         role = "contact"
	roleSummary         role = "summary"
	roleCategory        role = "category"
	roleSkillName       role = "skill-name"
	roleSkillTrack      role = "skill-track"
	roleSkillFill       role = "skill-fill"
	roleSkillPercent    role = "skill-percent"
	rolePosition        role = "experience-position"
	roleCompany         role = "experience-company"
	roleExperienceDesc  role = "experience-description"
	roleAchievementMark role = "achievement-marker"
	roleAchievement     role = "achievement"
	roleProjectTitle    role = "project-title"
	roleProjectDesc     role = "project-description"
	roleTechnologies    role = "project-technologies"
	roleFooterRule      role = "footer-rule"
	roleFooterText      role = "footer-text"
	roleFooterTag       role = "footer-tag"
)

// element is one drawing operation. Rects use X, Y, W, H; lines run from
// (X, Y) to (X2, Y2); text is placed with its baseline at Y.
type element struct {
	Kind      elementKind
	Role      role
	X, Y      float64
	W, H      float64
	X2, Y2    float64
	LineWidth float64
	Text      string
	Font      fontSpec
	Color     rgb
}

type metadata struct {
	Title    string
	Subject  string
	Author   string
	Keywords string
	Creator  string
}

type page struct {
	Elements []element
	Meta     metadata
	Clipped  bool
}

func (p page) byRole(r role) []element {
	var out []element
	for _, el := range p.Elements {
		if el.Role == r {
			out = append(out, el)
		}
	}
	return out
}

const creator = "Portfolio Dynamic CV Generator"

type planner struct {
	loc     locale
	date    time.Time
	measure measureFunc
	page    page
}

// planPage lays out the whole CV. It never reads or writes anything but
// its arguments, and the result always fits on one page.
func planPage(b portfolio.Bundle, loc locale, date time.Time, measure measureFunc) page {
	p := &planner{loc: loc, date: date, measure: measure}
	p.page.Meta = p.metadata(b)
	p.header(b.Personal)
	p.leftColumn(b)
	p.rightColumn(b)
	p.footer(b.Personal)
	return p.page
}

func (p *planner) metadata(b portfolio.Bundle) metadata {
	title := fmt.Sprintf("CV - %s - %s", b.Personal.Name, p.loc.Professional)
	keywords := []string{"CV"}
	for _, v := range []string{b.Personal.Name, b.Personal.Title} {
		if strings.TrimSpace(v) != "" {
			keywords = append(keywords, v)
		}
	}
	for _, s := range firstN(b.Skills, 5) {
		keywords = append(keywords, s.Name)
	}
	return metadata{
		Title:    title,
		Subject:  "Curriculum Vitae - " + title,
		Author:   b.Personal.Name,
		Keywords: strings.Join(keywords, ", "),
		Creator:  creator,
	}
}

// fixed adds header and footer elements, which are never clipped.
func (p *planner) fixed(el element) {
	if el.Kind == textElement && el.Text == "" {
		return
	}
	p.page.Elements = append(p.page.Elements, el)
}

// flow adds column content; anything starting below the content area is
// dropped.
func (p *planner) flow(el element) bool {
	if el.Y > contentBottom {
		p.page.Clipped = true
		return false
	}
	if el.Kind == textElement && el.Text == "" {
		return true
	}
	p.page.Elements = append(p.page.Elements, el)
	return true
}

func text(r role, x, y float64, s string, font fontSpec, color rgb) element {
	return element{Kind: textElement, Role: r, X: x, Y: y, Text: s, Font: font, Color: color}
}

func rect(r role, x, y, w, h float64, color rgb) element {
	return element{Kind: rectElement, Role: r, X: x, Y: y, W: w, H: h, Color: color}
}

func line(r role, x1, y1, x2, y2, width float64, color rgb) element {
	return element{Kind: lineElement, Role: r, X: x1, Y: y1, X2: x2, Y2: y2, LineWidth: width, Color: color}
}

func (p *planner) header(info portfolio.Personal) {
	p.fixed(rect(roleHeaderBand, 0, 0, pageWidth, headerHeight, colorPrimary))
	p.fixed(text(roleName, marginX, nameY, info.Name, fontName, colorWhite))
	p.fixed(text(roleTag, tagX, nameY, info.Tag, fontTag, colorAccent))
	p.fixed(text(roleTitle, marginX, titleY, info.Title, fontTitle, colorWhite))
	p.fixed(line(roleAccentRule, marginX, accentRuleY, ruleEndX, accentRuleY, 2, colorAccent))
}

func (p *planner) footer(info portfolio.Personal) {
	p.fixed(line(roleFooterRule, marginX, footerRuleY, ruleEndX, footerRuleY, 1, colorPrimary))
	p.fixed(text(roleFooterText, marginX, footerTextY, p.loc.footer(p.date), fontFooter, colorMuted))
	p.fixed(text(roleFooterTag, footerTagX, footerTextY, info.Tag, fontFooter, colorAccent))
}

// sectionTitle draws a heading with its rule and returns the next y.
func (p *planner) sectionTitle(x, y float64, title string, ruleLength float64) float64 {
	p.flow(text(roleSectionTitle, x, y, title, fontSection, colorPrimary))
	y += 7
	p.flow(line(roleSectionRule, x, y-2, x+ruleLength, y-2, 0.5, colorAccent))
	return y + 2
}

func (p *planner) leftColumn(b portfolio.Bundle) {
	y := p.sectionTitle(leftX, columnsTopY, p.loc.PersonalInfo, leftRuleLength)
	info := b.Personal
	for _, item := range []string{info.Email, info.Location, info.GitHub, info.LinkedIn} {
		if strings.TrimSpace(item) != "" {
			p.flow(text(roleContact, leftX, y, contactMarker, fontContact, colorAccent))
			p.flow(text(roleContact, leftX+contactTextOffset, y, item, fontContact, colorText))
		}
		y += 5
	}
	y += 5

	y = p.sectionTitle(leftX, y, p.loc.Summary, leftRuleLength)
	summary := limitLines(wrapText(info.Summary, leftWidth, fontSummary, p.measure), summaryLineBudget, p.fits(leftWidth, fontSummary))
	for i, l := range summary {
		p.flow(text(roleSummary, leftX, y+float64(i)*summaryLineHeight, l, fontSummary, colorText))
	}
	y += float64(len(summary))*summaryLineHeight + 8

	y = p.sectionTitle(leftX, y, p.loc.Skills, leftRuleLength)
	for _, group := range groupSkills(b.Skills) {
		if !p.flow(text(roleCategory, leftX, y, p.loc.category(group.category), fontCategory, colorSecondary)) {
			break
		}
		y += 5
		for _, s := range firstN(group.skills, maxSkillsPerCategory) {
			p.skillRow(y, s)
			y += 6
		}
		y += 3
	}
}

func (p *planner) skillRow(y float64, s portfolio.Skill) {
	barX := leftX + barOffsetX
	if !p.flow(text(roleSkillName, barX, y, s.Name, fontSkill, colorText)) {
		return
	}
	p.flow(rect(roleSkillTrack, barX, y+1, barWidth, barHeight, colorTrack))
	if fill := skillBarFill(s.Level); fill > 0 {
		p.flow(rect(roleSkillFill, barX, y+1, fill, barHeight, colorPrimary))
	}
	p.flow(text(roleSkillPercent, barX+skillPercentLabelOffset, y, fmt.Sprintf("%d%%", s.Level), fontPercent, colorMuted))
}

// skillBarFill is the filled width for a level in [0, 100].
func skillBarFill(level int) float64 {
	return math.Floor(barWidth * float64(level) / 100)
}

type skillGroup struct {
	category string
	skills   []portfolio.Skill
}

// groupSkills groups by category key in order of first appearance, keeping
// the input order inside each group. A group is named by the first spelling
// of its category.
func groupSkills(skills []portfolio.Skill) []skillGroup {
	var groups []skillGroup
	index := make(map[string]int)
	for _, s := range skills {
		key := portfolio.CategoryKey(s.Category)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, skillGroup{category: s.Category})
		}
		groups[i].skills = append(groups[i].skills, s)
	}
	return groups
}

func (p *planner) rightColumn(b portfolio.Bundle) {
	y := p.sectionTitle(rightX, columnsTopY, p.loc.Experience, rightRuleLength)
	for _, e := range firstN(b.Experience, maxExperience) {
		if !p.flow(text(rolePosition, rightX, y, e.Position, fontPosition, colorSecondary)) {
			break
		}
		y += 5
		if company := joinNonEmpty(companyPeriodSeparator, e.Company, e.Period); company != "" {
			p.flow(text(roleCompany, rightX, y, company, fontCompany, colorPrimary))
		}
		y += 5
		y = p.paragraph(roleExperienceDesc, rightX, y, e.Description, rightWidth, experienceDescBudget)
		for _, a := range firstN(e.Achievements, maxAchievements) {
			p.flow(text(roleAchievementMark, rightX, y, achievementMarker, fontBody, colorAccent))
			y = p.paragraph(roleAchievement, rightX+achievementTextOffset, y, a, achievementWidth, achievementLineBudget)
		}
		y += 5
	}
	y += 3

	y = p.sectionTitle(rightX, y, p.loc.Projects, rightRuleLength)
	for _, pr := range firstN(b.Projects, maxProjects) {
		if !p.flow(text(roleProjectTitle, rightX, y, pr.Title, fontProjectTitle, colorSecondary)) {
			break
		}
		y += 4
		y = p.paragraph(roleProjectDesc, rightX, y, pr.Description, rightWidth, projectDescBudget)
		if tech := joinNonEmpty(technologySeparator, firstN(pr.Technologies, maxTechnologies)...); tech != "" {
			p.flow(text(roleTechnologies, rightX, y, tech, fontTechnologies, colorPrimary))
		}
		y += 6
	}
}

// paragraph wraps s at 8pt within width, keeps at most budget lines and
// returns the y below the last line.
func (p *planner) paragraph(r role, x, y float64, s string, width float64, budget int) float64 {
	lines := limitLines(wrapText(s, width, fontBody, p.measure), budget, p.fits(width, fontBody))
	for i, l := range lines {
		p.flow(text(r, x, y+float64(i)*smallLineHeight, l, fontBody, colorText))
	}
	return y + float64(len(lines))*smallLineHeight
}

func (p *planner) fits(width float64, font fontSpec) func(string) bool {
	return func(s string) bool { return p.measure(s, font) <= width }
}
