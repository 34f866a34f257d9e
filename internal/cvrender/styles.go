package cvrender

// Page geometry in millimetres on an A4 portrait page.
const (
	pageWidth = 210.0

	headerHeight = 40.0
	nameY        = 20.0
	titleY       = 30.0
	tagX         = 160.0
	accentRuleY  = 35.0

	marginX       = 20.0
	ruleEndX      = 190.0
	columnsTopY   = 50.0
	contentBottom = 265.0

	leftX          = 20.0
	leftWidth      = 85.0
	leftRuleLength = 80.0

	rightX           = 120.0
	rightWidth       = 75.0
	achievementWidth = 70.0
	rightRuleLength  = 70.0

	barOffsetX = 2.0
	barWidth   = 40.0
	barHeight  = 2.0

	footerRuleY = 270.0
	footerTextY = 275.0
	footerTagX  = 175.0
)

// Per-section entry and line budgets.
const (
	maxSkillsPerCategory    = 4
	maxProjects             = 4
	maxExperience           = 3
	maxAchievements         = 2
	maxTechnologies         = 4
	summaryLineBudget       = 8
	experienceDescBudget    = 3
	achievementLineBudget   = 2
	projectDescBudget       = 3
	summaryLineHeight       = 4.0
	smallLineHeight         = 3.5
	truncationMarker        = "…"
	technologySeparator     = " • "
	companyPeriodSeparator  = " • "
	contactMarker           = "•"
	achievementMarker       = "›"
	contactTextOffset       = 5.0
	achievementTextOffset   = 3.0
	skillPercentLabelOffset = 42.0
)

type rgb struct {
	R, G, B int
}

// Palette is fixed; Options.Theme does not change it.
var (
	colorPrimary   = rgb{37, 99, 235}
	colorSecondary = rgb{55, 65, 81}
	colorAccent    = rgb{236, 72, 153}
	colorText      = rgb{17, 24, 39}
	colorMuted     = rgb{107, 114, 128}
	colorTrack     = rgb{230, 230, 230}
	colorWhite     = rgb{255, 255, 255}
)

const fontFamily = "Helvetica"

// fontSpec is a Helvetica variant: style is "", "B" or "I".
type fontSpec struct {
	Style string
	Size  float64
}

var (
	fontName         = fontSpec{Style: "B", Size: 32}
	fontTag          = fontSpec{Style: "B", Size: 14}
	fontTitle        = fontSpec{Size: 16}
	fontSection      = fontSpec{Style: "B", Size: 11}
	fontContact      = fontSpec{Size: 9}
	fontSummary      = fontSpec{Size: 9}
	fontCategory     = fontSpec{Style: "B", Size: 10}
	fontSkill        = fontSpec{Size: 8}
	fontPercent      = fontSpec{Size: 7}
	fontPosition     = fontSpec{Style: "B", Size: 11}
	fontCompany      = fontSpec{Size: 9}
	fontBody         = fontSpec{Size: 8}
	fontProjectTitle = fontSpec{Style: "B", Size: 10}
	fontTechnologies = fontSpec{Size: 7}
	fontFooter       = fontSpec{Style: "I", Size: 7}
)
