package cma

import (
	"regexp"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReportTheme selects the slide template set
type ReportTheme string

const (
	ThemeClassic ReportTheme = "classic"
	ThemeModern  ReportTheme = "modern"
	ThemeBold    ReportTheme = "bold"
)

// Report sections, in their default order
type ReportSection string

const (
	SectionCover       ReportSection = "cover"
	SectionLetter      ReportSection = "letter"
	SectionSubject     ReportSection = "subject"
	SectionComps       ReportSection = "comps"
	SectionStats       ReportSection = "stats"
	SectionAdjustments ReportSection = "adjustments"
	SectionPricing     ReportSection = "pricing"
	SectionAgentResume ReportSection = "agent_resume"
)

// SectionToggle pairs a section with its enabled flag; order matters
type SectionToggle struct {
	Section ReportSection `json:"section"`
	Enabled bool          `json:"enabled"`
}

// DefaultSections returns every section enabled in the default order
func DefaultSections() []SectionToggle {
	all := []ReportSection{
		SectionCover, SectionLetter, SectionSubject, SectionComps,
		SectionStats, SectionAdjustments, SectionPricing, SectionAgentResume,
	}
	toggles := make([]SectionToggle, len(all))
	for i, s := range all {
		toggles[i] = SectionToggle{Section: s, Enabled: true}
	}
	return toggles
}

var accentColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var knownSections = map[ReportSection]bool{
	SectionCover: true, SectionLetter: true, SectionSubject: true,
	SectionComps: true, SectionStats: true, SectionAdjustments: true,
	SectionPricing: true, SectionAgentResume: true,
}

// ReportConfig controls how a CMA renders to a presentation. One config
// per CMA, created lazily with defaults on first access.
type ReportConfig struct {
	shared.TenantAggregateRoot
	CmaID         uuid.UUID
	Theme         ReportTheme
	AccentColor   string
	CoverPhotoKey string
	Sections      []SectionToggle
	IntroText     string
	Disclaimer    string
}

// NewReportConfig creates the default config for a CMA
func NewReportConfig(brokerageID, cmaID uuid.UUID) (*ReportConfig, error) {
	if cmaID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CMA_ID", "CMA ID cannot be empty")
	}

	return &ReportConfig{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(brokerageID),
		CmaID:               cmaID,
		Theme:               ThemeClassic,
		AccentColor:         "#1F2937",
		Sections:            DefaultSections(),
	}, nil
}

// Update replaces the editable config fields
func (r *ReportConfig) Update(theme ReportTheme, accentColor, coverPhotoKey, introText, disclaimer string, sections []SectionToggle) error {
	switch theme {
	case ThemeClassic, ThemeModern, ThemeBold:
	default:
		return shared.NewDomainError("INVALID_THEME", "Unknown report theme")
	}
	if accentColor != "" && !accentColorPattern.MatchString(accentColor) {
		return shared.NewDomainError("INVALID_COLOR", "Accent color must be a hex value like #1A73E8")
	}
	if len(introText) > 5000 {
		return shared.NewDomainError("INVALID_INTRO", "Intro text cannot exceed 5000 characters")
	}
	if len(disclaimer) > 2000 {
		return shared.NewDomainError("INVALID_DISCLAIMER", "Disclaimer cannot exceed 2000 characters")
	}
	seen := make(map[ReportSection]bool, len(sections))
	for _, st := range sections {
		if !knownSections[st.Section] {
			return shared.NewDomainError("INVALID_SECTION", "Unknown report section: "+string(st.Section))
		}
		if seen[st.Section] {
			return shared.NewDomainError("INVALID_SECTION", "Duplicate report section: "+string(st.Section))
		}
		seen[st.Section] = true
	}

	r.Theme = theme
	if accentColor != "" {
		r.AccentColor = accentColor
	}
	r.CoverPhotoKey = coverPhotoKey
	r.IntroText = introText
	r.Disclaimer = disclaimer
	if len(sections) > 0 {
		r.Sections = sections
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// EnabledSections returns the sections to render, in order
func (r *ReportConfig) EnabledSections() []ReportSection {
	out := make([]ReportSection, 0, len(r.Sections))
	for _, st := range r.Sections {
		if st.Enabled {
			out = append(out, st.Section)
		}
	}
	return out
}
