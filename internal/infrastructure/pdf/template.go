// Package pdf renders CMA reports to PDF with headless Chrome.
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	appcma "github.com/closeline/backend/internal/application/cma"
	"github.com/closeline/backend/internal/domain/cma"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// reportView is the flattened, pre-formatted model the templates render.
// All money and date formatting happens here so the templates stay dumb.
type reportView struct {
	Title      string
	ThemeClass string
	Accent     string

	BrokerageName string
	LogoURL       string
	Tagline       string

	AgentName    string
	AgentEmail   string
	AgentTitle   string
	AgentPhone   string
	AgentLicense string
	AgentBio     string
	AgentYears   int
	ServiceAreas []string

	Subject subjectView
	Comps   []compView
	Stats   statsView

	PriceLow      string
	PriceHigh     string
	HasPriceRange bool

	IntroText  string
	Disclaimer string
	Sections   []cma.ReportSection

	PreparedOn string
}

type subjectView struct {
	Line1        string
	Line2        string
	PropertyType string
	Beds         int
	Baths        string
	Sqft         string
	LotSqft      string
	YearBuilt    int
}

type compView struct {
	Number       int
	Line1        string
	Line2        string
	Status       string
	ListPrice    string
	SoldPrice    string
	Beds         int
	Baths        string
	Sqft         string
	YearBuilt    int
	Distance     string
	DaysOnMarket string
	SoldDate     string

	Adjustments     []adjustmentView
	TotalAdjustment string
	AdjustedPrice   string
	AdjustedPPSF    string
}

type adjustmentView struct {
	Label  string
	Amount string
}

type statsView struct {
	SoldPrice       valueStatsView
	ListPrice       valueStatsView
	AdjustedPrice   valueStatsView
	PricePerSqft    valueStatsView
	DaysOnMarket    valueStatsView
	SaleToListRatio string
	SoldCount       int
	ActiveCount     int
	PendingCount    int
}

type valueStatsView struct {
	Count   int
	Min     string
	Max     string
	Average string
	Median  string
}

// propertyTypeLabels maps the stored property type codes to print labels
var propertyTypeLabels = map[string]string{
	"single_family": "Single Family",
	"condo":         "Condo",
	"townhome":      "Townhome",
	"multi_family":  "Multi-Family",
	"land":          "Land",
}

var compStatusLabels = map[cma.CompStatus]string{
	cma.CompStatusSold:    "Sold",
	cma.CompStatusActive:  "Active",
	cma.CompStatusPending: "Pending",
}

// buildReportView flattens the render input into the template model
func buildReportView(input appcma.RenderInput) reportView {
	c := input.Cma
	cfg := input.Config

	view := reportView{
		Title:      c.Title,
		ThemeClass: "theme-" + string(cfg.Theme),
		Accent:     cfg.AccentColor,
		IntroText:  cfg.IntroText,
		Disclaimer: cfg.Disclaimer,
		Sections:   cfg.EnabledSections(),
		PreparedOn: time.Now().Format("January 2, 2006"),
	}

	if input.Brokerage != nil {
		view.BrokerageName = input.Brokerage.Name
		view.LogoURL = input.Brokerage.Branding.LogoURL
		view.Tagline = input.Brokerage.Branding.Tagline
	}
	if input.Agent != nil {
		view.AgentName = input.Agent.DisplayName
		view.AgentEmail = input.Agent.Email
	}
	if input.Profile != nil {
		view.AgentTitle = input.Profile.Title
		view.AgentPhone = input.Profile.Phone
		view.AgentLicense = input.Profile.LicenseNumber
		view.AgentBio = input.Profile.Bio
		view.AgentYears = input.Profile.YearsExperience
		view.ServiceAreas = input.Profile.ServiceAreas
	}

	view.Subject = subjectView{
		Line1:        c.Subject.Address.Line1(),
		Line2:        c.Subject.Address.Line2(),
		PropertyType: propertyTypeLabel(c.Subject.PropertyType),
		Beds:         c.Subject.Beds,
		Baths:        formatBaths(c.Subject.Baths),
		Sqft:         formatInt(c.Subject.Sqft),
		LotSqft:      formatInt(c.Subject.LotSqft),
		YearBuilt:    c.Subject.YearBuilt,
	}

	for i := range c.Comparables {
		view.Comps = append(view.Comps, buildCompView(&c.Comparables[i], i+1))
	}

	view.Stats = buildStatsView(input.Stats)

	if c.PriceLow != nil && c.PriceHigh != nil {
		view.PriceLow = formatMoney(*c.PriceLow)
		view.PriceHigh = formatMoney(*c.PriceHigh)
		view.HasPriceRange = true
	}

	return view
}

func buildCompView(comp *cma.Comparable, number int) compView {
	v := compView{
		Number:    number,
		Line1:     comp.Address.Line1(),
		Line2:     comp.Address.Line2(),
		Status:    compStatusLabels[comp.Status],
		Beds:      comp.Beds,
		Baths:     formatBaths(comp.Baths),
		Sqft:      formatInt(comp.Sqft),
		YearBuilt: comp.YearBuilt,
		Distance:  comp.DistanceMiles.StringFixed(1) + " mi",
	}

	if comp.ListPrice != nil {
		v.ListPrice = formatMoney(*comp.ListPrice)
	}
	if comp.SoldPrice != nil {
		v.SoldPrice = formatMoney(*comp.SoldPrice)
	}
	if comp.DaysOnMarket != nil {
		v.DaysOnMarket = fmt.Sprintf("%d", *comp.DaysOnMarket)
	}
	if comp.SoldDate != nil {
		v.SoldDate = comp.SoldDate.Format("Jan 2, 2006")
	}

	for _, a := range comp.Adjustments {
		v.Adjustments = append(v.Adjustments, adjustmentView{
			Label:  a.Label,
			Amount: formatSignedMoney(a.Amount),
		})
	}
	if len(comp.Adjustments) > 0 {
		v.TotalAdjustment = formatSignedMoney(comp.TotalAdjustment())
	}
	if ap := comp.AdjustedPrice(); ap != nil {
		v.AdjustedPrice = formatMoney(*ap)
	}
	if ppsf := comp.AdjustedPricePerSqft(); ppsf != nil {
		v.AdjustedPPSF = formatMoney(*ppsf)
	}

	return v
}

func buildStatsView(stats cma.Statistics) statsView {
	v := statsView{
		SoldPrice:     buildValueStatsView(stats.SoldPrice, formatMoney),
		ListPrice:     buildValueStatsView(stats.ListPrice, formatMoney),
		AdjustedPrice: buildValueStatsView(stats.AdjustedPrice, formatMoney),
		PricePerSqft:  buildValueStatsView(stats.PricePerSqft, formatMoney),
		DaysOnMarket: buildValueStatsView(stats.DaysOnMarket, func(d decimal.Decimal) string {
			return d.Round(0).String()
		}),
		SoldCount:    stats.CountsByStatus[cma.CompStatusSold],
		ActiveCount:  stats.CountsByStatus[cma.CompStatusActive],
		PendingCount: stats.CountsByStatus[cma.CompStatusPending],
	}
	if stats.SaleToListRatio.IsPositive() {
		v.SaleToListRatio = stats.SaleToListRatio.Mul(decimal.NewFromInt(100)).Round(1).String() + "%"
	}
	return v
}

func buildValueStatsView(vs cma.ValueStats, format func(decimal.Decimal) string) valueStatsView {
	if vs.Count == 0 {
		return valueStatsView{}
	}
	return valueStatsView{
		Count:   vs.Count,
		Min:     format(vs.Min),
		Max:     format(vs.Max),
		Average: format(vs.Average),
		Median:  format(vs.Median),
	}
}

func propertyTypeLabel(code string) string {
	if label, ok := propertyTypeLabels[code]; ok {
		return label
	}
	return code
}

// moneyPrinter groups digits per English locale conventions
var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders a dollar amount with thousands separators and no
// cents, e.g. "$482,500"
func formatMoney(d decimal.Decimal) string {
	whole := d.Round(0).IntPart()
	if whole < 0 {
		return moneyPrinter.Sprintf("-$%d", -whole)
	}
	return moneyPrinter.Sprintf("$%d", whole)
}

// formatSignedMoney is formatMoney with an explicit plus on positives
func formatSignedMoney(d decimal.Decimal) string {
	if d.IsNegative() || d.IsZero() {
		return formatMoney(d)
	}
	return "+" + formatMoney(d)
}

// formatBaths trims trailing zeros so 2.0 prints as "2" and 2.5 as "2.5"
func formatBaths(d decimal.Decimal) string {
	return d.Truncate(1).String()
}

// formatInt renders an integer with thousands separators
func formatInt(n int) string {
	return moneyPrinter.Sprintf("%d", n)
}

// themeStyles holds the per-theme CSS overrides layered on the base styles
var themeStyles = map[cma.ReportTheme]string{
	cma.ThemeClassic: `
		body.theme-classic { font-family: Georgia, 'Times New Roman', serif; }
		.theme-classic h1, .theme-classic h2 { font-weight: normal; letter-spacing: 0.5px; }
		.theme-classic .section { border-top: 1px solid #d1d5db; }
	`,
	cma.ThemeModern: `
		body.theme-modern { font-family: Helvetica, Arial, sans-serif; }
		.theme-modern h1, .theme-modern h2 { font-weight: 300; text-transform: uppercase; letter-spacing: 2px; }
		.theme-modern .section { border-top: none; }
	`,
	cma.ThemeBold: `
		body.theme-bold { font-family: Helvetica, Arial, sans-serif; }
		.theme-bold h1, .theme-bold h2 { font-weight: 800; }
		.theme-bold .cover { background: var(--accent); color: #ffffff; }
		.theme-bold .cover .brand { color: #ffffff; }
	`,
}

const reportTemplateText = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
	:root { --accent: {{.Accent}}; }
	* { margin: 0; padding: 0; box-sizing: border-box; }
	body { font-size: 11pt; color: #1f2937; line-height: 1.5; }
	h1 { font-size: 26pt; margin-bottom: 8px; }
	h2 { font-size: 16pt; color: var(--accent); margin-bottom: 12px; }
	.section { page-break-before: always; padding: 36px 0 0 0; }
	.section:first-child { page-break-before: avoid; }
	.cover { text-align: center; padding-top: 140px; }
	.cover .brand { font-size: 13pt; color: var(--accent); margin-bottom: 40px; }
	.cover .logo { max-height: 80px; margin-bottom: 20px; }
	.cover .subtitle { font-size: 13pt; color: #6b7280; margin-top: 12px; }
	.cover .prepared { margin-top: 60px; font-size: 10pt; color: #6b7280; }
	table { width: 100%; border-collapse: collapse; font-size: 9.5pt; }
	th { text-align: left; color: #6b7280; font-weight: 600; border-bottom: 2px solid var(--accent); padding: 6px 8px; }
	td { border-bottom: 1px solid #e5e7eb; padding: 6px 8px; vertical-align: top; }
	td.num, th.num { text-align: right; }
	.facts { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; margin-top: 16px; }
	.fact .label { font-size: 9pt; color: #6b7280; text-transform: uppercase; }
	.fact .value { font-size: 14pt; font-weight: 600; }
	.letter { white-space: pre-wrap; }
	.range { text-align: center; padding: 40px 0; }
	.range .amount { font-size: 30pt; font-weight: 700; color: var(--accent); }
	.disclaimer { margin-top: 40px; font-size: 8pt; color: #9ca3af; }
	.muted { color: #9ca3af; }
	{{.ThemeCSS}}
</style>
</head>
<body class="{{.View.ThemeClass}}">
{{- range .View.Sections}}
{{- if eq . "cover"}}{{template "cover" $.View}}{{end}}
{{- if eq . "letter"}}{{if $.View.IntroText}}{{template "letter" $.View}}{{end}}{{end}}
{{- if eq . "subject"}}{{template "subject" $.View}}{{end}}
{{- if eq . "comps"}}{{template "comps" $.View}}{{end}}
{{- if eq . "stats"}}{{template "stats" $.View}}{{end}}
{{- if eq . "adjustments"}}{{template "adjustments" $.View}}{{end}}
{{- if eq . "pricing"}}{{template "pricing" $.View}}{{end}}
{{- if eq . "agent_resume"}}{{template "agent_resume" $.View}}{{end}}
{{- end}}
</body>
</html>

{{define "cover"}}
<div class="section cover">
	{{if .LogoURL}}<img class="logo" src="{{.LogoURL}}" alt="">{{end}}
	<div class="brand">{{.BrokerageName}}{{if .Tagline}} &middot; {{.Tagline}}{{end}}</div>
	<h1>Comparative Market Analysis</h1>
	<div class="subtitle">{{.Subject.Line1}}{{if .Subject.Line2}}<br>{{.Subject.Line2}}{{end}}</div>
	<div class="prepared">Prepared by {{.AgentName}} on {{.PreparedOn}}</div>
</div>
{{end}}

{{define "letter"}}
<div class="section">
	<h2>Dear Homeowner</h2>
	<div class="letter">{{.IntroText}}</div>
</div>
{{end}}

{{define "subject"}}
<div class="section">
	<h2>Subject Property</h2>
	<p>{{.Subject.Line1}}{{if .Subject.Line2}}, {{.Subject.Line2}}{{end}}</p>
	<div class="facts">
		<div class="fact"><div class="label">Type</div><div class="value">{{.Subject.PropertyType}}</div></div>
		<div class="fact"><div class="label">Beds</div><div class="value">{{.Subject.Beds}}</div></div>
		<div class="fact"><div class="label">Baths</div><div class="value">{{.Subject.Baths}}</div></div>
		<div class="fact"><div class="label">Living Area</div><div class="value">{{.Subject.Sqft}} sqft</div></div>
		<div class="fact"><div class="label">Lot</div><div class="value">{{.Subject.LotSqft}} sqft</div></div>
		<div class="fact"><div class="label">Year Built</div><div class="value">{{.Subject.YearBuilt}}</div></div>
	</div>
</div>
{{end}}

{{define "comps"}}
<div class="section">
	<h2>Comparable Properties</h2>
	<table>
		<tr>
			<th>#</th><th>Address</th><th>Status</th>
			<th class="num">List</th><th class="num">Sold</th>
			<th class="num">Beds</th><th class="num">Baths</th><th class="num">Sqft</th>
			<th class="num">Dist</th><th class="num">DOM</th>
		</tr>
		{{range .Comps}}
		<tr>
			<td>{{.Number}}</td>
			<td>{{.Line1}}<br><span class="muted">{{.Line2}}</span></td>
			<td>{{.Status}}{{if .SoldDate}}<br><span class="muted">{{.SoldDate}}</span>{{end}}</td>
			<td class="num">{{if .ListPrice}}{{.ListPrice}}{{else}}&mdash;{{end}}</td>
			<td class="num">{{if .SoldPrice}}{{.SoldPrice}}{{else}}&mdash;{{end}}</td>
			<td class="num">{{.Beds}}</td>
			<td class="num">{{.Baths}}</td>
			<td class="num">{{.Sqft}}</td>
			<td class="num">{{.Distance}}</td>
			<td class="num">{{if .DaysOnMarket}}{{.DaysOnMarket}}{{else}}&mdash;{{end}}</td>
		</tr>
		{{end}}
	</table>
</div>
{{end}}

{{define "stats"}}
<div class="section">
	<h2>Market Statistics</h2>
	<div class="facts">
		<div class="fact"><div class="label">Sold</div><div class="value">{{.Stats.SoldCount}}</div></div>
		<div class="fact"><div class="label">Active</div><div class="value">{{.Stats.ActiveCount}}</div></div>
		<div class="fact"><div class="label">Pending</div><div class="value">{{.Stats.PendingCount}}</div></div>
	</div>
	<table style="margin-top: 24px;">
		<tr><th>Metric</th><th class="num">Low</th><th class="num">High</th><th class="num">Average</th><th class="num">Median</th></tr>
		{{if .Stats.SoldPrice.Count}}<tr><td>Sold Price</td><td class="num">{{.Stats.SoldPrice.Min}}</td><td class="num">{{.Stats.SoldPrice.Max}}</td><td class="num">{{.Stats.SoldPrice.Average}}</td><td class="num">{{.Stats.SoldPrice.Median}}</td></tr>{{end}}
		{{if .Stats.ListPrice.Count}}<tr><td>List Price</td><td class="num">{{.Stats.ListPrice.Min}}</td><td class="num">{{.Stats.ListPrice.Max}}</td><td class="num">{{.Stats.ListPrice.Average}}</td><td class="num">{{.Stats.ListPrice.Median}}</td></tr>{{end}}
		{{if .Stats.AdjustedPrice.Count}}<tr><td>Adjusted Price</td><td class="num">{{.Stats.AdjustedPrice.Min}}</td><td class="num">{{.Stats.AdjustedPrice.Max}}</td><td class="num">{{.Stats.AdjustedPrice.Average}}</td><td class="num">{{.Stats.AdjustedPrice.Median}}</td></tr>{{end}}
		{{if .Stats.PricePerSqft.Count}}<tr><td>Price / Sqft</td><td class="num">{{.Stats.PricePerSqft.Min}}</td><td class="num">{{.Stats.PricePerSqft.Max}}</td><td class="num">{{.Stats.PricePerSqft.Average}}</td><td class="num">{{.Stats.PricePerSqft.Median}}</td></tr>{{end}}
		{{if .Stats.DaysOnMarket.Count}}<tr><td>Days on Market</td><td class="num">{{.Stats.DaysOnMarket.Min}}</td><td class="num">{{.Stats.DaysOnMarket.Max}}</td><td class="num">{{.Stats.DaysOnMarket.Average}}</td><td class="num">{{.Stats.DaysOnMarket.Median}}</td></tr>{{end}}
	</table>
	{{if .Stats.SaleToListRatio}}<p style="margin-top: 16px;">Average sale-to-list ratio: <strong>{{.Stats.SaleToListRatio}}</strong></p>{{end}}
</div>
{{end}}

{{define "adjustments"}}
<div class="section">
	<h2>Adjustments</h2>
	<table>
		<tr><th>#</th><th>Address</th><th>Adjustment</th><th class="num">Amount</th><th class="num">Adjusted Price</th><th class="num">Adj. $/Sqft</th></tr>
		{{range .Comps}}
		{{if .Adjustments}}
		{{$comp := .}}
		{{range $i, $a := .Adjustments}}
		<tr>
			{{if eq $i 0}}<td rowspan="{{len $comp.Adjustments}}">{{$comp.Number}}</td><td rowspan="{{len $comp.Adjustments}}">{{$comp.Line1}}</td>{{end}}
			<td>{{$a.Label}}</td>
			<td class="num">{{$a.Amount}}</td>
			{{if eq $i 0}}<td class="num" rowspan="{{len $comp.Adjustments}}">{{$comp.AdjustedPrice}}</td><td class="num" rowspan="{{len $comp.Adjustments}}">{{$comp.AdjustedPPSF}}</td>{{end}}
		</tr>
		{{end}}
		{{end}}
		{{end}}
	</table>
</div>
{{end}}

{{define "pricing"}}
<div class="section">
	<h2>Suggested Price Range</h2>
	{{if .HasPriceRange}}
	<div class="range"><span class="amount">{{.PriceLow}} &ndash; {{.PriceHigh}}</span></div>
	{{else}}
	<p class="muted">No price range has been set for this analysis.</p>
	{{end}}
	{{if .Disclaimer}}<div class="disclaimer">{{.Disclaimer}}</div>{{end}}
</div>
{{end}}

{{define "agent_resume"}}
<div class="section">
	<h2>About Your Agent</h2>
	<p><strong>{{.AgentName}}</strong>{{if .AgentTitle}}, {{.AgentTitle}}{{end}}</p>
	{{if .AgentLicense}}<p class="muted">License {{.AgentLicense}}</p>{{end}}
	<p>{{.AgentEmail}}{{if .AgentPhone}} &middot; {{.AgentPhone}}{{end}}</p>
	{{if .AgentYears}}<p>{{.AgentYears}} years of experience</p>{{end}}
	{{if .ServiceAreas}}<p>Serving {{range $i, $a := .ServiceAreas}}{{if $i}}, {{end}}{{$a}}{{end}}</p>{{end}}
	{{if .AgentBio}}<p style="margin-top: 12px;">{{.AgentBio}}</p>{{end}}
</div>
{{end}}
`

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateText))

// BuildReportHTML renders the report document for the given input
func BuildReportHTML(input appcma.RenderInput) (string, error) {
	if input.Cma == nil {
		return "", fmt.Errorf("pdf: CMA is required")
	}
	if input.Config == nil {
		return "", fmt.Errorf("pdf: report config is required")
	}

	data := struct {
		Title    string
		Accent   template.CSS
		ThemeCSS template.CSS
		View     reportView
	}{
		Title:    input.Cma.Title,
		View:     buildReportView(input),
		ThemeCSS: template.CSS(themeStyles[input.Config.Theme]),
	}
	// The accent color is validated as a hex value on the way in; mark it
	// safe so the CSS variable survives template escaping.
	data.Accent = template.CSS(data.View.Accent)

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("pdf: execute report template: %w", err)
	}
	return buf.String(), nil
}
