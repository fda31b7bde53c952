package view

import (
	"bytes"
	"html/template"

	"github.com/linkdeck/linkdeck/internal/app/model"
)

// LandingPageData provides the dynamic fields required by the public page template.
type LandingPageData struct {
	ProfileName     string
	Bio             string
	BackgroundColor string
	TextColor       string
	ButtonRadius    string
	FontFamily      string
	CustomCSS       template.CSS
	Links           []LandingPageLink
}

// LandingPageLink is one rendered row of the page's link list.
type LandingPageLink struct {
	Title          string
	Description    string
	DestinationURL string
	ShortCode      string
}

var landingPageTmpl = template.Must(template.New("landing_page").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>{{.ProfileName}}</title>
	<style>
		:root {
			--bg: {{.BackgroundColor}};
			--text: {{.TextColor}};
			--radius: {{.ButtonRadius}};
			font-family: {{.FontFamily}}, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
		}
		* { box-sizing: border-box; }
		body {
			margin: 0;
			min-height: 100vh;
			display: flex;
			align-items: center;
			justify-content: center;
			background: var(--bg);
			color: var(--text);
		}
		.page {
			width: min(560px, 94vw);
			padding: 40px 16px;
			text-align: center;
		}
		h1 {
			font-size: 1.6rem;
			margin-bottom: 4px;
		}
		.bio {
			opacity: 0.75;
			margin-bottom: 28px;
			white-space: pre-wrap;
		}
		.link {
			display: block;
			padding: 14px 18px;
			margin-bottom: 12px;
			border: 1px solid currentColor;
			border-radius: var(--radius);
			color: inherit;
			text-decoration: none;
			transition: transform 0.1s ease;
		}
		.link:hover { transform: translateY(-1px); }
		.link small {
			display: block;
			opacity: 0.65;
			margin-top: 2px;
		}
	</style>
	{{if .CustomCSS}}<style>{{.CustomCSS}}</style>{{end}}
</head>
<body>
	<main class="page">
		<h1>{{.ProfileName}}</h1>
		{{if .Bio}}<p class="bio">{{.Bio}}</p>{{end}}
		<nav>
			{{range .Links}}
			<a class="link" href="/{{.ShortCode}}" rel="noopener">
				{{.Title}}
				{{if .Description}}<small>{{.Description}}</small>{{end}}
			</a>
			{{end}}
		</nav>
	</main>
</body>
</html>
`))

// RenderLandingPage produces the public HTML for a landing page, applying
// its theme configuration over sensible defaults.
func RenderLandingPage(page *model.LandingPage) (string, error) {
	data := LandingPageData{
		ProfileName:     page.ProfileName,
		BackgroundColor: "#090a0f",
		TextColor:       "#e7ecff",
		ButtonRadius:    "12px",
		FontFamily:      `"Inter"`,
	}
	if page.Bio != nil {
		data.Bio = *page.Bio
	}
	if theme := page.ThemeConfig; theme != nil {
		if theme.BackgroundColor != "" {
			data.BackgroundColor = theme.BackgroundColor
		}
		if theme.TextColor != "" {
			data.TextColor = theme.TextColor
		}
		switch theme.ButtonStyle {
		case "square":
			data.ButtonRadius = "0"
		case "pill":
			data.ButtonRadius = "999px"
		}
		if theme.FontFamily != "" {
			data.FontFamily = theme.FontFamily
		}
		if theme.CustomCSS != "" {
			data.CustomCSS = template.CSS(theme.CustomCSS)
		}
	}

	for _, link := range page.Links {
		row := LandingPageLink{
			Title:          link.Title,
			DestinationURL: link.DestinationURL,
			ShortCode:      link.ShortCode,
		}
		if link.Description != nil {
			row.Description = *link.Description
		}
		data.Links = append(data.Links, row)
	}

	var buf bytes.Buffer
	if err := landingPageTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
