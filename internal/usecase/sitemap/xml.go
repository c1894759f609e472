package sitemap

import "encoding/xml"

// Sitemap namespaces.
const (
	nsSitemap = "http://www.sitemaps.org/schemas/sitemap/0.9"
	nsNews    = "https://www.google.com/schemas/sitemap-news/0.9"
	nsImage   = "https://www.google.com/schemas/sitemap-image/1.1"
)

// ChangeFreq is the sitemap changefreq value.
type ChangeFreq string

// Change frequencies.
const (
	Always  ChangeFreq = "always"
	Hourly  ChangeFreq = "hourly"
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
	Never   ChangeFreq = "never"
)

type urlset struct {
	XMLName    xml.Name `xml:"urlset"`
	Xmlns      string   `xml:"xmlns,attr"`
	XmlnsNews  string   `xml:"xmlns:news,attr"`
	XmlnsImage string   `xml:"xmlns:image,attr"`
	URLs       []URL    `xml:"url"`
}

// URL is one sitemap entry.
type URL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod"`
	ChangeFreq ChangeFreq `xml:"changefreq"`
	Priority   float64    `xml:"priority"`
	Images     []Image    `xml:"image:image,omitempty"`
	News       *News      `xml:"news:news,omitempty"`
}

// Image is an image extension entry.
type Image struct {
	Loc     string `xml:"image:loc"`
	Title   string `xml:"image:title,omitempty"`
	Caption string `xml:"image:caption,omitempty"`
}

// News is a news extension entry.
type News struct {
	Publication     Publication `xml:"news:publication"`
	PublicationDate string      `xml:"news:publication_date"`
	Title           string      `xml:"news:title"`
}

// Publication names the publishing site.
type Publication struct {
	Name     string `xml:"news:name"`
	Language string `xml:"news:language"`
}
