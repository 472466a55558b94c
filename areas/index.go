package areas

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AreaIndexFile is written inside every area directory.
const AreaIndexFile = "index.html"

// GeneralIndexFile is written at the root of the HTML area tree.
const GeneralIndexFile = "index_general.html"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// SpanishDate formats t as "12 de septiembre de 2025".
func SpanishDate(t time.Time) string {
	return strconv.Itoa(t.Day()) + " de " + months[t.Month()-1] + " de " + strconv.Itoa(t.Year())
}

type card struct {
	Name string
	Href string
}

type areaData struct {
	Label string
	Cards []card
	Back  string
}

type areaCard struct {
	Label string
	Count int
	Href  string
}

type generalData struct {
	Total       int
	Date        string
	Areas       []areaCard
	AllProfiles string
	Results     string
}

// sorter orders display text with Spanish collation.
type sorter struct {
	collator *collate.Collator
}

func newSorter() *sorter {
	return &sorter{collator: collate.New(language.Spanish)}
}

func (s *sorter) less(a, b string) bool {
	return s.collator.CompareString(a, b) < 0
}

func (s *sorter) renderArea(g Group) ([]byte, error) {
	data := areaData{Label: g.Label, Back: "../" + GeneralIndexFile}
	for _, m := range g.Members {
		data.Cards = append(data.Cards, card{Name: m.DisplayName, Href: m.FileStem + ".html"})
	}
	sort.SliceStable(data.Cards, func(i, j int) bool {
		return s.less(data.Cards[i].Name, data.Cards[j].Name)
	})

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "area", data); err != nil {
		return nil, fmt.Errorf("render area index %s: %w", g.Key, err)
	}
	return buf.Bytes(), nil
}

func (s *sorter) renderGeneral(groups []Group, generated time.Time, allProfiles, results string) ([]byte, error) {
	data := generalData{
		Total:       Candidates(groups),
		Date:        SpanishDate(generated),
		AllProfiles: allProfiles,
		Results:     results,
	}
	for _, g := range groups {
		data.Areas = append(data.Areas, areaCard{
			Label: g.Label,
			Count: len(g.Members),
			Href:  g.Key + "/" + AreaIndexFile,
		})
	}
	sort.SliceStable(data.Areas, func(i, j int) bool {
		a, b := data.Areas[i], data.Areas[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return s.less(a.Label, b.Label)
	})

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "general", data); err != nil {
		return nil, fmt.Errorf("render general index: %w", err)
	}
	return buf.Bytes(), nil
}
