// Package catalog maps survey header keys to the labelled section headings
// shown in candidate profiles.
package catalog

import (
	"fmt"
	"os"

	"github.com/c360studio/dossier/source"
	"gopkg.in/yaml.v3"
)

// defaultLabels is keyed by canonical header (see source.CanonicalKey).
// Some keys are the export's truncated question text; they match exactly.
var defaultLabels = map[string]string{
	"Código Universitario:": "🎓 Código Universitario",

	"Ciclo Relativo": "📚 Ciclo Relativo",

	"Correo Electrónico:": "📧 Correo Electrónico",

	"Teléfono (WhatsApp):": "📱 Teléfono (WhatsApp)",

	"¿Qué piensas que hacemos en ACECOM?": "🤔 ¿Qué piensas que hacemos en ACECOM?",

	"¿Como consideras que ACECOM puede mejorar para ser más atractivo para la población estudiantil de la facultad?": "💡 ¿Cómo consideras que ACECOM puede mejorar para ser más atractivo para la población estudiantil de la facultad?",

	"Dentro del contexto de mejora ¿Siendo tu parte de ACECOM que acciones tomarías para mejorar esta situación?": "🚀 Dentro del contexto de mejora ¿Siendo tu parte de ACECOM qué acciones tomarías para mejorar esta situación?",

	"¿Qué te motiva a unirte a ACECOM y no a otro grupo estudiantil? ¿Qué esperas aportar y qué esperas aprender aquí?": "💪 ¿Qué te motiva a unirte a ACECOM y no a otro grupo estudiantil? ¿Qué esperas aportar y qué esperas aprender aquí?",

	"Cuéntanos sobre un proyecto PERSONAL (no un curso) que hayas iniciado por tu cuenta. Puede ser de programación, investigación, un blog, un negocio, etc. Describe qué te impulsó a empezarlo, qué desafí": "🛠️ Cuéntanos sobre un proyecto PERSONAL que hayas iniciado por tu cuenta",

	"Fuera de las clases obligatorias de la universidad, ¿qué estás aprendiendo por tu cuenta actualmente? (Ej: un lenguaje de programación, un framework, sobre inteligencia artificial, etc.). ¿Qué recurso": "📖 ¿Qué estás aprendiendo por tu cuenta actualmente?",

	"Menciona un blog, canal de YouTube, perfil de LinkedIn o libro técnico que hayas encontrado últimamente y que te haya parecido interesante. Explícanos por qué lo recomendarías.": "🌐 Menciona un recurso técnico que hayas encontrado últimamente y que te haya parecido interesante",

	"¿A qué área de ACECOM te gustaría postular? Principal interes.": "🎯 ¿A qué área de ACECOM te gustaría postular? (Principal interés)",

	"Segunda opción de área": "🎯 Segunda opción de área",

	"Áreas de interés adicionales": "🎯 Áreas de interés adicionales",

	"Nuestro reglamento exige a los miembros un compromiso activo, medido por un sistema de puntos mínimo bimestral. ¿Crees que podrás gestionar este compromiso adicional a tu carga académica?": "⚖️ ¿Crees que podrás gestionar el compromiso adicional a tu carga académica?",
}

// defaultExcluded are administrative columns, and identity columns already
// folded into the profile title.
var defaultExcluded = []string{
	"Id",
	"Hora de inicio",
	"Hora de finalización",
	"Nombre",
	"Correo electrónico",
	"Nombres:",
	"Apellidos:",
}

// Catalog resolves header keys to labels. Lookups are exact on the canonical
// key; unknown keys fall back to the key itself.
type Catalog struct {
	labels   map[string]string
	excluded map[string]struct{}
}

// New builds a catalog. Keys are canonicalized.
func New(labels map[string]string, excluded []string) *Catalog {
	c := &Catalog{
		labels:   make(map[string]string, len(labels)),
		excluded: make(map[string]struct{}, len(excluded)),
	}
	for k, v := range labels {
		c.labels[source.CanonicalKey(k)] = v
	}
	c.Exclude(excluded...)
	return c
}

// Default returns the catalog for the PAM survey.
func Default() *Catalog {
	return New(defaultLabels, defaultExcluded)
}

// Label returns the display label for key, or key itself when unknown.
func (c *Catalog) Label(key string) string {
	if label, ok := c.labels[key]; ok {
		return label
	}
	return key
}

// Excluded reports whether key must never become a profile section.
func (c *Catalog) Excluded(key string) bool {
	_, ok := c.excluded[key]
	return ok
}

// Exclude adds keys to the exclusion set.
func (c *Catalog) Exclude(keys ...string) {
	for _, k := range keys {
		if k = source.CanonicalKey(k); k != "" {
			c.excluded[k] = struct{}{}
		}
	}
}

// Overrides extend a catalog from a YAML file:
//
//	labels:
//	  "Ciclo Relativo": "📚 Ciclo"
//	exclude:
//	  - "Segunda opción de área"
type Overrides struct {
	Labels  map[string]string `yaml:"labels"`
	Exclude []string          `yaml:"exclude"`
}

// LoadOverrides reads an overrides file.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog overrides: %w", err)
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse catalog overrides: %w", err)
	}
	return &o, nil
}

// Apply merges overrides into the catalog; override labels win.
func (c *Catalog) Apply(o *Overrides) {
	if o == nil {
		return
	}
	for k, v := range o.Labels {
		c.labels[source.CanonicalKey(k)] = v
	}
	c.Exclude(o.Exclude...)
}
