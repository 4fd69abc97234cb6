// Package content holds the marketing copy shown by the kiosk. Every field
// has a built-in default; a YAML file can override any of them.
package content

import (
	"fmt"
	"os"
	"strings"

	"github.com/homekey-labs/homekey/internal/logger"
	"gopkg.in/yaml.v3"
)

// Content is the full set of copy rendered by the sections and the lead form.
type Content struct {
	Company string `yaml:"company"`
	Phone   string `yaml:"phone"`

	Hero       Hero    `yaml:"hero"`
	ValueProps []Card  `yaml:"value_props"`
	Steps      []Card  `yaml:"steps"`
	Badges     []Badge `yaml:"badges"`
	FAQ        []FAQ   `yaml:"faq"`
	Success    Success `yaml:"success"`
	Splash     string  `yaml:"splash"`
}

// Hero is the headline block at the top of the home section. About is
// markdown.
type Hero struct {
	Headline    string `yaml:"headline"`
	Subheadline string `yaml:"subheadline"`
	About       string `yaml:"about"`
}

// Card is a titled block of text, used for value props and process steps.
type Card struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Badge is a trust signal.
type Badge struct {
	Label  string `yaml:"label"`
	Detail string `yaml:"detail"`
}

// FAQ is one accordion entry. Answer is markdown.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Success is the copy shown after a lead is submitted.
type Success struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// Variables holds the values injected into {{placeholder}} markers.
type Variables struct {
	Company   string
	Phone     string
	FirstName string
}

// Render replaces placeholders in text. Supported placeholders:
// - {{company}} - business name
// - {{phone}} - business phone number
// - {{first_name}} - first name of the lead, "there" when unknown
func Render(text string, vars Variables) string {
	firstName := strings.TrimSpace(vars.FirstName)
	if firstName == "" {
		firstName = "there"
	}
	return strings.NewReplacer(
		"{{company}}", vars.Company,
		"{{phone}}", vars.Phone,
		"{{first_name}}", firstName,
	).Replace(text)
}

// Vars returns the variables for this content.
func (c *Content) Vars(firstName string) Variables {
	return Variables{Company: c.Company, Phone: c.Phone, FirstName: firstName}
}

// WithBusiness overrides the company name and phone when they are set.
// Configuration values win over the content file.
func (c *Content) WithBusiness(company, phone string) *Content {
	if company = strings.TrimSpace(company); company != "" {
		c.Company = company
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		c.Phone = phone
	}
	return c
}

// R renders text with this content's company and phone.
func (c *Content) R(text string) string {
	return Render(text, c.Vars(""))
}

// Load returns the default copy with the YAML file at path layered on top.
// An empty path returns the defaults. Lists in the file replace the
// defaults wholesale.
func Load(path string) (*Content, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing content file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("content file %s: %w", path, err)
	}
	logger.Debug("Loaded content overrides from %s", path)
	return c, nil
}

// Validate rejects copy the sections cannot render.
func (c *Content) Validate() error {
	if strings.TrimSpace(c.Company) == "" {
		return fmt.Errorf("company is required")
	}
	for i, f := range c.FAQ {
		if strings.TrimSpace(f.Question) == "" {
			return fmt.Errorf("faq[%d]: question is required", i)
		}
	}
	for i, s := range c.Steps {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("steps[%d]: title is required", i)
		}
	}
	return nil
}
