package skills

import (
	"fmt"
	"strings"
)

type Category string

const (
	ProgrammingLanguages Category = "programming_languages"
	FrameworksLibraries  Category = "frameworks_libraries"
	Databases            Category = "databases"
	CloudPlatforms       Category = "cloud_platforms"
	ToolsTechnologies    Category = "tools_technologies"
	Methodologies        Category = "methodologies"
	SoftSkills           Category = "soft_skills"
)

// Group is a category with its terms in a fixed order.
type Group struct {
	Category Category `json:"category"`
	Terms    []string `json:"terms"`
}

// Catalog is the static skill taxonomy. It is never modified after creation.
type Catalog struct {
	groups []Group
	index  map[Category]int
}

// NewCatalog builds a catalog from the provided groups. Terms are lowercased and
// must be unique within their category.
func NewCatalog(groups ...Group) (*Catalog, error) {
	c := &Catalog{
		groups: make([]Group, 0, len(groups)),
		index:  make(map[Category]int, len(groups)),
	}

	for _, g := range groups {
		if _, ok := c.index[g.Category]; ok {
			return nil, fmt.Errorf("category %s is declared twice", g.Category)
		}

		seen := make(map[string]struct{}, len(g.Terms))
		terms := make([]string, 0, len(g.Terms))
		for _, term := range g.Terms {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			if _, ok := seen[term]; ok {
				return nil, fmt.Errorf("term %q is duplicated in category %s", term, g.Category)
			}
			seen[term] = struct{}{}
			terms = append(terms, term)
		}

		c.index[g.Category] = len(c.groups)
		c.groups = append(c.groups, Group{Category: g.Category, Terms: terms})
	}

	return c, nil
}

// Categories returns category ids in catalog order.
func (c *Catalog) Categories() []Category {
	categories := make([]Category, 0, len(c.groups))
	for _, g := range c.groups {
		categories = append(categories, g.Category)
	}
	return categories
}

// Terms returns a copy of the category terms. Unknown categories have none.
func (c *Catalog) Terms(category Category) []string {
	idx, ok := c.index[category]
	if !ok {
		return nil
	}
	return append([]string(nil), c.groups[idx].Terms...)
}

// DefaultCatalog returns the built-in taxonomy.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultGroups...)
	if err != nil {
		// built-in data is covered by tests
		panic(err)
	}
	return c
}

var defaultGroups = []Group{
	{
		Category: ProgrammingLanguages,
		Terms: []string{
			"python", "java", "javascript", "typescript", "c++", "c#", "php", "ruby", "go", "rust",
			"swift", "kotlin", "scala", "r", "matlab", "sql", "html", "css", "bash", "powershell",
		},
	},
	{
		Category: FrameworksLibraries,
		Terms: []string{
			"django", "flask", "fastapi", "spring", "react", "vue", "angular", "node.js", "express",
			"laravel", "rails", "asp.net", "jquery", "bootstrap", "tailwind", "material-ui",
			"tensorflow", "pytorch", "scikit-learn", "pandas", "numpy", "matplotlib", "seaborn",
		},
	},
	{
		Category: Databases,
		Terms: []string{
			"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "sqlite", "oracle",
			"sql server", "dynamodb", "cassandra", "neo4j", "influxdb",
		},
	},
	{
		Category: CloudPlatforms,
		Terms: []string{
			"aws", "azure", "gcp", "heroku", "digitalocean", "linode", "vultr", "kubernetes",
			"docker", "terraform", "ansible", "jenkins", "gitlab", "github actions",
		},
	},
	{
		Category: ToolsTechnologies,
		Terms: []string{
			"git", "svn", "jira", "confluence", "slack", "teams", "zoom", "figma", "sketch",
			"photoshop", "illustrator", "excel", "powerpoint", "word", "notion", "trello",
			"microsoft office", "microsoft excel", "microsoft powerpoint", "microsoft word",
			"microsoft teams", "microsoft outlook", "microsoft onedrive", "microsoft onenote",
			"ms word/excel", "outlook", "onedrive", "onenote",
		},
	},
	{
		Category: Methodologies,
		Terms: []string{
			"agile", "scrum", "kanban", "waterfall", "devops", "ci/cd", "tdd", "bdd", "lean",
			"six sigma", "prince2", "pmp",
		},
	},
	{
		Category: SoftSkills,
		Terms: []string{
			"leadership", "communication", "teamwork", "problem solving", "critical thinking",
			"time management", "project management", "mentoring", "presentation", "negotiation",
			"analytical skills", "creativity", "adaptability", "stress management", "stress resistance",
			"logical thinking",
		},
	},
}
