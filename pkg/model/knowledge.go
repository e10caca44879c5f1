package model

// KnowledgeBase is the structured profile the assistant answers from. It is
// loaded once at startup and shared read-only afterwards.
type KnowledgeBase struct {
	Personal             Personal       `yaml:"personal" json:"personal"`
	Skills               Skills         `yaml:"skills" json:"skills"`
	Certificates         []string       `yaml:"certificates" json:"certificates"`
	Experience           []Position     `yaml:"experience" json:"experience"`
	Education            []Education    `yaml:"education" json:"education"`
	ProfessionalProjects []string       `yaml:"professional_projects" json:"professional_projects"`
	Projects             []Project      `yaml:"projects" json:"projects"`
	Organizations        []Organization `yaml:"organizations" json:"organizations"`
	Contact              Contact        `yaml:"contact" json:"contact"`
	Interests            Interests      `yaml:"interests" json:"interests"`
}

type Personal struct {
	Name       string   `yaml:"name" json:"name"`
	Nickname   string   `yaml:"nickname" json:"nickname"`
	Username   string   `yaml:"username" json:"username"`
	Role       string   `yaml:"role" json:"role"`
	Location   string   `yaml:"location" json:"location"`
	Email      string   `yaml:"email" json:"email"`
	Experience string   `yaml:"experience" json:"experience"`
	Profile    string   `yaml:"profile" json:"profile"`
	Pronouns   Pronouns `yaml:"pronouns" json:"pronouns"`
}

// Pronouns are interpolated into generated answers, e.g. "he"/"his".
type Pronouns struct {
	Subject    string `yaml:"subject" json:"subject"`
	Possessive string `yaml:"possessive" json:"possessive"`
}

type Skills struct {
	Primary      []string `yaml:"primary" json:"primary"`
	Languages    []string `yaml:"languages" json:"languages"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Tools        []string `yaml:"tools" json:"tools"`
	Frameworks   []string `yaml:"frameworks" json:"frameworks"`
}

type Position struct {
	Company      string   `yaml:"company" json:"company"`
	Position     string   `yaml:"position" json:"position"`
	Duration     string   `yaml:"duration" json:"duration"`
	Location     string   `yaml:"location,omitempty" json:"location,omitempty"`
	Achievements []string `yaml:"achievements" json:"achievements"`
}

type Education struct {
	Institution string `yaml:"institution" json:"institution"`
	Degree      string `yaml:"degree" json:"degree"`
	Duration    string `yaml:"duration" json:"duration"`
}

type Project struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Tech        string   `yaml:"tech" json:"tech"`
	GitHub      string   `yaml:"github,omitempty" json:"github,omitempty"`
	Website     string   `yaml:"website,omitempty" json:"website,omitempty"`
	Status      string   `yaml:"status,omitempty" json:"status,omitempty"`
	Features    []string `yaml:"features" json:"features"`
	Mission     string   `yaml:"mission,omitempty" json:"mission,omitempty"`

	// Keywords are the lowercase terms that select this project in a
	// named-project lookup.
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Link returns the GitHub repository if present, otherwise the website.
func (p Project) Link() string {
	if p.GitHub != "" {
		return p.GitHub
	}
	return p.Website
}

type Organization struct {
	Handle      string `yaml:"handle" json:"handle"`
	Description string `yaml:"description" json:"description"`
}

type Contact struct {
	GitHub    string `yaml:"github" json:"github"`
	LinkedIn  string `yaml:"linkedin" json:"linkedin"`
	Portfolio string `yaml:"portfolio" json:"portfolio"`
}

type Interests struct {
	Current  []string `yaml:"current" json:"current"`
	Learning []string `yaml:"learning" json:"learning"`
	Passion  []string `yaml:"passion" json:"passion"`
}

// Project returns the project with the given name.
func (kb *KnowledgeBase) Project(name string) (Project, bool) {
	for _, p := range kb.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}

// ProjectNames returns project names in declaration order.
func (kb *KnowledgeBase) ProjectNames() []string {
	names := make([]string, 0, len(kb.Projects))
	for _, p := range kb.Projects {
		names = append(names, p.Name)
	}
	return names
}

// CurrentPosition returns the first (most recent) experience entry.
func (kb *KnowledgeBase) CurrentPosition() (Position, bool) {
	if len(kb.Experience) == 0 {
		return Position{}, false
	}
	return kb.Experience[0], true
}
