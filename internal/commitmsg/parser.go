package commitmsg

import (
	"regexp"
	"strings"
)

// IgnoreFlag is the bracketed flag that removes a commit from the changelog.
const IgnoreFlag = "ignore"

var (
	// <type>[(<category>)]: <title>[ [<flag>]]
	subjectPattern = regexp.MustCompile(`^([^)]*)(?:\(([^)]*?)\)|):(.*?)(?:\[([^\]]+?)\]|)\s*$`)
	pullRefPattern = regexp.MustCompile(`#([1-9][0-9]*)`)
)

// ParsedCommit is the structured form of a commit subject line.
type ParsedCommit struct {
	TypeKey  string
	Label    string
	Category string
	Title    string
	Flag     string
	Suppress bool
}

// Keep reports whether the commit should produce a changelog entry.
func (p ParsedCommit) Keep() bool {
	return p.Title != "" && !p.Suppress
}

// Parser classifies commit subjects against the structured-commit grammar.
type Parser struct {
	registry *Registry
	repoURL  string
}

// NewParser creates a parser that labels types through registry and links
// pull request references against repoURL (e.g. https://github.com/o/r).
func NewParser(registry *Registry, repoURL string) *Parser {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Parser{
		registry: registry,
		repoURL:  strings.TrimRight(repoURL, "/"),
	}
}

// Registry returns the registry the parser labels types with.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Parse extracts type, category, title and flag from the first line of message.
// The zero Title signals an unclassifiable commit.
func (p *Parser) Parse(message string) ParsedCommit {
	m := subjectPattern.FindStringSubmatch(FirstLine(message))
	if m == nil {
		return ParsedCommit{}
	}

	title := normalize(m[3])
	if title == "" {
		return ParsedCommit{}
	}

	flag := normalize(m[4])
	if flag == IgnoreFlag {
		return ParsedCommit{Title: title, Flag: flag, Suppress: true}
	}

	typeKey := normalize(m[1])
	return ParsedCommit{
		TypeKey:  typeKey,
		Label:    p.registry.Label(typeKey),
		Category: normalize(m[2]),
		Title:    p.LinkPullRequests(title),
		Flag:     flag,
	}
}

// LinkPullRequests rewrites every #<n> reference into a markdown link.
func (p *Parser) LinkPullRequests(title string) string {
	return pullRefPattern.ReplaceAllStringFunc(title, func(ref string) string {
		return "[" + ref + "](" + p.repoURL + "/pull/" + ref[1:] + ")"
	})
}

// FirstLine returns message up to its first line break.
func FirstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}
	return strings.TrimSuffix(message, "\r")
}

// normalize trims s and collapses interior whitespace runs to one space.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
