package lint

// Result is the report of one Check. Its JSON form is golangci-lint's own
// issue list, so existing tooling can read it.
type Result struct {
	Issues []Issue `json:"Issues"`
}

// Issue is a single golangci-lint finding.
type Issue struct {
	FromLinter           string       `json:"FromLinter"`
	Text                 string       `json:"Text"`
	Severity             string       `json:"Severity"`
	SourceLines          []string     `json:"SourceLines"`
	Replacement          *Replacement `json:"Replacement"`
	Pos                  Pos          `json:"Pos"`
	ExpectNoLint         bool         `json:"ExpectNoLint"`
	ExpectedNoLintLinter string       `json:"ExpectedNoLintLinter"`
}

type Replacement struct {
	NewLines []string `json:"NewLines"`
}

type Pos struct {
	Filename string `json:"Filename"`
	Offset   int    `json:"Offset"`
	Line     int    `json:"Line"`
	Column   int    `json:"Column"`
}

// golangciReport is the subset of `golangci-lint run --out-format json`
// that is read.
type golangciReport struct {
	Issues []Issue `json:"Issues"`
}
