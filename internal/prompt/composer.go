package prompt

import (
	"fmt"

	"github.com/rkatmsl/smaianalysis/internal/table"
)

const (
	dataLabel     = "Social media data:"
	questionLabel = "User question:"
)

// Compose serializes the table to markdown and appends the question after
// the question label. The output is deterministic: the same table and
// question always produce the same bytes. No size limiting is applied; a
// table large enough to exceed a provider's input window is passed through
// as-is and fails at the provider.
func Compose(t *table.Table, question string) string {
	return fmt.Sprintf("%s\n%s\n\n%s %s", dataLabel, t.Markdown(), questionLabel, question)
}

// Size returns the byte length of the prompt that Compose would produce,
// so callers can warn about very large tables without composing twice.
func Size(t *table.Table, question string) int {
	return len(dataLabel) + 1 + len(t.Markdown()) + 2 + len(questionLabel) + 1 + len(question)
}
