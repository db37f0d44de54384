package rag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

// EmptyContextMarker is rendered instead of an empty string when
// retrieval found nothing, so the prompt template can branch on it.
const EmptyContextMarker = "[no matching documents]"

// truncationMarker flags a cut document; the assembler never cuts
// silently.
const truncationMarker = "…[truncated]"

// Context is the assembled, budget-bounded context block with the IDs of
// the documents that made it in, in rank order.
type Context struct {
	Text        string
	DocumentIDs []string
}

// IsEmpty reports whether no document made it into the context.
func (c Context) IsEmpty() bool { return len(c.DocumentIDs) == 0 }

// Assemble concatenates document texts in rank order, each prefixed with
// a citation marker ([1], [2], ...). Documents are appended whole while
// they fit within budget (max characters); the first document that would
// not fit stops assembly, dropping the lowest-ranked documents first. If
// even the top document exceeds the budget it is cut to fit and marked,
// so a non-empty retrieval never assembles into nothing.
func Assemble(results []domain.ScoredDocument, budget int) Context {
	if len(results) == 0 {
		return Context{Text: EmptyContextMarker}
	}

	var b strings.Builder
	var ids []string

	for i, r := range results {
		entry := fmt.Sprintf("[%d] %s", i+1, r.Text)
		sep := ""
		if b.Len() > 0 {
			sep = "\n\n"
		}

		if b.Len()+len(sep)+len(entry) > budget {
			if b.Len() == 0 {
				b.WriteString(truncateToFit(entry, budget))
				ids = append(ids, r.ID)
			}
			break
		}

		b.WriteString(sep)
		b.WriteString(entry)
		ids = append(ids, r.ID)
	}

	return Context{Text: b.String(), DocumentIDs: ids}
}

// truncateToFit cuts s so that the result plus the truncation marker fits
// in budget bytes, backing off to a rune boundary. A budget too small for
// the marker itself degrades to a plain cut.
func truncateToFit(s string, budget int) string {
	if len(s) <= budget {
		return s
	}

	cut := budget - len(truncationMarker)
	marker := truncationMarker
	if cut <= 0 {
		cut = budget
		marker = ""
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + marker
}
