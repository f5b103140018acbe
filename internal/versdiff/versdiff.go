// Package versdiff computes the word-level edit script between a historical
// redaction of a unit and its current counterpart.
package versdiff

import (
	"strings"

	"github.com/lfarias/normanav/internal/norma"
)

// OpType classifies one token of an edit script.
type OpType string

const (
	OpEqual  OpType = "eq"
	OpInsert OpType = "ins"
	OpDelete OpType = "del"
)

// Edit is one token of the script, in output order.
type Edit struct {
	Type  OpType `json:"type"`
	Token string `json:"token"`
}

// Diff computes the token-level edit script from oldText to newText.
// Tokenization splits on whitespace, so punctuation stays attached to its
// token. The script interleaves unchanged, removed and added tokens in
// original order; on a backtrack tie, showing added text is preferred over
// removed text.
func Diff(oldText, newText string) []Edit {
	a := strings.Fields(oldText)
	b := strings.Fields(newText)
	m, n := len(a), len(b)

	// LCS length table, dp[i][j] = LCS of a[:i], b[:j].
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	// Backtrack from (m,n). On equal scores the insertion (new-text)
	// direction wins; the asymmetry is behavior-visible in the rendered
	// diff and deliberate.
	var rev []Edit
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			rev = append(rev, Edit{Type: OpEqual, Token: a[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			rev = append(rev, Edit{Type: OpInsert, Token: b[j-1]})
			j--
		default:
			rev = append(rev, Edit{Type: OpDelete, Token: a[i-1]})
			i--
		}
	}

	script := make([]Edit, len(rev))
	for k := range rev {
		script[k] = rev[len(rev)-1-k]
	}
	return script
}

// Counterpart resolves the current block a historical version is a former
// redaction of: the block whose label matches the version's, or the first
// text block when the version carries no identifier. Nil means the version
// has no resolvable counterpart and no diff is offered for it.
func Counterpart(art *norma.Article, v norma.Version) *norma.Block {
	if len(art.Blocks) == 0 {
		return nil
	}
	if v.Label == "" {
		for i := range art.Blocks {
			if art.Blocks[i].Kind == norma.KindCaput {
				return &art.Blocks[i]
			}
		}
		return &art.Blocks[0]
	}
	for i := range art.Blocks {
		if art.Blocks[i].Label == v.Label || art.Blocks[i].Path == v.Label {
			return &art.Blocks[i]
		}
	}
	return nil
}

// DiffVersion diffs the article's n-th historical version against its
// resolved current counterpart. The second return is false when the version
// index is out of range or no counterpart resolves (the diff affordance is
// simply not offered, not an error).
func DiffVersion(art *norma.Article, version int) ([]Edit, bool) {
	if art == nil || version < 0 || version >= len(art.Versions) {
		return nil, false
	}
	v := art.Versions[version]
	cur := Counterpart(art, v)
	if cur == nil {
		return nil, false
	}
	return Diff(v.Text, cur.Text), true
}
